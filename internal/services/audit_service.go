package services

import (
	"encoding/json"
	"fmt"

	"github.com/securegate/visitor-pass-backend/internal/database"
	"github.com/securegate/visitor-pass-backend/internal/utils"
)

// AuditService records one audit row per workflow action so every change
// to a pass request or visitor can be traced to an actor and a device.
type AuditService struct {
	db database.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditEvent represents a workflow event to be logged
type AuditEvent struct {
	ActorID    *string // nil for pre-authentication events
	Action     string  // e.g. "visitor_approve", "pass_generate", "login"
	EntityType string  // "visitor", "pass_request", "user"
	EntityID   *string
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{}
}

// LogVisitorAction logs an approve/reject/suspend/activate/route action
// against a single visitor.
func (s *AuditService) LogVisitorAction(actorID, visitorID, action, ipAddress, userAgent string, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["device_info"] = utils.ParseUserAgent(userAgent)

	return s.logEvent(AuditEvent{
		ActorID:    &actorID,
		Action:     action,
		EntityType: "visitor",
		EntityID:   &visitorID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogRequestAction logs a request-level action (routing, pass generation)
func (s *AuditService) LogRequestAction(actorID, requestID, action, ipAddress, userAgent string, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["device_info"] = utils.ParseUserAgent(userAgent)

	return s.logEvent(AuditEvent{
		ActorID:    &actorID,
		Action:     action,
		EntityType: "pass_request",
		EntityID:   &requestID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogLogin logs a login attempt
func (s *AuditService) LogLogin(userID *string, email, ipAddress, userAgent string, success bool) error {
	action := "login_failed"
	if success {
		action = "login_success"
	}

	return s.logEvent(AuditEvent{
		ActorID:    userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"email":       email,
			"success":     success,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// logEvent writes the audit row. Details are stored as JSONB.
func (s *AuditService) logEvent(event AuditEvent) error {
	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`,
		event.ActorID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}
