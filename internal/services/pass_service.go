package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/pkg/whatsapp"
)

var (
	// ErrPassAlreadyGenerated indicates the visitor already holds an issued pass
	ErrPassAlreadyGenerated = fmt.Errorf("a pass has already been generated for this visitor")

	// ErrVisitorSuspended indicates the action is blocked by an active suspension
	ErrVisitorSuspended = fmt.Errorf("visitor is suspended")

	// ErrVisitorRejected indicates a pass cannot be issued to a rejected visitor
	ErrVisitorRejected = fmt.Errorf("visitor has been rejected")

	// ErrNoPassToSuspend indicates suspension was attempted before a pass exists
	ErrNoPassToSuspend = fmt.Errorf("visitor has no issued pass to suspend")

	// ErrNotSuspended indicates activation was attempted on a non-suspended visitor
	ErrNotSuspended = fmt.Errorf("visitor is not suspended")

	// ErrRequestNotRoutable indicates the request is past the point of routing
	ErrRequestNotRoutable = fmt.Errorf("request can no longer be routed")

	// ErrVisitorNotInRequest indicates a visitor id that belongs to another request
	ErrVisitorNotInRequest = fmt.Errorf("visitor does not belong to this request")

	// ErrNoPassToSend indicates a WhatsApp resend without an issued pass
	ErrNoPassToSend = fmt.Errorf("visitor has no issued pass to send")
)

// requestStore is the subset of the pass request repository the service needs
type requestStore interface {
	Create(request *models.PassRequest) error
	GetByID(id string) (*models.PassRequest, error)
	UpdateStatus(id string, status models.RequestStatus) error
	Route(id string, routedTo string, routedBy *string, routedAt time.Time) error
}

// visitorStore is the subset of the visitor repository the service needs
type visitorStore interface {
	GetByID(id string) (*models.Visitor, error)
	UpdateStatus(id string, status models.VisitorStatus, reason *string) error
	Route(id string, routedTo string) error
	GeneratePass(id string, passNumber, qrString string, generatedAt time.Time, categoryID, subCategoryID, passTypeID *string) error
	AddCarPass(visitorID string, carPass *models.CarPass) error
	Suspend(id string, reason string, suspendedAt time.Time) error
	Activate(id string) error
}

// auditLogger records workflow actions for the audit trail
type auditLogger interface {
	LogVisitorAction(actorID, visitorID, action, ipAddress, userAgent string, details map[string]interface{}) error
	LogRequestAction(actorID, requestID, action, ipAddress, userAgent string, details map[string]interface{}) error
}

// Actor identifies who performed an action and from where
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// PassService implements the pass request workflow: submission, routing,
// visitor approval, pass issuance, and suspension.
type PassService struct {
	requests requestStore
	visitors visitorStore
	audit    auditLogger
	gateway  whatsapp.Gateway
	logger   *logrus.Logger
}

// NewPassService creates a new pass service
func NewPassService(requests requestStore, visitors visitorStore, audit auditLogger, gateway whatsapp.Gateway, logger *logrus.Logger) *PassService {
	return &PassService{
		requests: requests,
		visitors: visitors,
		audit:    audit,
		gateway:  gateway,
		logger:   logger,
	}
}

// CreateRequest stores a new pass request with its visitors. The input is
// assumed to be validated already.
func (s *PassService) CreateRequest(input *models.CreatePassRequest, actor Actor) (*models.PassRequest, error) {
	validFrom, err := time.Parse("2006-01-02", input.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_from date: %w", err)
	}

	var validTo *time.Time
	if input.ValidTo != nil {
		parsed, err := time.Parse("2006-01-02", *input.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("invalid valid_to date: %w", err)
		}
		validTo = &parsed
	}

	request := &models.PassRequest{
		RequestID:      generateRequestRef(),
		MainCategoryID: input.MainCategoryID,
		SubCategoryID:  input.SubCategoryID,
		Status:         models.RequestStatusPending,
		Purpose:        input.Purpose,
		RequestedBy:    input.RequestedBy,
		ValidFrom:      validFrom,
		ValidTo:        validTo,
		Season:         input.Season,
	}

	for _, v := range input.Visitors {
		visitor := models.Visitor{
			FirstName:            v.FirstName,
			LastName:             v.LastName,
			Email:                v.Email,
			Phone:                v.Phone,
			IdentificationType:   v.IdentificationType,
			IdentificationNumber: v.IdentificationNumber,
			VisitorStatus:        models.VisitorStatusPending,
		}
		if v.CarPass != nil {
			visitor.CarPasses = []models.CarPass{{
				CarMake:   v.CarPass.CarMake,
				CarModel:  v.CarPass.CarModel,
				CarColor:  v.CarPass.CarColor,
				CarNumber: v.CarPass.CarNumber,
				CarTag:    v.CarPass.CarTag,
			}}
		}
		request.Visitors = append(request.Visitors, visitor)
	}

	if err := s.requests.Create(request); err != nil {
		return nil, err
	}

	s.auditRequest(actor, request.ID, "request_create", map[string]interface{}{
		"request_ref":   request.RequestID,
		"visitor_count": len(request.Visitors),
	})

	s.logger.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"request_ref": request.RequestID,
		"visitors":    len(request.Visitors),
	}).Info("Pass request created")

	return request, nil
}

// UpdateVisitorStatus approves or rejects a single visitor. Status changes
// are blocked once a pass has been issued or while the visitor is suspended.
func (s *PassService) UpdateVisitorStatus(visitorID string, input *models.UpdateVisitorStatusRequest, actor Actor) (*models.Visitor, error) {
	visitor, err := s.visitors.GetByID(visitorID)
	if err != nil {
		return nil, err
	}

	if visitor.IsSuspended {
		return nil, ErrVisitorSuspended
	}
	if visitor.HasPass() {
		return nil, ErrPassAlreadyGenerated
	}

	if err := s.visitors.UpdateStatus(visitorID, input.Status, input.Comment); err != nil {
		return nil, err
	}

	action := "visitor_approve"
	if input.Status == models.VisitorStatusRejected {
		action = "visitor_reject"
	}
	details := map[string]interface{}{"status": string(input.Status)}
	if input.Comment != nil {
		details["comment"] = *input.Comment
	}
	s.auditVisitor(actor, visitorID, action, details)

	if input.Status == models.VisitorStatusRejected {
		reason := ""
		if input.Comment != nil {
			reason = *input.Comment
		}
		s.notify(visitor, fmt.Sprintf("Your visit request could not be approved. Reason: %s", reason))
	}

	return s.visitors.GetByID(visitorID)
}

// RouteRequest routes a request (or named visitors of it) to a superior
// for approval. The acting user is recorded as the router.
func (s *PassService) RouteRequest(requestID string, input *models.RouteRequest, actor Actor) (*models.PassRequest, error) {
	routedBy := &actor.UserID
	return s.route(requestID, input, routedBy, actor)
}

// RouteAutomatically routes a request without a named router, as the
// weblink submission flow does. The nil routed_by marks the routing as
// automatic rather than a deliberate HOD action.
func (s *PassService) RouteAutomatically(requestID, routedTo string) (*models.PassRequest, error) {
	input := &models.RouteRequest{RoutedTo: routedTo}
	return s.route(requestID, input, nil, Actor{UserID: "system"})
}

func (s *PassService) route(requestID string, input *models.RouteRequest, routedBy *string, actor Actor) (*models.PassRequest, error) {
	request, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	if !request.CanBeRouted() {
		return nil, ErrRequestNotRoutable
	}

	if len(input.VisitorIDs) > 0 {
		// Individual routing delegates named visitors without moving the
		// request itself out of its current status.
		byID := make(map[string]bool, len(request.Visitors))
		for _, v := range request.Visitors {
			byID[v.ID] = true
		}
		for _, visitorID := range input.VisitorIDs {
			if !byID[visitorID] {
				return nil, ErrVisitorNotInRequest
			}
			if err := s.visitors.Route(visitorID, input.RoutedTo); err != nil {
				return nil, err
			}
			s.auditVisitor(actor, visitorID, "visitor_route", map[string]interface{}{
				"routed_to": input.RoutedTo,
			})
		}
	} else {
		if err := s.requests.Route(requestID, input.RoutedTo, routedBy, time.Now()); err != nil {
			return nil, err
		}
		details := map[string]interface{}{"routed_to": input.RoutedTo, "automatic": routedBy == nil}
		if input.Comment != nil {
			details["comment"] = *input.Comment
		}
		s.auditRequest(actor, requestID, "request_route", details)
	}

	return s.requests.GetByID(requestID)
}

// GeneratePasses issues passes for the named visitors of a request and
// notifies each visitor over WhatsApp. Suspended and rejected visitors,
// and visitors who already hold a pass, are refused.
func (s *PassService) GeneratePasses(requestID string, input *models.GeneratePassRequest, actor Actor) ([]models.Visitor, error) {
	request, err := s.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Visitor, len(request.Visitors))
	for i := range request.Visitors {
		byID[request.Visitors[i].ID] = &request.Visitors[i]
	}

	// Refuse the whole batch before issuing anything
	for _, visitorID := range input.VisitorIDs {
		visitor, ok := byID[visitorID]
		if !ok {
			return nil, ErrVisitorNotInRequest
		}
		if visitor.IsSuspended {
			return nil, ErrVisitorSuspended
		}
		if visitor.VisitorStatus == models.VisitorStatusRejected {
			return nil, ErrVisitorRejected
		}
		if visitor.HasPass() {
			return nil, ErrPassAlreadyGenerated
		}
	}

	generatedAt := time.Now()
	issued := make([]models.Visitor, 0, len(input.VisitorIDs))

	for _, visitorID := range input.VisitorIDs {
		visitor := byID[visitorID]
		passNumber := generatePassNumber(generatedAt)
		qrString := generateQRString(request.RequestID, visitorID, passNumber)

		err := s.visitors.GeneratePass(visitorID, passNumber, qrString, generatedAt,
			input.PassCategoryID, input.PassSubCategoryID, input.PassTypeID)
		if err != nil {
			return nil, err
		}

		if input.CarPass != nil && len(input.VisitorIDs) == 1 && len(visitor.CarPasses) == 0 {
			carPass := &models.CarPass{
				CarMake:   input.CarPass.CarMake,
				CarModel:  input.CarPass.CarModel,
				CarColor:  input.CarPass.CarColor,
				CarNumber: input.CarPass.CarNumber,
				CarTag:    input.CarPass.CarTag,
			}
			if err := s.visitors.AddCarPass(visitorID, carPass); err != nil {
				return nil, err
			}
		}

		s.auditVisitor(actor, visitorID, "pass_generate", map[string]interface{}{
			"pass_number": passNumber,
			"request_ref": request.RequestID,
		})

		if _, err := s.gateway.SendPassIssued(visitor.Phone, visitor.FullName(), passNumber, qrString); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"visitor_id":  visitorID,
				"pass_number": passNumber,
			}).Warn("Failed to send pass over WhatsApp")
		}

		updated, err := s.visitors.GetByID(visitorID)
		if err != nil {
			return nil, err
		}
		issued = append(issued, *updated)
	}

	// Issuing a pass implies the request tier approved it
	if request.Status != models.RequestStatusApproved {
		if err := s.requests.UpdateStatus(requestID, models.RequestStatusApproved); err != nil {
			return nil, err
		}
	}

	return issued, nil
}

// SuspendVisitor suspends an issued pass. A visitor without a pass has
// nothing to suspend.
func (s *PassService) SuspendVisitor(visitorID string, input *models.SuspendVisitorRequest, actor Actor) (*models.Visitor, error) {
	visitor, err := s.visitors.GetByID(visitorID)
	if err != nil {
		return nil, err
	}

	if visitor.IsSuspended {
		return nil, ErrVisitorSuspended
	}
	if !visitor.CanBeSuspended() {
		return nil, ErrNoPassToSuspend
	}

	if err := s.visitors.Suspend(visitorID, input.Reason, time.Now()); err != nil {
		return nil, err
	}

	s.auditVisitor(actor, visitorID, "visitor_suspend", map[string]interface{}{
		"reason": input.Reason,
	})
	s.notify(visitor, fmt.Sprintf("Your visitor pass has been suspended. Reason: %s", input.Reason))

	return s.visitors.GetByID(visitorID)
}

// ActivateVisitor lifts a suspension, restoring the visitor's prior state
func (s *PassService) ActivateVisitor(visitorID string, input *models.ActivateVisitorRequest, actor Actor) (*models.Visitor, error) {
	visitor, err := s.visitors.GetByID(visitorID)
	if err != nil {
		return nil, err
	}

	if !visitor.CanBeActivated() {
		return nil, ErrNotSuspended
	}

	if err := s.visitors.Activate(visitorID); err != nil {
		return nil, err
	}

	details := map[string]interface{}{}
	if input.Comment != nil {
		details["comment"] = *input.Comment
	}
	s.auditVisitor(actor, visitorID, "visitor_activate", details)
	s.notify(visitor, "Your visitor pass has been re-activated.")

	return s.visitors.GetByID(visitorID)
}

// ResendWhatsApp re-sends the issued pass to a visitor of the request
func (s *PassService) ResendWhatsApp(requestID, visitorID string, actor Actor) error {
	visitor, err := s.visitors.GetByID(visitorID)
	if err != nil {
		return err
	}

	if visitor.RequestID != requestID {
		return ErrVisitorNotInRequest
	}
	if visitor.IsSuspended {
		return ErrVisitorSuspended
	}
	if !visitor.HasPass() || visitor.PassNumber == nil || visitor.PassQRString == nil {
		return ErrNoPassToSend
	}

	if _, err := s.gateway.SendPassIssued(visitor.Phone, visitor.FullName(), *visitor.PassNumber, *visitor.PassQRString); err != nil {
		return fmt.Errorf("failed to resend pass: %w", err)
	}

	s.auditVisitor(actor, visitorID, "pass_resend", map[string]interface{}{
		"pass_number": *visitor.PassNumber,
	})
	return nil
}

// notify sends a status message to the visitor, logging but not failing
// the action when the gateway is unavailable.
func (s *PassService) notify(visitor *models.Visitor, message string) {
	if _, err := s.gateway.SendStatusUpdate(visitor.Phone, visitor.FullName(), message); err != nil {
		s.logger.WithError(err).WithField("visitor_id", visitor.ID).Warn("Failed to send WhatsApp notification")
	}
}

func (s *PassService) auditVisitor(actor Actor, visitorID, action string, details map[string]interface{}) {
	if err := s.audit.LogVisitorAction(actor.UserID, visitorID, action, actor.IPAddress, actor.UserAgent, details); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("Failed to write audit log")
	}
}

func (s *PassService) auditRequest(actor Actor, requestID, action string, details map[string]interface{}) {
	if err := s.audit.LogRequestAction(actor.UserID, requestID, action, actor.IPAddress, actor.UserAgent, details); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("Failed to write audit log")
	}
}

// generateRequestRef produces the human-facing request reference
func generateRequestRef() string {
	return fmt.Sprintf("REQ-%s", strings.ToUpper(uuid.New().String()[:8]))
}

// generatePassNumber produces a pass number like VP-2024-4F2A9C
func generatePassNumber(at time.Time) string {
	return fmt.Sprintf("VP-%d-%s", at.Year(), strings.ToUpper(uuid.New().String()[:6]))
}

// generateQRString produces the payload encoded into the pass QR code
func generateQRString(requestRef, visitorID, passNumber string) string {
	return fmt.Sprintf("%s|%s|%s|%s", requestRef, visitorID, passNumber, uuid.New().String())
}
