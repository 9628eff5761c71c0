package database

import (
	"fmt"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

// SessionRepository handles database operations for assembly sessions
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetAll retrieves all sessions, most recent first
func (r *SessionRepository) GetAll() ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.Select(&sessions, `
		SELECT id, name, starts_on, ends_on, created_at
		FROM sessions
		ORDER BY starts_on DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	return sessions, nil
}
