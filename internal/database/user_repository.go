package database

import (
	"fmt"
	"time"

	"github.com/securegate/visitor-pass-backend/internal/models"
)

const userColumns = `
	id, first_name, last_name, email, phone, role, designation,
	password_hash, status, last_login_at, created_at, updated_at
`

// UserRepository handles database operations for workflow users
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, for login
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByRole retrieves all active users with the given workflow role
func (r *UserRepository) GetByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Select(&users, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		  AND status = 'active'
		ORDER BY first_name, last_name
	`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by role: %w", err)
	}
	return users, nil
}

// RecordLogin updates the user's last login timestamp
func (r *UserRepository) RecordLogin(id string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET last_login_at = $1, updated_at = NOW()
		WHERE id = $2
	`, at, id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}
