package models

import (
	"strings"
	"time"
)

// UserRole represents a workflow role in the pass approval chain
type UserRole string

const (
	RoleDepartment  UserRole = "department"
	RoleLegislative UserRole = "legislative"
	RolePeshi       UserRole = "peshi"
	RoleAdmin       UserRole = "admin"
)

// ValidRoles lists every role accepted by the users-by-role lookup
var ValidRoles = []UserRole{RoleDepartment, RoleLegislative, RolePeshi, RoleAdmin}

// IsValidRole checks if the given string is a known workflow role
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// User represents a system user participating in the approval workflow
type User struct {
	ID           string     `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email" db:"email"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Role         UserRole   `json:"role" db:"role"`
	Designation  *string    `json:"designation,omitempty" db:"designation"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Status       string     `json:"status" db:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive checks if the user account is active
func (u *User) IsActive() bool {
	return u.Status == "active"
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.Email == "" {
		errs["email"] = "email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}
