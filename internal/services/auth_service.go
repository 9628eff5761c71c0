package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/securegate/visitor-pass-backend/internal/models"
	"github.com/securegate/visitor-pass-backend/pkg/jwt"
)

var (
	// ErrInvalidCredentials indicates a wrong email or password. The two
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")

	// ErrAccountDisabled indicates the account exists but may not log in
	ErrAccountDisabled = fmt.Errorf("account is disabled")
)

// userStore is the subset of the user repository the auth service needs
type userStore interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	RecordLogin(id string, at time.Time) error
}

// loginAuditor records login attempts
type loginAuditor interface {
	LogLogin(userID *string, email, ipAddress, userAgent string, success bool) error
}

// TokenPair is the result of a successful authentication
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates portal users and issues JWT token pairs
type AuthService struct {
	users  userStore
	tokens *jwt.Service
	audit  loginAuditor
	logger *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users userStore, tokens *jwt.Service, audit loginAuditor, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
		logger: logger,
	}
}

// Login verifies the credentials and returns a token pair with the user
func (s *AuthService) Login(input *models.LoginRequest, ipAddress, userAgent string) (*TokenPair, *models.User, error) {
	user, err := s.users.GetByEmail(input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.auditLogin(nil, input.Email, ipAddress, userAgent, false)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.auditLogin(&user.ID, input.Email, ipAddress, userAgent, false)
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		s.auditLogin(&user.ID, input.Email, ipAddress, userAgent, false)
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.RecordLogin(user.ID, time.Now()); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}
	s.auditLogin(&user.ID, input.Email, ipAddress, userAgent, true)

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, *models.User, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive() {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// GetUser loads the user behind a validated access token
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	return s.users.GetByID(userID)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) auditLogin(userID *string, email, ipAddress, userAgent string, success bool) {
	if err := s.audit.LogLogin(userID, email, ipAddress, userAgent, success); err != nil {
		s.logger.WithError(err).Warn("Failed to write login audit log")
	}
}
