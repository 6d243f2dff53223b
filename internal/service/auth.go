package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters")
)

// AuthResult is what a successful register/login returns to the client.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type AuthService interface {
	Register(name, email, phone, password string) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	Logout(token string, userID int64) error
}

type authService struct {
	users     repository.UserRepository
	blacklist repository.TokenBlacklistRepository
	tokens    *TokenService
	retention time.Duration
	logger    *zap.Logger
}

func NewAuthService(users repository.UserRepository, blacklist repository.TokenBlacklistRepository,
	tokens *TokenService, retention time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		retention: retention,
		logger:    logger,
	}
}

func (s *authService) Register(name, email, phone, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}

	if err := s.users.CreateUser(user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokenResult(user)
}

func (s *authService) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	// Unknown email and wrong password are indistinguishable to the client
	if user == nil || !verifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in successfully.", zap.Int64("user_id", user.ID))
	return s.tokenResult(user)
}

// Logout blacklists the presented token for the retention window.
func (s *authService) Logout(token string, userID int64) error {
	expiresAt := time.Now().Add(s.retention)
	if err := s.blacklist.BlacklistToken(token, userID, expiresAt); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	s.logger.Info("User logged out, token revoked.", zap.Int64("user_id", userID))
	return nil
}

func (s *authService) tokenResult(user *models.User) (*AuthResult, error) {
	tokenString, expirationTime, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: tokenString, ExpiresAt: expirationTime, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
