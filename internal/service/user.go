package service

import (
	"fmt"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// ProfileUpdate carries the mutable profile fields. Nil means "leave
// unchanged".
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Role  *string
}

type UserService interface {
	GetProfile(userID int64) (*models.User, error)
	UpdateProfile(userID int64, update ProfileUpdate) (*models.User, error)
	ChangePassword(userID int64, currentPassword, newPassword string) error
	GetAllUsers() ([]*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	UpdateUser(id int64, update ProfileUpdate) (*models.User, error)
	DeleteUser(id int64) error
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) GetProfile(userID int64) (*models.User, error) {
	return s.GetUserByID(userID)
}

// UpdateProfile applies a self-service profile update. Role changes
// are ignored here; only the admin path may touch roles.
func (s *userService) UpdateProfile(userID int64, update ProfileUpdate) (*models.User, error) {
	update.Role = nil
	return s.applyUpdate(userID, update)
}

func (s *userService) ChangePassword(userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !verifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(userID, passwordHash); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) GetAllUsers() ([]*models.User, error) {
	return s.users.GetAllUsers()
}

func (s *userService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser is the admin path; it may also change the role.
func (s *userService) UpdateUser(id int64, update ProfileUpdate) (*models.User, error) {
	if update.Role != nil && *update.Role != models.RoleUser && *update.Role != models.RoleAdmin {
		update.Role = nil
	}
	return s.applyUpdate(id, update)
}

// DeleteUser removes the user; their todos and blacklist entries
// cascade at the schema level.
func (s *userService) DeleteUser(id int64) error {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err))
		return fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.users.DeleteUser(id); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *userService) applyUpdate(id int64, update ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		s.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if email != user.Email {
			existing, err := s.users.GetUserByEmail(email)
			if err != nil {
				s.logger.Error("Failed to check email", zap.Error(err))
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if existing != nil {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = *update.Role
	}

	if err := s.users.UpdateUser(user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
