package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/mailer"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// AccountService defines the interface for account operations.
type AccountService interface {
	// Register creates a local account with a bcrypt-hashed password.
	Register(ctx context.Context, username, email, password string) (*models.User, error)

	// Authenticate verifies a username/password pair and returns the user.
	// Returns ErrInvalidCredentials for unknown users and wrong passwords
	// alike, to avoid leaking which usernames exist.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// UpdateProfile overwrites first name, last name and email in place
	// (full replace, no partial merge).
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, email string) (*models.User, error)

	// ChangePassword verifies the current password, stores the new one and
	// emails the user a notification.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// accountService implements AccountService.
type accountService struct {
	userRepo       repositories.UserRepository
	mail           mailer.Mailer
	templates      *mailer.Templates
	contactAddress string
	logger         *zap.Logger
}

// NewAccountService creates a new account service with dependencies.
// contactAddress appears in the password-change notification as the address
// to reach if the change was not initiated by the account holder.
func NewAccountService(userRepo repositories.UserRepository, mail mailer.Mailer, templates *mailer.Templates, contactAddress string, logger *zap.Logger) AccountService {
	return &accountService{
		userRepo:       userRepo,
		mail:           mail,
		templates:      templates,
		contactAddress: contactAddress,
		logger:         logger,
	}
}

// Register creates a local account.
func (s *accountService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Account registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *accountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// Get returns the user's account.
func (s *accountService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile overwrites the profile fields in place.
func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, email string) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, firstName, lastName, email); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password, stores the new one and
// notifies the user by email. Notification failures are logged, not
// surfaced: the password has already been changed at that point.
func (s *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.ComparePassword(user.PasswordHash, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	subject, body, err := s.templates.Render(mailer.TemplatePasswordChanged, map[string]string{
		"Name":           user.FullName(),
		"ContactAddress": s.contactAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	if err := s.mail.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Warn("Failed to send password change notification",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	return nil
}

// Ensure accountService implements AccountService at compile time.
var _ AccountService = (*accountService)(nil)
