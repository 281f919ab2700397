package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/mailer"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// ContactService forwards contact-form submissions to the configured
// recipient address.
type ContactService interface {
	Send(ctx context.Context, userID uuid.UUID, subject, message string) error
}

// contactService implements ContactService.
type contactService struct {
	userRepo  repositories.UserRepository
	mail      mailer.Mailer
	templates *mailer.Templates
	recipient string
	logger    *zap.Logger
}

// NewContactService creates a new contact service with dependencies.
func NewContactService(userRepo repositories.UserRepository, mail mailer.Mailer, templates *mailer.Templates, recipient string, logger *zap.Logger) ContactService {
	return &contactService{
		userRepo:  userRepo,
		mail:      mail,
		templates: templates,
		recipient: recipient,
		logger:    logger,
	}
}

// Send forwards a contact message. The sender's name and email are prefixed
// to the body so the recipient can reply out of band.
func (s *contactService) Send(ctx context.Context, userID uuid.UUID, subject, message string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	renderedSubject, body, err := s.templates.Render(mailer.TemplateContact, map[string]string{
		"Subject": subject,
		"Name":    user.FullName(),
		"Email":   user.Email,
		"Message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to render contact message: %w", err)
	}

	if err := s.mail.Send(ctx, s.recipient, renderedSubject, body); err != nil {
		return err
	}

	s.logger.Info("Contact message forwarded",
		zap.String("user_id", userID.String()))
	return nil
}

// Ensure contactService implements ContactService at compile time.
var _ ContactService = (*contactService)(nil)
