// Package mailer delivers outbound notification email over SMTP.
package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/config"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// smtpMailer implements Mailer against an SMTP relay.
type smtpMailer struct {
	client *gomail.Client
	from   string
	logger *zap.Logger
}

// New builds a Mailer from the mail configuration. When mail is disabled the
// returned Mailer logs messages instead of delivering them.
func New(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled {
		return &logMailer{logger: logger}, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// Send delivers a single plain-text message.
func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug("Mail sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// logMailer records what would have been sent. Used when mail is disabled.
type logMailer struct {
	logger *zap.Logger
}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("Mail delivery disabled, dropping message",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
