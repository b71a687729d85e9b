package operations

import (
	"context"
	"fmt"

	"github.com/accountd/api/src/config"
	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// Mailer defines the contract for outbound account emails
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

// EmailService sends account emails through Resend. When no API key is
// configured (local development) it logs the links instead of sending.
type EmailService struct {
	client      *resend.Client
	from        string
	frontendURL string
	logger      *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will be logged only")
	}

	return &EmailService{
		client:      client,
		from:        cfg.EmailFrom,
		frontendURL: cfg.FrontendURL,
		logger:      logger,
	}
}

// SendVerificationEmail sends the email-verification link
func (s *EmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	if s.client == nil {
		s.logger.WithFields(logrus.Fields{
			"to":   to,
			"link": link,
		}).Info("Verification email (dev mode, not sent)")
		return nil
	}

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Verify your email address",
		Html: fmt.Sprintf(
			`<p>Welcome! Please confirm your email address by clicking the link below.</p>
			<p><a href="%s">Verify email</a></p>
			<p>This link expires in 24 hours. If you did not create an account, you can ignore this email.</p>`,
			link,
		),
	})
	if err != nil {
		s.logger.WithError(err).WithField("to", to).Error("Failed to send verification email")
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.WithField("to", to).Info("Verification email sent")
	return nil
}

// SendPasswordResetEmail sends the password-reset link
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	if s.client == nil {
		s.logger.WithFields(logrus.Fields{
			"to":   to,
			"link": link,
		}).Info("Password reset email (dev mode, not sent)")
		return nil
	}

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: "Reset your password",
		Html: fmt.Sprintf(
			`<p>A password reset was requested for your account.</p>
			<p><a href="%s">Reset password</a></p>
			<p>This link expires in 1 hour. If you did not request a reset, you can ignore this email.</p>`,
			link,
		),
	})
	if err != nil {
		s.logger.WithError(err).WithField("to", to).Error("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.logger.WithField("to", to).Info("Password reset email sent")
	return nil
}
