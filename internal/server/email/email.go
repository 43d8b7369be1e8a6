// Package email delivers account notifications. The reset flow depends only
// on the Sender interface; delivery backends are selected at startup.
package email

import (
	"context"
	"fmt"

	"github.com/bgv-platform/auth-service/internal/logging"
)

// Sender delivers a password-reset message carrying the opaque reset token.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// resetLink builds the frontend link the user follows to complete the reset.
func resetLink(frontendURL, resetToken string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", frontendURL, resetToken)
}

// LogSender writes the reset link to the log instead of sending mail.
// Used in development when no SES sender address is configured.
type LogSender struct {
	logger      logging.Logger
	frontendURL string
}

func NewLogSender(logger logging.Logger, frontendURL string) *LogSender {
	return &LogSender{logger: logger, frontendURL: frontendURL}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	s.logger.Info(ctx, "password reset email (dev sender)",
		"to", to,
		"reset_link", resetLink(s.frontendURL, resetToken),
	)
	return nil
}
