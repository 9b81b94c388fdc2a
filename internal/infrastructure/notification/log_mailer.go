package notification

import (
	"context"

	identityapp "github.com/mealportal/backend/internal/application/identity"
	"go.uber.org/zap"
)

// Ensure LogMailer implements Mailer
var _ identityapp.Mailer = (*LogMailer)(nil)

// LogMailer logs mail instead of sending it. Used in development and
// tests where no SES credentials exist.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// SendOTP logs the mail content at info level.
func (m *LogMailer) SendOTP(ctx context.Context, mail identityapp.OTPMail) error {
	m.logger.Info("Mock mail dispatch",
		zap.String("to", mail.To),
		zap.String("intent", mail.Intent),
		zap.String("otp", mail.OTP),
		zap.Time("expires_at", mail.ExpiresAt))
	return nil
}
