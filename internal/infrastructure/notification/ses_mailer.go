// Package notification dispatches transactional mail through Amazon
// SES.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	identityapp "github.com/mealportal/backend/internal/application/identity"
	infraconfig "github.com/mealportal/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure SESMailer implements Mailer
var _ identityapp.Mailer = (*SESMailer)(nil)

// sendEmailAPI is the slice of the SES v2 client the mailer uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends OTP mail through Amazon SES v2.
type SESMailer struct {
	client        sendEmailAPI
	sender        string
	portalBaseURL string
	logger        *zap.Logger
}

// NewSESMailer creates an SESMailer from configuration.
func NewSESMailer(ctx context.Context, cfg *infraconfig.MailConfig, portalBaseURL string, logger *zap.Logger) (*SESMailer, error) {
	if cfg == nil {
		return nil, errors.New("mail configuration is required")
	}
	if cfg.Sender == "" {
		return nil, errors.New("mail sender address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	return &SESMailer{
		client:        sesv2.NewFromConfig(awsCfg),
		sender:        cfg.Sender,
		portalBaseURL: portalBaseURL,
		logger:        logger,
	}, nil
}

// SendOTP dispatches the code over email. Both signup and
// forgot-password mail carry a verification link into the portal.
func (m *SESMailer) SendOTP(ctx context.Context, mail identityapp.OTPMail) error {
	if mail.To == "" {
		return errors.New("recipient address is required")
	}

	subject, text, html := renderOTPMail(m.portalBaseURL, mail)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{mail.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(text)},
					Html: &types.Content{Data: aws.String(html)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("Dispatched OTP mail",
		zap.String("to", mail.To),
		zap.String("intent", mail.Intent))
	return nil
}

func renderOTPMail(portalBaseURL string, mail identityapp.OTPMail) (subject, text, html string) {
	name := mail.RecipientName
	if name == "" {
		name = "there"
	}
	link := portalBaseURL + "/reset-password/" + mail.OTP

	switch mail.Intent {
	case "forgot_password":
		subject = "Reset your password"
		text = fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires at %s UTC. If you did not request this, you can ignore this mail.\n",
			name, link, mail.ExpiresAt.UTC().Format("15:04"))
		html = fmt.Sprintf(
			`<p>Hi %s,</p><p>A password reset was requested for your account. <a href="%s">Choose a new password</a> before %s UTC.</p><p>If you did not request this, you can ignore this mail.</p>`,
			name, link, mail.ExpiresAt.UTC().Format("15:04"))
	default:
		subject = "Verify your account"
		text = fmt.Sprintf(
			"Hi %s,\n\nOpen the link below to verify your account:\n\n%s\n\nThe link expires at %s UTC.\n",
			name, link, mail.ExpiresAt.UTC().Format("15:04"))
		html = fmt.Sprintf(
			`<p>Hi %s,</p><p><a href="%s">Verify your account</a> before %s UTC.</p>`,
			name, link, mail.ExpiresAt.UTC().Format("15:04"))
	}
	return subject, text, html
}
