package identity

import (
	"context"
	"time"
)

// IdentityProvider is the external identity store accounts are mirrored
// into once signup completes. Implemented by the Keycloak admin client.
type IdentityProvider interface {
	// CreateUser provisions an enabled account and returns its provider id.
	CreateUser(ctx context.Context, username, email, firstName, lastName, password string) (string, error)

	// SetPassword replaces the account's password.
	SetPassword(ctx context.Context, providerUserID, password string) error

	// DeleteUser removes the account.
	DeleteUser(ctx context.Context, providerUserID string) error
}

// OTPMail carries everything the mailer needs to dispatch a code.
type OTPMail struct {
	To            string
	RecipientName string
	OTP           string
	Intent        string
	ExpiresAt     time.Time
}

// Mailer dispatches transactional mail. Implemented by the SES client.
type Mailer interface {
	SendOTP(ctx context.Context, mail OTPMail) error
}

// ObjectStorage stores uploaded binaries and issues presigned read
// URLs. Implemented by the S3 client.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	BucketName() string
}

// OTPLimiter throttles resend traffic per user and intent. Implemented
// by the Redis fixed-window limiter; the in-memory variant serves
// single-node deployments.
type OTPLimiter interface {
	// AllowResend reports whether another dispatch is permitted right now.
	AllowResend(ctx context.Context, userID int64, intent string) (bool, error)
}
