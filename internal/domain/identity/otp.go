package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mealportal/backend/internal/domain/shared"
)

// OTPIntent names the flow a one-time password authorizes.
type OTPIntent string

const (
	IntentUserSignup     OTPIntent = "user_signup"
	IntentForgotPassword OTPIntent = "forgot_password"
)

// ValidIntent reports whether s names a known intent.
func ValidIntent(s string) bool {
	switch OTPIntent(s) {
	case IntentUserSignup, IntentForgotPassword:
		return true
	}
	return false
}

// ContactMethod is the channel an OTP is delivered over. Email is the
// only channel wired today; the column exists so SMS can be added
// without a schema change.
type ContactMethod string

const ContactMethodEmail ContactMethod = "email"

// OTPStatus is the lifecycle state of a one-time password.
//
// pending -> sent -> verified | expired. No transition leaves verified
// or expired. Resend touches metadata only.
type OTPStatus string

const (
	OTPStatusPending  OTPStatus = "pending"
	OTPStatusSent     OTPStatus = "sent"
	OTPStatusVerified OTPStatus = "verified"
	OTPStatusExpired  OTPStatus = "expired"
)

// OTPValidity is how long a code stays usable after it is requested.
const OTPValidity = 5 * time.Minute

// OneTimePassword is a single-use code tied to a user and an intent.
type OneTimePassword struct {
	shared.AuditedEntity
	UserID             int64
	Intent             OTPIntent
	ContactMethod      ContactMethod
	OTP                string
	RequestCount       int
	RequestedTimestamp time.Time
	ExpiryTimestamp    time.Time
	VerifiedTimestamp  *time.Time
	Status             OTPStatus
}

// NewOneTimePassword generates a pending OTP valid for OTPValidity.
func NewOneTimePassword(actorID, userID int64, intent OTPIntent, method ContactMethod) *OneTimePassword {
	now := time.Now().UTC()
	return &OneTimePassword{
		AuditedEntity:      shared.NewAuditedEntity(actorID),
		UserID:             userID,
		Intent:             intent,
		ContactMethod:      method,
		OTP:                uuid.NewString(),
		RequestCount:       0,
		RequestedTimestamp: now,
		ExpiryTimestamp:    now.Add(OTPValidity),
		Status:             OTPStatusPending,
	}
}

// Matches reports whether code equals the stored value.
func (o *OneTimePassword) Matches(code string) bool {
	return o.OTP == code
}

// ExpiredAt reports whether the code has passed its expiry at the given
// instant.
func (o *OneTimePassword) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiryTimestamp)
}

// Resendable reports whether a resend is allowed: only codes that are
// still pending or sent can be re-dispatched.
func (o *OneTimePassword) Resendable() bool {
	return o.Status == OTPStatusPending || o.Status == OTPStatusSent
}

// MarkSent records a successful dispatch. Dispatch failures must leave
// the row pending so the failure is visible.
func (o *OneTimePassword) MarkSent() error {
	if o.Status != OTPStatusPending && o.Status != OTPStatusSent {
		return shared.NewDomainError("INVALID_STATE", "OTP can no longer be sent")
	}
	o.Status = OTPStatusSent
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkVerified transitions the code to its terminal verified state.
func (o *OneTimePassword) MarkVerified(now time.Time) error {
	if o.Status != OTPStatusPending && o.Status != OTPStatusSent {
		return shared.NewDomainError("INVALID_STATE", "OTP already settled")
	}
	o.Status = OTPStatusVerified
	o.VerifiedTimestamp = &now
	o.UpdatedAt = now
	return nil
}

// MarkExpired transitions the code to its terminal expired state.
func (o *OneTimePassword) MarkExpired(now time.Time) {
	o.Status = OTPStatusExpired
	o.UpdatedAt = now
}

// RecordResend bumps the request counter.
func (o *OneTimePassword) RecordResend() {
	o.RequestCount++
	o.UpdatedAt = time.Now().UTC()
}
