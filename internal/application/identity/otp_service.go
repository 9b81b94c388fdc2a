package identity

import (
	"context"
	"errors"
	"time"

	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OTPService drives the one-time-password lifecycle for signup and
// password-reset flows.
type OTPService struct {
	otpRepo  identity.OTPRepository
	userRepo identity.UserRepository
	provider IdentityProvider
	mailer   Mailer
	limiter  OTPLimiter
	logger   *zap.Logger
}

// NewOTPService creates a new OTP service.
func NewOTPService(
	otpRepo identity.OTPRepository,
	userRepo identity.UserRepository,
	provider IdentityProvider,
	mailer Mailer,
	limiter OTPLimiter,
	logger *zap.Logger,
) *OTPService {
	return &OTPService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		provider: provider,
		mailer:   mailer,
		limiter:  limiter,
		logger:   logger,
	}
}

// Create issues a fresh code for (user, intent) over email and
// dispatches it. Any prior pending or sent code for the same tuple is
// expired first so exactly one code stays active. A dispatch failure
// leaves the row pending rather than failing the whole operation; the
// caller's flow (user creation, password reset initiation) has already
// committed and the user can ask for a resend.
func (s *OTPService) Create(ctx context.Context, actorID, userID int64, intent identity.OTPIntent) (*identity.OneTimePassword, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.asDomainError(err, shared.ErrUserNotFound)
	}

	if err := s.otpRepo.ExpireActive(ctx, userID, intent, identity.ContactMethodEmail); err != nil {
		s.logger.Error("Failed to expire previous OTP", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create OTP request")
	}

	otp := identity.NewOneTimePassword(actorID, userID, intent, identity.ContactMethodEmail)
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		s.logger.Error("Failed to persist OTP", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create OTP request")
	}

	if err := s.dispatch(ctx, user, otp); err != nil {
		s.logger.Warn("OTP dispatch failed, code stays pending",
			zap.Int64("user_id", userID),
			zap.String("intent", string(intent)),
			zap.Error(err))
		return otp, nil
	}

	if err := otp.MarkSent(); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update OTP status")
	}
	if err := s.otpRepo.Update(ctx, otp); err != nil {
		s.logger.Error("Failed to mark OTP sent", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update OTP status")
	}
	return otp, nil
}

// Verify settles a signup code. On success the identity-provider
// account is created and the credentials are persisted on the user.
func (s *OTPService) Verify(ctx context.Context, userID int64, intentName, code, username, password string) (*VerifyOTPResult, error) {
	if identity.OTPIntent(intentName) != identity.IntentUserSignup {
		return nil, shared.ErrInvalidIntent
	}

	otp, err := s.otpRepo.FindActive(ctx, userID, identity.IntentUserSignup, identity.ContactMethodEmail)
	if err != nil {
		return nil, s.asDomainError(err, shared.ErrOTPNotFound)
	}

	if !otp.Matches(code) {
		return nil, shared.ErrInvalidOTP
	}

	now := time.Now().UTC()
	if otp.ExpiredAt(now) {
		otp.MarkExpired(now)
		if err := s.otpRepo.Update(ctx, otp); err != nil {
			s.logger.Error("Failed to persist OTP expiry", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, shared.ErrOTPExpired
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.asDomainError(err, shared.ErrUserNotFound)
	}

	keycloakUserID, err := s.provider.CreateUser(ctx, username, user.Email, user.FirstNamesEn, user.LastNameEn, password)
	if err != nil {
		s.logger.Error("Identity-provider account creation failed",
			zap.Int64("user_id", userID),
			zap.String("username", username),
			zap.Error(err))
		return nil, shared.NewDomainError("IDENTITY_PROVIDER_ERROR", "Failed to create identity-provider account")
	}

	if err := user.CompleteSignup(username, password, keycloakUserID); err != nil {
		return nil, s.asDomainError(err, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete signup"))
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist credentials", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to persist credentials")
	}

	if err := otp.MarkVerified(now); err != nil {
		return nil, s.asDomainError(err, shared.ErrInvalidOTP)
	}
	if err := s.otpRepo.Update(ctx, otp); err != nil {
		s.logger.Error("Failed to persist OTP verification", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update OTP status")
	}

	s.logger.Info("Signup verified",
		zap.Int64("user_id", userID),
		zap.String("username", username))

	return &VerifyOTPResult{Username: username, KeycloakUserID: keycloakUserID}, nil
}

// Resend re-dispatches an outstanding code. It fails unless a pending
// or sent code exists, and is throttled per user and intent.
func (s *OTPService) Resend(ctx context.Context, userID int64, intentName string) error {
	if !identity.ValidIntent(intentName) {
		return shared.ErrInvalidIntent
	}
	intent := identity.OTPIntent(intentName)

	allowed, err := s.limiter.AllowResend(ctx, userID, intentName)
	if err != nil {
		s.logger.Warn("OTP resend limiter unavailable, allowing request",
			zap.Int64("user_id", userID), zap.Error(err))
	} else if !allowed {
		return shared.ErrTooManyRequests
	}

	otp, err := s.otpRepo.FindActive(ctx, userID, intent, identity.ContactMethodEmail)
	if err != nil {
		return s.asDomainError(err, shared.ErrNoPendingRequest)
	}
	if !otp.Resendable() {
		return shared.ErrNoPendingRequest
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.asDomainError(err, shared.ErrUserNotFound)
	}

	if err := s.dispatch(ctx, user, otp); err != nil {
		s.logger.Error("OTP resend dispatch failed", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("DISPATCH_ERROR", "Failed to send OTP notification")
	}

	otp.RecordResend()
	if err := otp.MarkSent(); err != nil {
		return shared.ErrNoPendingRequest
	}
	if err := s.otpRepo.Update(ctx, otp); err != nil {
		s.logger.Error("Failed to persist OTP resend", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update OTP request")
	}
	return nil
}

// InitiateForgotPassword starts a password-reset flow for the user
// matching the given username or email.
func (s *OTPService) InitiateForgotPassword(ctx context.Context, actorID int64, username, email string) (*ForgotPasswordResult, error) {
	user, err := s.userRepo.FindActiveByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, s.asDomainError(err, shared.ErrUserNotFound)
	}

	if _, err := s.Create(ctx, actorID, user.ID, identity.IntentForgotPassword); err != nil {
		return nil, s.asDomainError(err, shared.NewDomainError("INTERNAL_ERROR", "Failed to create OTP request"))
	}

	return &ForgotPasswordResult{
		UserID:        user.ID,
		ContactMethod: string(identity.ContactMethodEmail),
	}, nil
}

// GetForgotPasswordRequest reports the status of a reset code.
func (s *OTPService) GetForgotPasswordRequest(ctx context.Context, code string) (*ForgotPasswordRequestDTO, error) {
	otp, err := s.otpRepo.FindActiveByCode(ctx, code, identity.IntentForgotPassword)
	if err != nil {
		return nil, s.asDomainError(err, shared.ErrOTPNotFound)
	}
	return &ForgotPasswordRequestDTO{OTPStatus: string(otp.Status)}, nil
}

// ResetPassword settles a forgot-password code and stores the new
// password, syncing it to the identity provider when the account has
// one.
func (s *OTPService) ResetPassword(ctx context.Context, code, newPassword string) (int64, error) {
	otp, err := s.otpRepo.FindActiveByCode(ctx, code, identity.IntentForgotPassword)
	if err != nil {
		return 0, s.asDomainError(err, shared.ErrOTPNotFound)
	}

	now := time.Now().UTC()
	if otp.ExpiredAt(now) {
		otp.MarkExpired(now)
		if err := s.otpRepo.Update(ctx, otp); err != nil {
			s.logger.Error("Failed to persist OTP expiry", zap.Int64("user_id", otp.UserID), zap.Error(err))
		}
		return 0, shared.ErrOTPExpired
	}

	user, err := s.userRepo.FindByID(ctx, otp.UserID)
	if err != nil {
		return 0, s.asDomainError(err, shared.ErrUserNotFound)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return 0, s.asDomainError(err, shared.NewDomainError("INTERNAL_ERROR", "Failed to set password"))
	}
	if user.KeycloakUserID != nil {
		if err := s.provider.SetPassword(ctx, *user.KeycloakUserID, newPassword); err != nil {
			s.logger.Error("Identity-provider password sync failed",
				zap.Int64("user_id", user.ID), zap.Error(err))
			return 0, shared.NewDomainError("IDENTITY_PROVIDER_ERROR", "Failed to update identity-provider password")
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist password", zap.Int64("user_id", user.ID), zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to persist password")
	}

	if err := otp.MarkVerified(now); err != nil {
		return 0, shared.ErrInvalidOTP
	}
	if err := s.otpRepo.Update(ctx, otp); err != nil {
		s.logger.Error("Failed to persist OTP verification", zap.Int64("user_id", user.ID), zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to update OTP status")
	}

	s.logger.Info("Password reset completed", zap.Int64("user_id", user.ID))
	return user.ID, nil
}

func (s *OTPService) dispatch(ctx context.Context, user *identity.User, otp *identity.OneTimePassword) error {
	return s.mailer.SendOTP(ctx, OTPMail{
		To:            user.Email,
		RecipientName: user.FullNameEn(),
		OTP:           otp.OTP,
		Intent:        string(otp.Intent),
		ExpiresAt:     otp.ExpiryTimestamp,
	})
}

// asDomainError maps a repository miss onto the flow-specific not-found
// sentinel, passes other domain errors through, and hides everything
// else behind a generic internal error.
func (s *OTPService) asDomainError(err error, notFound *shared.DomainError) *shared.DomainError {
	if errors.Is(err, shared.ErrNotFound) {
		return notFound
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("Unexpected repository failure", zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", "Unexpected error")
}
