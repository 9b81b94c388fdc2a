package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/mealportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// activeOTPStatuses are the states a code can still be acted on in.
var activeOTPStatuses = []string{
	string(identity.OTPStatusPending),
	string(identity.OTPStatusSent),
}

// GormOTPRepository implements identity.OTPRepository using GORM
type GormOTPRepository struct {
	db *gorm.DB
}

// NewGormOTPRepository creates a new GormOTPRepository
func NewGormOTPRepository(db *gorm.DB) *GormOTPRepository {
	return &GormOTPRepository{db: db}
}

// Create inserts a new one-time password row.
func (r *GormOTPRepository) Create(ctx context.Context, otp *identity.OneTimePassword) error {
	var model models.OneTimePasswordModel
	model.FromDomain(otp)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	otp.ID = model.ID
	return nil
}

// Update persists status, counters and timestamps.
func (r *GormOTPRepository) Update(ctx context.Context, otp *identity.OneTimePassword) error {
	var model models.OneTimePasswordModel
	model.FromDomain(otp)
	result := r.db.WithContext(ctx).
		Model(&models.OneTimePasswordModel{}).
		Where("one_time_password_id = ?", otp.ID).
		Updates(map[string]any{
			"otp_request_count":      model.RequestCount,
			"otp_verified_timestamp": model.VerifiedTimestamp,
			"otp_status":             model.Status,
			"updated_at":             model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindActive returns the latest pending or sent OTP for the tuple.
func (r *GormOTPRepository) FindActive(ctx context.Context, userID int64, intent identity.OTPIntent, method identity.ContactMethod) (*identity.OneTimePassword, error) {
	var model models.OneTimePasswordModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND intent = ? AND contact_method = ?", userID, string(intent), string(method)).
		Where("otp_status IN ? AND meta_status = ?", activeOTPStatuses, string(shared.MetaStatusActive)).
		Order("one_time_password_id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByCode returns the latest pending or sent OTP carrying the
// code for the given intent.
func (r *GormOTPRepository) FindActiveByCode(ctx context.Context, code string, intent identity.OTPIntent) (*identity.OneTimePassword, error) {
	var model models.OneTimePasswordModel
	if err := r.db.WithContext(ctx).
		Where("otp = ? AND intent = ?", code, string(intent)).
		Where("otp_status IN ? AND meta_status = ?", activeOTPStatuses, string(shared.MetaStatusActive)).
		Order("one_time_password_id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExpireActive force-expires any pending or sent OTP for the tuple so
// a freshly issued code is the single active one.
func (r *GormOTPRepository) ExpireActive(ctx context.Context, userID int64, intent identity.OTPIntent, method identity.ContactMethod) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.OneTimePasswordModel{}).
		Where("user_id = ? AND intent = ? AND contact_method = ?", userID, string(intent), string(method)).
		Where("otp_status IN ? AND meta_status = ?", activeOTPStatuses, string(shared.MetaStatusActive)).
		Updates(map[string]any{
			"otp_status": string(identity.OTPStatusExpired),
			"updated_at": now,
		}).Error
}
