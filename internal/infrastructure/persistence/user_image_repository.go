package persistence

import (
	"context"
	"errors"

	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/mealportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserImageRepository implements identity.UserImageRepository using GORM
type GormUserImageRepository struct {
	db *gorm.DB
}

// NewGormUserImageRepository creates a new GormUserImageRepository
func NewGormUserImageRepository(db *gorm.DB) *GormUserImageRepository {
	return &GormUserImageRepository{db: db}
}

// Create inserts a stored-object reference for the user.
func (r *GormUserImageRepository) Create(ctx context.Context, actorID int64, image *identity.UserImage) error {
	row := models.UserImageMapModel{
		UserID:          image.UserID,
		ImageType:       image.ImageType,
		ImageBucketName: image.ImageBucketName,
		ImageObjectKey:  image.ImageObjectKey,
	}
	row.AuditModel.FromDomain(shared.NewAuditedEntity(actorID))
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	image.ID = row.ID
	return nil
}

// FindLatestActive returns the most recent active image reference for
// the user.
func (r *GormUserImageRepository) FindLatestActive(ctx context.Context, userID int64) (*identity.UserImage, error) {
	var row models.UserImageMapModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND meta_status = ?", userID, string(shared.MetaStatusActive)).
		Order("user_image_map_id DESC").
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &identity.UserImage{
		ID:              row.ID,
		UserID:          row.UserID,
		ImageType:       row.ImageType,
		ImageBucketName: row.ImageBucketName,
		ImageObjectKey:  row.ImageObjectKey,
	}, nil
}
