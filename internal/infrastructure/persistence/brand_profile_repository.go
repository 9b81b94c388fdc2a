package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/mealportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBrandProfileRepository implements brand.BrandProfileRepository using GORM
type GormBrandProfileRepository struct {
	db *gorm.DB
}

// NewGormBrandProfileRepository creates a new GormBrandProfileRepository
func NewGormBrandProfileRepository(db *gorm.DB) *GormBrandProfileRepository {
	return &GormBrandProfileRepository{db: db}
}

// Create inserts the profile, its plans and menu-group join rows in one
// transaction. A unique-index violation on the name surfaces as
// shared.ErrDuplicateName.
func (r *GormBrandProfileRepository) Create(ctx context.Context, profile *brand.BrandProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.BrandProfileModel
		model.FromDomain(profile)
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrDuplicateName
			}
			return err
		}
		profile.ID = model.ID

		for i := range profile.Plans {
			plan := &profile.Plans[i]
			plan.BrandProfileID = model.ID
			if err := createPlan(tx, plan); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update persists the profile's scalar attributes.
func (r *GormBrandProfileRepository) Update(ctx context.Context, profile *brand.BrandProfile) error {
	var model models.BrandProfileModel
	model.FromDomain(profile)
	result := r.db.WithContext(ctx).
		Model(&models.BrandProfileModel{}).
		Where("brand_profile_id = ?", profile.ID).
		Updates(map[string]any{
			"brand_profile_name":        model.BrandProfileName,
			"external_brand_profile_id": model.ExternalBrandProfileID,
			"updated_at":                model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateName
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SoftDelete marks the profile deleted. Plans and join rows stay as
// they are.
func (r *GormBrandProfileRepository) SoftDelete(ctx context.Context, id, actorID int64) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.BrandProfileModel{}).
		Where("brand_profile_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
		Updates(map[string]any{
			"meta_status":        string(shared.MetaStatusDeleted),
			"deletion_user_id":   actorID,
			"deletion_timestamp": now,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID returns an active profile with plans and menu-group ids.
func (r *GormBrandProfileRepository) FindByID(ctx context.Context, id int64) (*brand.BrandProfile, error) {
	var model models.BrandProfileModel
	if err := r.db.WithContext(ctx).
		Where("brand_profile_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	profile := model.ToDomain()
	plans, err := r.FindPlansByBrandProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		profile.Plans = append(profile.Plans, *p)
	}
	return profile, nil
}

// FindAllActive returns active profiles without nested plans.
func (r *GormBrandProfileRepository) FindAllActive(ctx context.Context) ([]*brand.BrandProfile, error) {
	var rows []models.BrandProfileModel
	if err := r.db.WithContext(ctx).
		Where("meta_status = ?", string(shared.MetaStatusActive)).
		Order("brand_profile_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]*brand.BrandProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].ToDomain())
	}
	return profiles, nil
}

// ExistsActiveByName reports whether an active profile carries the
// exact name.
func (r *GormBrandProfileRepository) ExistsActiveByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BrandProfileModel{}).
		Where("brand_profile_name = ? AND meta_status = ?", name, string(shared.MetaStatusActive)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePlan inserts a plan and its join rows in one transaction.
func (r *GormBrandProfileRepository) CreatePlan(ctx context.Context, plan *brand.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createPlan(tx, plan)
	})
}

// UpdatePlan persists the plan's scalar attributes and applies the
// computed join changes in one transaction.
func (r *GormBrandProfileRepository) UpdatePlan(ctx context.Context, plan *brand.Plan, insertMenuGroupIDs, deleteMenuGroupIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.PlanModel
		model.FromDomain(plan)
		result := tx.Model(&models.PlanModel{}).
			Where("plan_id = ?", plan.ID).
			Updates(map[string]any{
				"plan_name":        model.PlanName,
				"external_plan_id": model.ExternalPlanID,
				"updated_at":       model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		for _, menuGroupID := range insertMenuGroupIDs {
			join := models.PlanMenuGroupMapModel{
				PlanID:      plan.ID,
				MenuGroupID: menuGroupID,
			}
			join.AuditModel.FromDomain(shared.NewAuditedEntity(plan.CreationUserID))
			if err := tx.Create(&join).Error; err != nil {
				return err
			}
		}

		if len(deleteMenuGroupIDs) > 0 {
			now := time.Now().UTC()
			if err := tx.Model(&models.PlanMenuGroupMapModel{}).
				Where("plan_id = ? AND menu_group_id IN ? AND meta_status = ?",
					plan.ID, deleteMenuGroupIDs, string(shared.MetaStatusActive)).
				Updates(map[string]any{
					"meta_status":        string(shared.MetaStatusDeleted),
					"deletion_timestamp": now,
					"updated_at":         now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindPlansByBrandProfile returns the active plans of a profile with
// menu-group ids loaded.
func (r *GormBrandProfileRepository) FindPlansByBrandProfile(ctx context.Context, brandProfileID int64) ([]*brand.Plan, error) {
	var rows []models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("brand_profile_id = ? AND meta_status = ?", brandProfileID, string(shared.MetaStatusActive)).
		Order("plan_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	plans := make([]*brand.Plan, 0, len(rows))
	for i := range rows {
		plan := rows[i].ToDomain()
		ids, err := r.menuGroupIDs(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		plan.MenuGroupIDs = ids
		plans = append(plans, plan)
	}
	return plans, nil
}

// FindPlanByID returns an active plan with its menu-group ids.
func (r *GormBrandProfileRepository) FindPlanByID(ctx context.Context, id int64) (*brand.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	plan := model.ToDomain()
	ids, err := r.menuGroupIDs(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	plan.MenuGroupIDs = ids
	return plan, nil
}

func (r *GormBrandProfileRepository) menuGroupIDs(ctx context.Context, planID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.PlanMenuGroupMapModel{}).
		Where("plan_id = ? AND meta_status = ?", planID, string(shared.MetaStatusActive)).
		Order("plan_menu_group_map_id").
		Pluck("menu_group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func createPlan(tx *gorm.DB, plan *brand.Plan) error {
	var model models.PlanModel
	model.FromDomain(plan)
	if err := tx.Create(&model).Error; err != nil {
		return err
	}
	plan.ID = model.ID

	// duplicate menu-group ids in the payload produce duplicate joins
	for _, menuGroupID := range plan.MenuGroupIDs {
		join := models.PlanMenuGroupMapModel{
			PlanID:      model.ID,
			MenuGroupID: menuGroupID,
		}
		join.AuditModel.FromDomain(shared.NewAuditedEntity(plan.CreationUserID))
		if err := tx.Create(&join).Error; err != nil {
			return err
		}
	}
	return nil
}
