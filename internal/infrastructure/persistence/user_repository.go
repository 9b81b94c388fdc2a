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

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user with its role assignments and module-access
// grants in one transaction.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User, grants []identity.ModuleAccessGrant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.UserModel
		model.FromDomain(user)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		user.ID = model.ID

		for _, roleID := range user.RoleIDs {
			row := models.UserRoleMapModel{UserID: model.ID, RoleID: roleID}
			row.AuditModel.FromDomain(shared.NewAuditedEntity(user.CreationUserID))
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i := range grants {
			grants[i].UserID = model.ID
			var row models.UserBrandProfileModuleAccessModel
			grantModelFromDomain(&row, &grants[i])
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			grants[i].ID = row.ID
		}
		return nil
	})
}

// Update persists the user's scalar attributes.
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]any{
			"first_names_en":             model.FirstNamesEn,
			"last_name_en":               model.LastNameEn,
			"first_names_ar":             model.FirstNamesAr,
			"last_name_ar":               model.LastNameAr,
			"phone_nr":                   model.PhoneNr,
			"email":                      model.Email,
			"username":                   model.Username,
			"password":                   model.Password,
			"keycloak_user_id":           model.KeycloakUserID,
			"all_brand_profile_access_p": model.AllBrandProfileAccess,
			"updated_at":                 model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SoftDelete marks the user and its role, grant and image rows deleted
// in one transaction.
func (r *GormUserRepository) SoftDelete(ctx context.Context, id, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		deletion := map[string]any{
			"meta_status":        string(shared.MetaStatusDeleted),
			"deletion_user_id":   actorID,
			"deletion_timestamp": now,
			"updated_at":         now,
		}

		result := tx.Model(&models.UserModel{}).
			Where("user_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
			Updates(deletion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		for _, m := range []any{
			&models.UserRoleMapModel{},
			&models.UserBrandProfileModuleAccessModel{},
			&models.UserImageMapModel{},
		} {
			if err := tx.Model(m).
				Where("user_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
				Updates(deletion).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID returns an active user without role ids or grants loaded.
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND meta_status = ?", id, string(shared.MetaStatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUsernameOrEmail resolves a user by either identifier. The
// username match wins when both are supplied.
func (r *GormUserRepository) FindActiveByUsernameOrEmail(ctx context.Context, username, email string) (*identity.User, error) {
	if username != "" {
		user, err := r.findActiveWhere(ctx, "username = ?", username)
		if err == nil || !errors.Is(err, shared.ErrNotFound) {
			return user, err
		}
	}
	if email != "" {
		return r.findActiveWhere(ctx, "email = ?", email)
	}
	return nil, shared.ErrNotFound
}

func (r *GormUserRepository) findActiveWhere(ctx context.Context, query string, arg any) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Where("meta_status = ?", string(shared.MetaStatusActive)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllActive returns active users ordered by id.
func (r *GormUserRepository) FindAllActive(ctx context.Context) ([]*identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("meta_status = ?", string(shared.MetaStatusActive)).
		Order("user_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]*identity.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].ToDomain())
	}
	return users, nil
}

// ExistsByUsername reports whether any row, deleted included, holds the
// username. Usernames are never recycled.
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LoadRoles populates user.RoleIDs and returns the assignments with
// role names resolved.
func (r *GormUserRepository) LoadRoles(ctx context.Context, user *identity.User) ([]identity.UserRole, error) {
	type roleRow struct {
		models.UserRoleMapModel
		RoleName string `gorm:"column:role_name"`
	}

	var rows []roleRow
	if err := r.db.WithContext(ctx).
		Model(&models.UserRoleMapModel{}).
		Select(`user_role_map.*, role.role_name`).
		Joins(`JOIN role ON role.role_id = user_role_map.role_id`).
		Where("user_role_map.user_id = ? AND user_role_map.meta_status = ?",
			user.ID, string(shared.MetaStatusActive)).
		Order("user_role_map.user_role_map_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	roleIDs := make([]int64, 0, len(rows))
	assignments := make([]identity.UserRole, 0, len(rows))
	for i := range rows {
		roleIDs = append(roleIDs, rows[i].RoleID)
		assignments = append(assignments, identity.UserRole{
			AuditedEntity: rows[i].AuditModel.ToDomain(rows[i].ID),
			UserID:        rows[i].UserID,
			RoleID:        rows[i].RoleID,
			RoleName:      rows[i].RoleName,
		})
	}
	user.RoleIDs = roleIDs
	return assignments, nil
}

// ReplaceRoles reconciles user_role_map against user.RoleIDs. Rows for
// roles the user keeps are untouched.
func (r *GormUserRepository) ReplaceRoles(ctx context.Context, user *identity.User, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []models.UserRoleMapModel
		if err := tx.
			Where("user_id = ? AND meta_status = ?", user.ID, string(shared.MetaStatusActive)).
			Find(&current).Error; err != nil {
			return err
		}

		have := make(map[int64]bool, len(current))
		for _, row := range current {
			have[row.RoleID] = true
		}
		want := make(map[int64]bool, len(user.RoleIDs))
		for _, id := range user.RoleIDs {
			want[id] = true
		}

		for _, roleID := range user.RoleIDs {
			if have[roleID] {
				continue
			}
			have[roleID] = true
			row := models.UserRoleMapModel{UserID: user.ID, RoleID: roleID}
			row.AuditModel.FromDomain(shared.NewAuditedEntity(actorID))
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, row := range current {
			if want[row.RoleID] {
				continue
			}
			if err := tx.Model(&models.UserRoleMapModel{}).
				Where("user_role_map_id = ?", row.ID).
				Updates(map[string]any{
					"meta_status":        string(shared.MetaStatusDeleted),
					"deletion_user_id":   actorID,
					"deletion_timestamp": now,
					"updated_at":         now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadGrants returns the user's active grants with brand-profile and
// module details resolved.
func (r *GormUserRepository) LoadGrants(ctx context.Context, userID int64) ([]identity.ModuleAccessGrant, error) {
	type grantRow struct {
		models.UserBrandProfileModuleAccessModel
		BrandProfileName string `gorm:"column:brand_profile_name"`
		ModuleID         int64  `gorm:"column:module_id"`
		ModuleName       string `gorm:"column:module_name"`
		AccessLevel      string `gorm:"column:access_level"`
	}

	var rows []grantRow
	if err := r.db.WithContext(ctx).
		Model(&models.UserBrandProfileModuleAccessModel{}).
		Select(`user_brand_profile_module_access.*, brand_profile.brand_profile_name, module.module_id, module.module_name, module_access.access_level`).
		Joins(`JOIN module_access ON module_access.module_access_id = user_brand_profile_module_access.module_access_id`).
		Joins(`JOIN module ON module.module_id = module_access.module_id`).
		Joins(`LEFT JOIN brand_profile ON brand_profile.brand_profile_id = user_brand_profile_module_access.brand_profile_id`).
		Where("user_brand_profile_module_access.user_id = ? AND user_brand_profile_module_access.meta_status = ?",
			userID, string(shared.MetaStatusActive)).
		Order("user_brand_profile_module_access.user_brand_profile_module_access_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	grants := make([]identity.ModuleAccessGrant, 0, len(rows))
	for i := range rows {
		grants = append(grants, identity.ModuleAccessGrant{
			AuditedEntity:    rows[i].AuditModel.ToDomain(rows[i].ID),
			UserID:           rows[i].UserID,
			BrandProfileID:   rows[i].BrandProfileID,
			ModuleAccessID:   rows[i].ModuleAccessID,
			BrandProfileName: rows[i].BrandProfileName,
			ModuleID:         rows[i].ModuleID,
			ModuleName:       rows[i].ModuleName,
			AccessLevel:      rows[i].AccessLevel,
		})
	}
	return grants, nil
}

// ApplyGrantChanges inserts new grant rows and soft-deletes retired
// ones in one transaction.
func (r *GormUserRepository) ApplyGrantChanges(ctx context.Context, userID, actorID int64, toInsert, toDelete []identity.ModuleAccessGrant) error {
	if len(toInsert) == 0 && len(toDelete) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range toInsert {
			toInsert[i].UserID = userID
			var row models.UserBrandProfileModuleAccessModel
			grantModelFromDomain(&row, &toInsert[i])
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			toInsert[i].ID = row.ID
		}

		now := time.Now().UTC()
		for i := range toDelete {
			if err := tx.Model(&models.UserBrandProfileModuleAccessModel{}).
				Where("user_brand_profile_module_access_id = ?", toDelete[i].ID).
				Updates(map[string]any{
					"meta_status":        string(shared.MetaStatusDeleted),
					"deletion_user_id":   actorID,
					"deletion_timestamp": now,
					"updated_at":         now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func grantModelFromDomain(m *models.UserBrandProfileModuleAccessModel, g *identity.ModuleAccessGrant) {
	m.ID = g.ID
	m.UserID = g.UserID
	m.BrandProfileID = g.BrandProfileID
	m.ModuleAccessID = g.ModuleAccessID
	m.AuditModel.FromDomain(g.AuditedEntity)
}
