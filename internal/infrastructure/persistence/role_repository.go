package persistence

import (
	"context"

	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/mealportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByIDs returns the roles for the given ids, preserving input order.
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}

	var rows []models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("role_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]*identity.Role, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &identity.Role{
			AuditedEntity: shared.AuditedEntity{
				BaseEntity: shared.BaseEntity{
					ID:        rows[i].ID,
					CreatedAt: rows[i].CreatedAt,
					UpdatedAt: rows[i].UpdatedAt,
				},
				MetaStatus: shared.MetaStatusActive,
			},
			RoleName: rows[i].RoleName,
		}
	}

	roles := make([]*identity.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := byID[id]; ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}
