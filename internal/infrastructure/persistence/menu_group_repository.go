package persistence

import (
	"context"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMenuGroupRepository implements brand.MenuGroupRepository using GORM
type GormMenuGroupRepository struct {
	db *gorm.DB
}

// NewGormMenuGroupRepository creates a new GormMenuGroupRepository
func NewGormMenuGroupRepository(db *gorm.DB) *GormMenuGroupRepository {
	return &GormMenuGroupRepository{db: db}
}

// FindByIDs returns the menu groups for the given ids. Ids that do not
// resolve are skipped; input order is preserved for those that do.
func (r *GormMenuGroupRepository) FindByIDs(ctx context.Context, ids []int64) ([]*brand.MenuGroup, error) {
	if len(ids) == 0 {
		return []*brand.MenuGroup{}, nil
	}

	var rows []models.MenuGroupModel
	if err := r.db.WithContext(ctx).
		Where("menu_group_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]*brand.MenuGroup, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].ToDomain()
	}

	groups := make([]*brand.MenuGroup, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			groups = append(groups, g)
		}
	}
	return groups, nil
}
