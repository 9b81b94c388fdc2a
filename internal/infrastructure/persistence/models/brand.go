package models

import (
	"time"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/shared"
)

// BrandProfileModel maps the brand_profile table.
type BrandProfileModel struct {
	ID                     int64  `gorm:"column:brand_profile_id;primaryKey;autoIncrement"`
	BrandProfileName       string `gorm:"column:brand_profile_name;type:varchar(128);not null"`
	ExternalBrandProfileID string `gorm:"column:external_brand_profile_id;type:varchar(64)"`
	AuditModel
}

// TableName returns the table name
func (BrandProfileModel) TableName() string {
	return "brand_profile"
}

// ToDomain converts the model to a domain entity without plans loaded.
func (m *BrandProfileModel) ToDomain() *brand.BrandProfile {
	return &brand.BrandProfile{
		AuditedEntity:          m.AuditModel.ToDomain(m.ID),
		BrandProfileName:       m.BrandProfileName,
		ExternalBrandProfileID: m.ExternalBrandProfileID,
		Plans:                  make([]brand.Plan, 0),
	}
}

// FromDomain populates the model from a domain entity.
func (m *BrandProfileModel) FromDomain(p *brand.BrandProfile) {
	m.ID = p.ID
	m.BrandProfileName = p.BrandProfileName
	m.ExternalBrandProfileID = p.ExternalBrandProfileID
	m.AuditModel.FromDomain(p.AuditedEntity)
}

// PlanModel maps the plan table.
type PlanModel struct {
	ID             int64  `gorm:"column:plan_id;primaryKey;autoIncrement"`
	BrandProfileID int64  `gorm:"column:brand_profile_id;not null;index"`
	PlanName       string `gorm:"column:plan_name;type:varchar(128);not null"`
	ExternalPlanID string `gorm:"column:external_plan_id;type:varchar(64)"`
	AuditModel
}

// TableName returns the table name
func (PlanModel) TableName() string {
	return "plan"
}

// ToDomain converts the model to a domain entity without menu-group ids.
func (m *PlanModel) ToDomain() *brand.Plan {
	return &brand.Plan{
		AuditedEntity:  m.AuditModel.ToDomain(m.ID),
		BrandProfileID: m.BrandProfileID,
		PlanName:       m.PlanName,
		ExternalPlanID: m.ExternalPlanID,
		MenuGroupIDs:   make([]int64, 0),
	}
}

// FromDomain populates the model from a domain entity.
func (m *PlanModel) FromDomain(p *brand.Plan) {
	m.ID = p.ID
	m.BrandProfileID = p.BrandProfileID
	m.PlanName = p.PlanName
	m.ExternalPlanID = p.ExternalPlanID
	m.AuditModel.FromDomain(p.AuditedEntity)
}

// PlanMenuGroupMapModel maps the plan_menu_group_map join table.
type PlanMenuGroupMapModel struct {
	ID          int64 `gorm:"column:plan_menu_group_map_id;primaryKey;autoIncrement"`
	PlanID      int64 `gorm:"column:plan_id;not null;index"`
	MenuGroupID int64 `gorm:"column:menu_group_id;not null"`
	AuditModel
}

// TableName returns the table name
func (PlanMenuGroupMapModel) TableName() string {
	return "plan_menu_group_map"
}

// MenuGroupModel maps the menu_group catalog projection table.
type MenuGroupModel struct {
	ID                  int64     `gorm:"column:menu_group_id;primaryKey;autoIncrement"`
	MenuGroupName       string    `gorm:"column:menu_group_name;type:varchar(128);not null"`
	ExternalMenuGroupID string    `gorm:"column:external_menu_group_id;type:varchar(64)"`
	CreatedAt           time.Time `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name
func (MenuGroupModel) TableName() string {
	return "menu_group"
}

// ToDomain converts the model to a domain entity.
func (m *MenuGroupModel) ToDomain() *brand.MenuGroup {
	return &brand.MenuGroup{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		MenuGroupName:       m.MenuGroupName,
		ExternalMenuGroupID: m.ExternalMenuGroupID,
	}
}
