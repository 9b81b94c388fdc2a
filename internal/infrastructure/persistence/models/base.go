package models

import (
	"time"

	"github.com/mealportal/backend/internal/domain/shared"
)

// AuditModel provides the lifecycle columns every audited table carries.
// Rows are soft-deleted by flipping meta_status; nothing is ever
// physically removed.
type AuditModel struct {
	MetaStatus        string     `gorm:"column:meta_status;type:varchar(16);not null;default:'active';index"`
	CreationUserID    int64      `gorm:"column:creation_user_id;not null"`
	DeletionUserID    *int64     `gorm:"column:deletion_user_id"`
	DeletionTimestamp *time.Time `gorm:"column:deletion_timestamp"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

// ToDomain converts the audit columns to the domain's AuditedEntity
// without the id, which each model carries itself.
func (m *AuditModel) ToDomain(id int64) shared.AuditedEntity {
	return shared.AuditedEntity{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		MetaStatus:        shared.MetaStatus(m.MetaStatus),
		CreationUserID:    m.CreationUserID,
		DeletionUserID:    m.DeletionUserID,
		DeletionTimestamp: m.DeletionTimestamp,
	}
}

// FromDomain populates the audit columns from a domain AuditedEntity.
func (m *AuditModel) FromDomain(e shared.AuditedEntity) {
	m.MetaStatus = string(e.MetaStatus)
	m.CreationUserID = e.CreationUserID
	m.DeletionUserID = e.DeletionUserID
	m.DeletionTimestamp = e.DeletionTimestamp
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
