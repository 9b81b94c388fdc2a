package shared

import "time"

// MetaStatus is the lifecycle marker carried by every persisted row.
// Rows are never physically removed; deletion flips the status and
// records who did it and when.
type MetaStatus string

const (
	MetaStatusActive  MetaStatus = "active"
	MetaStatusDeleted MetaStatus = "deleted"
)

// BaseEntity provides common fields for all entities.
type BaseEntity struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditedEntity extends BaseEntity with soft-delete lifecycle and
// actor attribution.
type AuditedEntity struct {
	BaseEntity
	MetaStatus        MetaStatus
	CreationUserID    int64
	DeletionUserID    *int64
	DeletionTimestamp *time.Time
}

// NewAuditedEntity creates an active entity attributed to the given actor.
func NewAuditedEntity(actorID int64) AuditedEntity {
	now := time.Now().UTC()
	return AuditedEntity{
		BaseEntity: BaseEntity{
			CreatedAt: now,
			UpdatedAt: now,
		},
		MetaStatus:     MetaStatusActive,
		CreationUserID: actorID,
	}
}

// IsActive reports whether the entity has not been soft-deleted.
func (e *AuditedEntity) IsActive() bool {
	return e.MetaStatus == MetaStatusActive
}

// MarkDeleted soft-deletes the entity, recording the acting user.
func (e *AuditedEntity) MarkDeleted(actorID int64) {
	now := time.Now().UTC()
	e.MetaStatus = MetaStatusDeleted
	e.DeletionUserID = &actorID
	e.DeletionTimestamp = &now
	e.UpdatedAt = now
}
