package brand

import (
	"strings"
	"time"

	"github.com/mealportal/backend/internal/domain/shared"
)

// BrandProfile is a tenant brand configuration. It is the aggregate root
// for plan management: plans never exist outside a brand profile.
type BrandProfile struct {
	shared.AuditedEntity
	BrandProfileName       string
	ExternalBrandProfileID string
	Plans                  []Plan
}

// Plan is a named meal plan belonging to exactly one brand profile.
// MenuGroupIDs reference an external catalog; the association is stored
// as join rows.
type Plan struct {
	shared.AuditedEntity
	BrandProfileID int64
	PlanName       string
	ExternalPlanID string
	MenuGroupIDs   []int64
}

// MenuGroup is an externally-cataloged grouping of menu items. Only a
// projection of the catalog record lives here.
type MenuGroup struct {
	shared.BaseEntity
	MenuGroupName       string
	ExternalMenuGroupID string
}

// NewBrandProfile creates an active brand profile attributed to the actor.
func NewBrandProfile(actorID int64, name, externalID string) (*BrandProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Brand profile name is required")
	}

	return &BrandProfile{
		AuditedEntity:          shared.NewAuditedEntity(actorID),
		BrandProfileName:       name,
		ExternalBrandProfileID: externalID,
		Plans:                  make([]Plan, 0),
	}, nil
}

// NewPlan creates an active plan under the given brand profile.
// Duplicate menu group ids are kept as-is; callers own their payloads.
func NewPlan(actorID, brandProfileID int64, name, externalID string, menuGroupIDs []int64) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Plan name is required")
	}

	ids := make([]int64, len(menuGroupIDs))
	copy(ids, menuGroupIDs)

	return &Plan{
		AuditedEntity:  shared.NewAuditedEntity(actorID),
		BrandProfileID: brandProfileID,
		PlanName:       name,
		ExternalPlanID: externalID,
		MenuGroupIDs:   ids,
	}, nil
}

// Rename updates the profile's name and external identifier.
func (b *BrandProfile) Rename(name, externalID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Brand profile name is required")
	}

	b.BrandProfileName = name
	b.ExternalBrandProfileID = externalID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Rename updates the plan's name and external identifier.
func (p *Plan) Rename(name, externalID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Plan name is required")
	}

	p.PlanName = name
	p.ExternalPlanID = externalID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ReconcileMenuGroups computes the join-row changes needed to move the
// plan's menu-group associations from their current state to want.
// Existing associations are kept rather than rewritten, so audit history
// on the join rows survives an update that does not touch them.
func (p *Plan) ReconcileMenuGroups(want []int64) (toInsert, toDelete []int64) {
	current := make(map[int64]bool, len(p.MenuGroupIDs))
	for _, id := range p.MenuGroupIDs {
		current[id] = true
	}
	desired := make(map[int64]bool, len(want))
	for _, id := range want {
		desired[id] = true
	}

	for _, id := range want {
		if !current[id] {
			current[id] = true // dedup inserts of a repeated want entry
			toInsert = append(toInsert, id)
		}
	}
	for _, id := range p.MenuGroupIDs {
		if !desired[id] {
			desired[id] = true
			toDelete = append(toDelete, id)
		}
	}

	p.MenuGroupIDs = make([]int64, len(want))
	copy(p.MenuGroupIDs, want)
	return toInsert, toDelete
}
