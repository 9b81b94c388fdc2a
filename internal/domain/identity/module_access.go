package identity

import "github.com/mealportal/backend/internal/domain/shared"

// ModuleAccess is a permission scoped to a functional module at an
// access level ("view", "edit", ...). The module/access catalog is
// seeded by migration.
type ModuleAccess struct {
	shared.BaseEntity
	ModuleID    int64
	ModuleName  string
	AccessLevel string
}

// ModuleAccessGrant links a user to a module access within one brand
// profile. A nil BrandProfileID is the sentinel for "all brand
// profiles": the grant applies tenant-wide without enumerating profile
// ids.
type ModuleAccessGrant struct {
	shared.AuditedEntity
	UserID         int64
	BrandProfileID *int64
	ModuleAccessID int64

	// Denormalized fields populated by joined loads.
	BrandProfileName string
	ModuleID         int64
	ModuleName       string
	AccessLevel      string
}

// GrantKey identifies a grant for set reconciliation.
type GrantKey struct {
	BrandProfileID int64 // 0 stands for the all-profiles sentinel
	ModuleAccessID int64
}

// Key returns the reconciliation key of the grant.
func (g *ModuleAccessGrant) Key() GrantKey {
	k := GrantKey{ModuleAccessID: g.ModuleAccessID}
	if g.BrandProfileID != nil {
		k.BrandProfileID = *g.BrandProfileID
	}
	return k
}

// ReconcileGrants computes which grants to insert and which existing
// ones to retire to move from current to want. Matching grants are left
// alone so their audit trail survives. Already-retired rows in current
// are ignored; a wanted key whose only current row is retired gets a
// fresh insert.
func ReconcileGrants(current []ModuleAccessGrant, want []ModuleAccessGrant) (toInsert []ModuleAccessGrant, toDelete []ModuleAccessGrant) {
	have := make(map[GrantKey]bool, len(current))
	for _, g := range current {
		if g.IsActive() {
			have[g.Key()] = true
		}
	}
	wanted := make(map[GrantKey]bool, len(want))

	for _, g := range want {
		k := g.Key()
		if wanted[k] {
			continue
		}
		wanted[k] = true
		if !have[k] {
			toInsert = append(toInsert, g)
		}
	}
	for _, g := range current {
		if !g.IsActive() {
			continue
		}
		if !wanted[g.Key()] {
			toDelete = append(toDelete, g)
		}
	}
	return toInsert, toDelete
}
