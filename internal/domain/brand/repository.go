package brand

import "context"

// BrandProfileRepository defines persistence for brand profiles and
// their nested plans.
type BrandProfileRepository interface {
	// Create inserts the profile together with its plans and menu-group
	// join rows in a single transaction.
	Create(ctx context.Context, profile *BrandProfile) error

	// Update persists the profile's scalar attributes.
	Update(ctx context.Context, profile *BrandProfile) error

	// SoftDelete marks the profile deleted. Plans and join rows are
	// intentionally left untouched.
	SoftDelete(ctx context.Context, id, actorID int64) error

	// FindByID returns an active profile with its plans and each plan's
	// menu-group id list loaded.
	FindByID(ctx context.Context, id int64) (*BrandProfile, error)

	// FindAllActive returns active profiles without nested plans.
	FindAllActive(ctx context.Context) ([]*BrandProfile, error)

	// ExistsActiveByName reports whether an active profile carries the
	// exact (case-sensitive) name.
	ExistsActiveByName(ctx context.Context, name string) (bool, error)

	// CreatePlan inserts a plan and its join rows.
	CreatePlan(ctx context.Context, plan *Plan) error

	// UpdatePlan persists a plan's scalar attributes and applies the
	// computed menu-group join changes.
	UpdatePlan(ctx context.Context, plan *Plan, insertMenuGroupIDs, deleteMenuGroupIDs []int64) error

	// FindPlansByBrandProfile returns the active plans of a profile with
	// menu-group id lists loaded.
	FindPlansByBrandProfile(ctx context.Context, brandProfileID int64) ([]*Plan, error)

	// FindPlanByID returns an active plan with its menu-group ids.
	FindPlanByID(ctx context.Context, id int64) (*Plan, error)
}

// MenuGroupRepository resolves menu-group catalog projections.
type MenuGroupRepository interface {
	// FindByIDs returns the menu groups for the given ids, preserving
	// input order for ids that resolve.
	FindByIDs(ctx context.Context, ids []int64) ([]*MenuGroup, error)
}
