package brand

// MenuGroupDTO is a resolved menu-group catalog entry.
type MenuGroupDTO struct {
	MenuGroupID         int64  `json:"menu_group_id"`
	MenuGroupName       string `json:"menu_group_name"`
	ExternalMenuGroupID string `json:"external_menu_group_id"`
}

// PlanDTO is one plan of a brand profile. MenuGroupList is only
// populated when menu-group detail was requested.
type PlanDTO struct {
	PlanID          int64          `json:"plan_id"`
	BrandProfileID  int64          `json:"brand_profile_id"`
	PlanName        string         `json:"plan_name"`
	ExternalPlanID  string         `json:"external_plan_id"`
	MenuGroupIDList []int64        `json:"menu_group_id_list"`
	MenuGroupList   []MenuGroupDTO `json:"menu_group_list,omitempty"`
}

// BrandProfileDTO is the detail view of a brand profile.
type BrandProfileDTO struct {
	BrandProfileID         int64     `json:"brand_profile_id"`
	BrandProfileName       string    `json:"brand_profile_name"`
	ExternalBrandProfileID string    `json:"external_brand_profile_id"`
	PlanList               []PlanDTO `json:"plan_list"`
}

// BrandProfileSummaryDTO is the list view of a brand profile.
type BrandProfileSummaryDTO struct {
	BrandProfileID         int64  `json:"brand_profile_id"`
	BrandProfileName       string `json:"brand_profile_name"`
	ExternalBrandProfileID string `json:"external_brand_profile_id"`
}

// PlanListDTO is the response of a plan listing for one profile.
type PlanListDTO struct {
	BrandProfileID int64     `json:"brand_profile_id"`
	PlanList       []PlanDTO `json:"plan_list"`
}

// PlanInput is one plan entry of a create/update payload. A nil PlanID
// creates a new plan; a set PlanID updates that plan in place.
type PlanInput struct {
	PlanID          *int64  `json:"plan_id"`
	PlanName        string  `json:"plan_name"`
	ExternalPlanID  string  `json:"external_plan_id"`
	MenuGroupIDList []int64 `json:"menu_group_id_list"`
}

// CreateBrandProfileInput contains input for creating a brand profile.
type CreateBrandProfileInput struct {
	BrandProfileName       string
	ExternalBrandProfileID string
	PlanList               []PlanInput
}

// UpdateBrandProfileInput contains input for updating a brand profile.
type UpdateBrandProfileInput struct {
	BrandProfileName       string
	ExternalBrandProfileID string
	PlanList               []PlanInput
}
