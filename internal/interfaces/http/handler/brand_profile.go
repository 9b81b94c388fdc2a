package handler

import (
	"github.com/gin-gonic/gin"
	brandapp "github.com/mealportal/backend/internal/application/brand"
	"github.com/mealportal/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Brand-profile action names surfaced in the response envelope.
const (
	actionCheckBrandProfileName  = "check_brand_profile_name_availability"
	actionAddBrandProfile        = "add_brand_profile"
	actionGetBrandProfile        = "get_brand_profile"
	actionUpdateBrandProfile     = "update_brand_profile"
	actionDeleteBrandProfile     = "delete_brand_profile"
	actionGetBrandProfiles       = "get_brand_profiles"
	actionGetPlansByBrandProfile = "get_plans_by_brand_profile"
	actionBulkUpdatePlans        = "bulk_update_brand_profile_plans"
)

// BrandProfileHandler serves the brand-profile endpoints.
type BrandProfileHandler struct {
	BaseHandler
	service *brandapp.BrandProfileService
	logger  *zap.Logger
}

// NewBrandProfileHandler creates a new BrandProfileHandler
func NewBrandProfileHandler(service *brandapp.BrandProfileService, logger *zap.Logger) *BrandProfileHandler {
	return &BrandProfileHandler{service: service, logger: logger}
}

type planRequest struct {
	PlanID          *int64  `json:"plan_id"`
	PlanName        string  `json:"plan_name" binding:"required,not_blank"`
	ExternalPlanID  string  `json:"external_plan_id"`
	MenuGroupIDList []int64 `json:"menu_group_id_list"`
}

type brandProfileRequest struct {
	BrandProfileName       string        `json:"brand_profile_name" binding:"required,not_blank"`
	ExternalBrandProfileID string        `json:"external_brand_profile_id"`
	PlanList               []planRequest `json:"plan_list" binding:"omitempty,dive"`
}

type nameAvailabilityRequest struct {
	BrandProfileName string `json:"brand_profile_name" binding:"required,not_blank"`
}

type planListRequest struct {
	PlanList []planRequest `json:"plan_list" binding:"required,dive"`
}

func planInputs(plans []planRequest) []brandapp.PlanInput {
	inputs := make([]brandapp.PlanInput, 0, len(plans))
	for _, p := range plans {
		inputs = append(inputs, brandapp.PlanInput{
			PlanID:          p.PlanID,
			PlanName:        p.PlanName,
			ExternalPlanID:  p.ExternalPlanID,
			MenuGroupIDList: p.MenuGroupIDList,
		})
	}
	return inputs
}

// CheckNameAvailability handles POST /brand-profile/availability
func (h *BrandProfileHandler) CheckNameAvailability(c *gin.Context) {
	var req nameAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionCheckBrandProfileName, middleware.ValidationMessage(err))
		return
	}

	available, err := h.service.CheckNameAvailability(c.Request.Context(), req.BrandProfileName)
	if err != nil {
		h.Error(c, actionCheckBrandProfileName, err)
		return
	}

	availableP := 0
	if available {
		availableP = 1
	}
	h.Success(c, actionCheckBrandProfileName, gin.H{"available_p": availableP})
}

// Create handles POST /brand-profile
func (h *BrandProfileHandler) Create(c *gin.Context) {
	var req brandProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionAddBrandProfile, middleware.ValidationMessage(err))
		return
	}

	id, err := h.service.Create(c.Request.Context(), getActorID(c), brandapp.CreateBrandProfileInput{
		BrandProfileName:       req.BrandProfileName,
		ExternalBrandProfileID: req.ExternalBrandProfileID,
		PlanList:               planInputs(req.PlanList),
	})
	if err != nil {
		h.Error(c, actionAddBrandProfile, err)
		return
	}

	h.Success(c, actionAddBrandProfile, gin.H{"brand_profile_id": id})
}

// Get handles GET /brand-profile/:id
func (h *BrandProfileHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionGetBrandProfile, "Invalid brand profile id")
		return
	}

	profile, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, actionGetBrandProfile, err)
		return
	}
	h.Success(c, actionGetBrandProfile, profile)
}

// Update handles PUT /brand-profile/:id
func (h *BrandProfileHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionUpdateBrandProfile, "Invalid brand profile id")
		return
	}

	var req brandProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionUpdateBrandProfile, middleware.ValidationMessage(err))
		return
	}

	err := h.service.Update(c.Request.Context(), getActorID(c), id, brandapp.UpdateBrandProfileInput{
		BrandProfileName:       req.BrandProfileName,
		ExternalBrandProfileID: req.ExternalBrandProfileID,
		PlanList:               planInputs(req.PlanList),
	})
	if err != nil {
		h.Error(c, actionUpdateBrandProfile, err)
		return
	}
	h.Success(c, actionUpdateBrandProfile, gin.H{"brand_profile_id": id})
}

// Delete handles DELETE /brand-profile/:id
func (h *BrandProfileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionDeleteBrandProfile, "Invalid brand profile id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), getActorID(c), id); err != nil {
		h.Error(c, actionDeleteBrandProfile, err)
		return
	}
	h.Success(c, actionDeleteBrandProfile, gin.H{"brand_profile_id": id})
}

// List handles GET /brand-profiles
func (h *BrandProfileHandler) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, actionGetBrandProfiles, err)
		return
	}
	h.Success(c, actionGetBrandProfiles, gin.H{"brand_profile_list": profiles})
}

// GetPlans handles GET /brand-profile/:id/plans
func (h *BrandProfileHandler) GetPlans(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionGetPlansByBrandProfile, "Invalid brand profile id")
		return
	}

	includeMenuGroupInfo := c.Query("menu_group_info_p") == "1"
	plans, err := h.service.GetPlans(c.Request.Context(), id, includeMenuGroupInfo)
	if err != nil {
		h.Error(c, actionGetPlansByBrandProfile, err)
		return
	}
	h.Success(c, actionGetPlansByBrandProfile, plans)
}

// BulkUpdatePlans handles PUT /brand-profile/:id/plans
func (h *BrandProfileHandler) BulkUpdatePlans(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionBulkUpdatePlans, "Invalid brand profile id")
		return
	}

	var req planListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionBulkUpdatePlans, middleware.ValidationMessage(err))
		return
	}

	if err := h.service.BulkUpdatePlans(c.Request.Context(), getActorID(c), id, planInputs(req.PlanList)); err != nil {
		h.Error(c, actionBulkUpdatePlans, err)
		return
	}
	h.Success(c, actionBulkUpdatePlans, gin.H{"brand_profile_id": id})
}
