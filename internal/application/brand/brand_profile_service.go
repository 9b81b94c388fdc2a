package brand

import (
	"context"
	"errors"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BrandProfileService handles brand-profile and plan management.
type BrandProfileService struct {
	profileRepo   brand.BrandProfileRepository
	menuGroupRepo brand.MenuGroupRepository
	logger        *zap.Logger
}

// NewBrandProfileService creates a new brand profile service.
func NewBrandProfileService(
	profileRepo brand.BrandProfileRepository,
	menuGroupRepo brand.MenuGroupRepository,
	logger *zap.Logger,
) *BrandProfileService {
	return &BrandProfileService{
		profileRepo:   profileRepo,
		menuGroupRepo: menuGroupRepo,
		logger:        logger,
	}
}

// CheckNameAvailability reports whether no active profile carries the
// exact name.
func (s *BrandProfileService) CheckNameAvailability(ctx context.Context, name string) (bool, error) {
	exists, err := s.profileRepo.ExistsActiveByName(ctx, name)
	if err != nil {
		s.logger.Error("Failed to check brand profile name", zap.String("name", name), zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to check name availability")
	}
	return !exists, nil
}

// Create inserts the profile with its plans and menu-group joins. The
// pre-check keeps the common duplicate path cheap; the storage layer's
// unique constraint closes the race and surfaces as the same error.
func (s *BrandProfileService) Create(ctx context.Context, actorID int64, input CreateBrandProfileInput) (int64, error) {
	exists, err := s.profileRepo.ExistsActiveByName(ctx, input.BrandProfileName)
	if err != nil {
		s.logger.Error("Failed to check brand profile name", zap.String("name", input.BrandProfileName), zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to create brand profile")
	}
	if exists {
		return 0, shared.ErrDuplicateName
	}

	profile, err := brand.NewBrandProfile(actorID, input.BrandProfileName, input.ExternalBrandProfileID)
	if err != nil {
		return 0, s.mapErr(err, shared.ErrNotFound)
	}
	for _, p := range input.PlanList {
		plan, err := brand.NewPlan(actorID, 0, p.PlanName, p.ExternalPlanID, p.MenuGroupIDList)
		if err != nil {
			return 0, s.mapErr(err, shared.ErrNotFound)
		}
		profile.Plans = append(profile.Plans, *plan)
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrDuplicateName) {
			return 0, shared.ErrDuplicateName
		}
		s.logger.Error("Failed to create brand profile", zap.String("name", input.BrandProfileName), zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to create brand profile")
	}

	s.logger.Info("Brand profile created",
		zap.Int64("brand_profile_id", profile.ID),
		zap.String("name", profile.BrandProfileName),
		zap.Int("plan_count", len(profile.Plans)))

	return profile.ID, nil
}

// Update rewrites the profile's scalar fields and applies the plan
// payload: entries with a plan id update that plan and reconcile its
// menu-group joins, entries without create new plans. Plans the payload
// does not mention stay as they are.
func (s *BrandProfileService) Update(ctx context.Context, actorID, profileID int64, input UpdateBrandProfileInput) error {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return s.mapErr(err, shared.ErrNotFound)
	}

	if profile.BrandProfileName != input.BrandProfileName {
		exists, err := s.profileRepo.ExistsActiveByName(ctx, input.BrandProfileName)
		if err != nil {
			s.logger.Error("Failed to check brand profile name", zap.String("name", input.BrandProfileName), zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to update brand profile")
		}
		if exists {
			return shared.ErrDuplicateName
		}
	}

	if err := profile.Rename(input.BrandProfileName, input.ExternalBrandProfileID); err != nil {
		return s.mapErr(err, shared.ErrNotFound)
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrDuplicateName) {
			return shared.ErrDuplicateName
		}
		s.logger.Error("Failed to update brand profile", zap.Int64("brand_profile_id", profileID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update brand profile")
	}

	return s.applyPlanChanges(ctx, actorID, profileID, input.PlanList)
}

// Get returns the profile with its plans, each carrying resolved
// menu-group detail.
func (s *BrandProfileService) Get(ctx context.Context, profileID int64) (*BrandProfileDTO, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, s.mapErr(err, shared.ErrNotFound)
	}

	dto := &BrandProfileDTO{
		BrandProfileID:         profile.ID,
		BrandProfileName:       profile.BrandProfileName,
		ExternalBrandProfileID: profile.ExternalBrandProfileID,
		PlanList:               make([]PlanDTO, 0, len(profile.Plans)),
	}
	for i := range profile.Plans {
		planDTO, err := s.planDTO(ctx, &profile.Plans[i], true)
		if err != nil {
			return nil, err
		}
		dto.PlanList = append(dto.PlanList, *planDTO)
	}
	return dto, nil
}

// List returns active profiles in summary form.
func (s *BrandProfileService) List(ctx context.Context) ([]BrandProfileSummaryDTO, error) {
	profiles, err := s.profileRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list brand profiles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list brand profiles")
	}

	result := make([]BrandProfileSummaryDTO, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, BrandProfileSummaryDTO{
			BrandProfileID:         p.ID,
			BrandProfileName:       p.BrandProfileName,
			ExternalBrandProfileID: p.ExternalBrandProfileID,
		})
	}
	return result, nil
}

// GetPlans returns the profile's plans; includeMenuGroupInfo enriches
// each plan with resolved menu-group records instead of bare ids.
func (s *BrandProfileService) GetPlans(ctx context.Context, profileID int64, includeMenuGroupInfo bool) (*PlanListDTO, error) {
	if _, err := s.profileRepo.FindByID(ctx, profileID); err != nil {
		return nil, s.mapErr(err, shared.ErrNotFound)
	}

	plans, err := s.profileRepo.FindPlansByBrandProfile(ctx, profileID)
	if err != nil {
		s.logger.Error("Failed to list plans", zap.Int64("brand_profile_id", profileID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list plans")
	}

	dto := &PlanListDTO{
		BrandProfileID: profileID,
		PlanList:       make([]PlanDTO, 0, len(plans)),
	}
	for _, plan := range plans {
		planDTO, err := s.planDTO(ctx, plan, includeMenuGroupInfo)
		if err != nil {
			return nil, err
		}
		dto.PlanList = append(dto.PlanList, *planDTO)
	}
	return dto, nil
}

// BulkUpdatePlans applies a plan payload to the profile with the same
// semantics as Update's plan handling.
func (s *BrandProfileService) BulkUpdatePlans(ctx context.Context, actorID, profileID int64, planList []PlanInput) error {
	if _, err := s.profileRepo.FindByID(ctx, profileID); err != nil {
		return s.mapErr(err, shared.ErrNotFound)
	}
	return s.applyPlanChanges(ctx, actorID, profileID, planList)
}

// Delete soft-deletes the profile. Plans and joins stay untouched.
func (s *BrandProfileService) Delete(ctx context.Context, actorID, profileID int64) error {
	if _, err := s.profileRepo.FindByID(ctx, profileID); err != nil {
		return s.mapErr(err, shared.ErrNotFound)
	}

	if err := s.profileRepo.SoftDelete(ctx, profileID, actorID); err != nil {
		s.logger.Error("Failed to delete brand profile", zap.Int64("brand_profile_id", profileID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete brand profile")
	}

	s.logger.Info("Brand profile deleted",
		zap.Int64("brand_profile_id", profileID),
		zap.Int64("actor_id", actorID))
	return nil
}

func (s *BrandProfileService) applyPlanChanges(ctx context.Context, actorID, profileID int64, planList []PlanInput) error {
	for _, p := range planList {
		if p.PlanID == nil {
			plan, err := brand.NewPlan(actorID, profileID, p.PlanName, p.ExternalPlanID, p.MenuGroupIDList)
			if err != nil {
				return s.mapErr(err, shared.ErrNotFound)
			}
			if err := s.profileRepo.CreatePlan(ctx, plan); err != nil {
				s.logger.Error("Failed to create plan", zap.Int64("brand_profile_id", profileID), zap.Error(err))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to create plan")
			}
			continue
		}

		plan, err := s.profileRepo.FindPlanByID(ctx, *p.PlanID)
		if err != nil {
			return s.mapErr(err, shared.ErrNotFound)
		}
		if plan.BrandProfileID != profileID {
			return shared.ErrNotFound
		}
		if err := plan.Rename(p.PlanName, p.ExternalPlanID); err != nil {
			return s.mapErr(err, shared.ErrNotFound)
		}
		toInsert, toDelete := plan.ReconcileMenuGroups(p.MenuGroupIDList)
		if err := s.profileRepo.UpdatePlan(ctx, plan, toInsert, toDelete); err != nil {
			s.logger.Error("Failed to update plan",
				zap.Int64("brand_profile_id", profileID),
				zap.Int64("plan_id", plan.ID),
				zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to update plan")
		}
	}
	return nil
}

func (s *BrandProfileService) planDTO(ctx context.Context, plan *brand.Plan, includeMenuGroupInfo bool) (*PlanDTO, error) {
	dto := &PlanDTO{
		PlanID:          plan.ID,
		BrandProfileID:  plan.BrandProfileID,
		PlanName:        plan.PlanName,
		ExternalPlanID:  plan.ExternalPlanID,
		MenuGroupIDList: plan.MenuGroupIDs,
	}
	if !includeMenuGroupInfo {
		return dto, nil
	}

	groups, err := s.menuGroupRepo.FindByIDs(ctx, plan.MenuGroupIDs)
	if err != nil {
		s.logger.Error("Failed to resolve menu groups", zap.Int64("plan_id", plan.ID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve menu groups")
	}
	dto.MenuGroupList = make([]MenuGroupDTO, 0, len(groups))
	for _, g := range groups {
		dto.MenuGroupList = append(dto.MenuGroupList, MenuGroupDTO{
			MenuGroupID:         g.ID,
			MenuGroupName:       g.MenuGroupName,
			ExternalMenuGroupID: g.ExternalMenuGroupID,
		})
	}
	return dto, nil
}

func (s *BrandProfileService) mapErr(err error, notFound *shared.DomainError) *shared.DomainError {
	if errors.Is(err, shared.ErrNotFound) {
		return notFound
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("Unexpected repository failure", zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", "Unexpected error")
}
