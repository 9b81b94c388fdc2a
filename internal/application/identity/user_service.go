package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const imageURLValidity = time.Hour

// UserService handles user account management.
type UserService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	imageRepo  identity.UserImageRepository
	brandRepo  brand.BrandProfileRepository
	otpService *OTPService
	provider   IdentityProvider
	storage    ObjectStorage
	logger     *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	imageRepo identity.UserImageRepository,
	brandRepo brand.BrandProfileRepository,
	otpService *OTPService,
	provider IdentityProvider,
	storage ObjectStorage,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		imageRepo:  imageRepo,
		brandRepo:  brandRepo,
		otpService: otpService,
		provider:   provider,
		storage:    storage,
		logger:     logger,
	}
}

// Create inserts the user with its role assignments and module-access
// grants, then kicks off the signup OTP flow over email.
func (s *UserService) Create(ctx context.Context, actorID int64, input CreateUserInput) (int64, error) {
	s.logger.Info("Creating user",
		zap.String("email", input.Email),
		zap.Int64("actor_id", actorID))

	if err := s.validateRoles(ctx, input.RoleIDList); err != nil {
		return 0, err
	}

	user, err := identity.NewUser(actorID,
		input.FirstNamesEn, input.LastNameEn,
		input.FirstNamesAr, input.LastNameAr,
		input.PhoneNr, input.Email)
	if err != nil {
		return 0, err
	}
	user.AllBrandProfileAccess = input.AllBrandProfileAccess
	user.SetRoles(input.RoleIDList)

	grants := grantsFromInput(0, actorID, input.BrandProfileList, input.AllBrandProfileAccess, input.ModuleAccessIDList)

	if err := s.userRepo.Create(ctx, user, grants); err != nil {
		s.logger.Error("Failed to create user", zap.String("email", input.Email), zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	if _, err := s.otpService.Create(ctx, actorID, user.ID, identity.IntentUserSignup); err != nil {
		s.logger.Error("Failed to start signup OTP flow",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return 0, s.mapErr(err)
	}

	return user.ID, nil
}

// Update rewrites the user's scalar fields and reconciles the role and
// module-access sets against the payload.
func (s *UserService) Update(ctx context.Context, actorID, userID int64, input UpdateUserInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.notFoundOr(err, shared.ErrUserNotFound)
	}

	if err := s.validateRoles(ctx, input.RoleIDList); err != nil {
		return err
	}

	user.FirstNamesEn = input.FirstNamesEn
	user.LastNameEn = input.LastNameEn
	user.FirstNamesAr = input.FirstNamesAr
	user.LastNameAr = input.LastNameAr
	user.PhoneNr = input.PhoneNr
	user.Email = input.Email
	user.AllBrandProfileAccess = input.AllBrandProfileAccess
	user.SetRoles(input.RoleIDList)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}
	if err := s.userRepo.ReplaceRoles(ctx, user, actorID); err != nil {
		s.logger.Error("Failed to update role assignments", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update role assignments")
	}

	current, err := s.userRepo.LoadGrants(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load module access", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update module access")
	}
	want := grantsFromInput(userID, actorID, input.BrandProfileList, input.AllBrandProfileAccess, input.ModuleAccessIDList)
	toInsert, toDelete := identity.ReconcileGrants(current, want)
	if err := s.userRepo.ApplyGrantChanges(ctx, userID, actorID, toInsert, toDelete); err != nil {
		s.logger.Error("Failed to update module access", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update module access")
	}

	return nil
}

// Get returns the user's detail view: profile fields, resolved roles,
// module access grouped per brand profile, and a presigned image URL
// when an image was uploaded.
func (s *UserService) Get(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.notFoundOr(err, shared.ErrUserNotFound)
	}

	dto := &UserDTO{
		UserID:                user.ID,
		KeycloakUserID:        user.KeycloakUserID,
		Username:              user.Username,
		FirstNamesEn:          user.FirstNamesEn,
		LastNameEn:            user.LastNameEn,
		FirstNamesAr:          user.FirstNamesAr,
		LastNameAr:            user.LastNameAr,
		PhoneNr:               user.PhoneNr,
		Email:                 user.Email,
		AllBrandProfileAccess: user.AllBrandProfileAccess,
		RoleList:              make([]RoleDTO, 0),
		BrandProfileList:      make([]UserBrandProfileDTO, 0),
	}

	roles, err := s.userRepo.LoadRoles(ctx, user)
	if err != nil {
		s.logger.Error("Failed to load roles", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}
	for _, r := range roles {
		dto.RoleList = append(dto.RoleList, RoleDTO{RoleID: r.RoleID, RoleName: r.RoleName})
	}

	grants, err := s.userRepo.LoadGrants(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load module access", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}

	if user.AllBrandProfileAccess {
		// Sentinel users carry a flat permission list; the profile list
		// enumerates every active profile those permissions apply to.
		dto.ModuleAccessList = make([]ModuleAccessDTO, 0, len(grants))
		for _, g := range grants {
			dto.ModuleAccessList = append(dto.ModuleAccessList, moduleAccessDTO(g))
		}
		profiles, err := s.brandRepo.FindAllActive(ctx)
		if err != nil {
			s.logger.Error("Failed to load brand profiles", zap.Int64("user_id", userID), zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
		}
		for _, p := range profiles {
			dto.BrandProfileList = append(dto.BrandProfileList, UserBrandProfileDTO{
				BrandProfileID:   p.ID,
				BrandProfileName: p.BrandProfileName,
				ModuleAccessList: dto.ModuleAccessList,
			})
		}
	} else {
		byProfile := make(map[int64]int)
		for _, g := range grants {
			if g.BrandProfileID == nil {
				continue
			}
			idx, ok := byProfile[*g.BrandProfileID]
			if !ok {
				idx = len(dto.BrandProfileList)
				byProfile[*g.BrandProfileID] = idx
				dto.BrandProfileList = append(dto.BrandProfileList, UserBrandProfileDTO{
					BrandProfileID:   *g.BrandProfileID,
					BrandProfileName: g.BrandProfileName,
					ModuleAccessList: make([]ModuleAccessDTO, 0, 1),
				})
			}
			dto.BrandProfileList[idx].ModuleAccessList = append(dto.BrandProfileList[idx].ModuleAccessList, moduleAccessDTO(g))
		}
	}

	image, err := s.imageRepo.FindLatestActive(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load user image", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user")
	}
	if image != nil {
		url, err := s.storage.PresignGet(ctx, image.ImageObjectKey, imageURLValidity)
		if err != nil {
			s.logger.Warn("Failed to presign user image", zap.Int64("user_id", userID), zap.Error(err))
		} else {
			dto.UserImageURL = &url
		}
	}

	return dto, nil
}

// List returns the active users in summary form.
func (s *UserService) List(ctx context.Context) ([]UserSummaryDTO, error) {
	users, err := s.userRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	result := make([]UserSummaryDTO, 0, len(users))
	for _, u := range users {
		result = append(result, UserSummaryDTO{
			UserID:         u.ID,
			KeycloakUserID: u.KeycloakUserID,
			Username:       u.Username,
			FirstNamesEn:   u.FirstNamesEn,
			LastNameEn:     u.LastNameEn,
			FirstNamesAr:   u.FirstNamesAr,
			LastNameAr:     u.LastNameAr,
			PhoneNr:        u.PhoneNr,
			Email:          u.Email,
		})
	}
	return result, nil
}

// CheckUsernameAvailability reports whether no user holds the username.
func (s *UserService) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username", zap.String("username", username), zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	return !exists, nil
}

// Delete removes the identity-provider account, then soft-deletes the
// user together with its role, grant and image rows.
func (s *UserService) Delete(ctx context.Context, actorID, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return s.notFoundOr(err, shared.ErrUserNotFound)
	}

	if user.KeycloakUserID != nil {
		if err := s.provider.DeleteUser(ctx, *user.KeycloakUserID); err != nil {
			s.logger.Error("Identity-provider account deletion failed",
				zap.Int64("user_id", userID), zap.Error(err))
			return shared.NewDomainError("IDENTITY_PROVIDER_ERROR", "Failed to delete identity-provider account")
		}
	}

	if err := s.userRepo.SoftDelete(ctx, userID, actorID); err != nil {
		s.logger.Error("Failed to delete user", zap.Int64("user_id", userID), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	s.logger.Info("User deleted", zap.Int64("user_id", userID), zap.Int64("actor_id", actorID))
	return nil
}

// UploadImage stores the uploaded file and records the object reference
// against the user.
func (s *UserService) UploadImage(ctx context.Context, actorID, userID int64, imageType, fileName, contentType string, body []byte) (*UploadImageResult, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, s.notFoundOr(err, shared.ErrUserNotFound)
	}

	key := fmt.Sprintf("user-images/%d/%s", userID, fileName)
	if err := s.storage.Upload(ctx, key, contentType, body); err != nil {
		s.logger.Error("Image upload failed",
			zap.Int64("user_id", userID),
			zap.String("object_key", key),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to upload image")
	}

	image := &identity.UserImage{
		UserID:          userID,
		ImageType:       imageType,
		ImageBucketName: s.storage.BucketName(),
		ImageObjectKey:  key,
	}
	if err := s.imageRepo.Create(ctx, actorID, image); err != nil {
		s.logger.Error("Failed to record image", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record image")
	}

	url, err := s.storage.PresignGet(ctx, key, imageURLValidity)
	if err != nil {
		s.logger.Error("Failed to presign image", zap.Int64("user_id", userID), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate image URL")
	}

	return &UploadImageResult{UserImageURL: url}, nil
}

// validateRoles checks every requested role id against the role
// catalog before any assignment row is written.
func (s *UserService) validateRoles(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	roles, err := s.roleRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve roles", zap.Int64s("role_ids", ids), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve roles")
	}

	known := make(map[int64]bool, len(roles))
	for _, r := range roles {
		known[r.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			s.logger.Warn("Unknown role requested", zap.Int64("role_id", id))
			return shared.ErrUnknownRole
		}
	}
	return nil
}

func moduleAccessDTO(g identity.ModuleAccessGrant) ModuleAccessDTO {
	return ModuleAccessDTO{
		ModuleID:       g.ModuleID,
		ModuleName:     g.ModuleName,
		ModuleAccessID: g.ModuleAccessID,
		AccessLevel:    g.AccessLevel,
	}
}

func (s *UserService) notFoundOr(err error, notFound *shared.DomainError) *shared.DomainError {
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

func (s *UserService) mapErr(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return shared.NewDomainError("INTERNAL_ERROR", "Unexpected error")
}
