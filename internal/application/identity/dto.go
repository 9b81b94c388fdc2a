package identity

import (
	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
)

// RoleDTO is one resolved role assignment.
type RoleDTO struct {
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

// ModuleAccessDTO is one module permission entry.
type ModuleAccessDTO struct {
	ModuleID       int64  `json:"module_id"`
	ModuleName     string `json:"module_name"`
	ModuleAccessID int64  `json:"module_access_id"`
	AccessLevel    string `json:"access_level"`
}

// UserBrandProfileDTO groups a user's module access under one brand
// profile.
type UserBrandProfileDTO struct {
	BrandProfileID   int64             `json:"brand_profile_id"`
	BrandProfileName string            `json:"brand_profile_name"`
	ModuleAccessList []ModuleAccessDTO `json:"module_access_list"`
}

// UserDTO is the detail view of a user.
type UserDTO struct {
	UserID                int64                 `json:"user_id"`
	KeycloakUserID        *string               `json:"keycloak_user_id"`
	Username              *string               `json:"username"`
	FirstNamesEn          string                `json:"first_names_en"`
	LastNameEn            string                `json:"last_name_en"`
	FirstNamesAr          string                `json:"first_names_ar"`
	LastNameAr            string                `json:"last_name_ar"`
	PhoneNr               string                `json:"phone_nr"`
	Email                 string                `json:"email"`
	RoleList              []RoleDTO             `json:"role_list"`
	BrandProfileList      []UserBrandProfileDTO `json:"brand_profile_list"`
	AllBrandProfileAccess bool                  `json:"all_brand_profile_access_p"`
	// Flat permission list for users holding the all-profiles grant.
	ModuleAccessList []ModuleAccessDTO `json:"module_access_list,omitempty"`
	UserImageURL     *string           `json:"user_image_url"`
}

// UserSummaryDTO is the list view of a user.
type UserSummaryDTO struct {
	UserID         int64   `json:"user_id"`
	KeycloakUserID *string `json:"keycloak_user_id"`
	Username       *string `json:"username"`
	FirstNamesEn   string  `json:"first_names_en"`
	LastNameEn     string  `json:"last_name_en"`
	FirstNamesAr   string  `json:"first_names_ar"`
	LastNameAr     string  `json:"last_name_ar"`
	PhoneNr        string  `json:"phone_nr"`
	Email          string  `json:"email"`
}

// BrandProfileAccessInput is one brand-profile entry of a create/update
// user payload.
type BrandProfileAccessInput struct {
	BrandProfileID     int64   `json:"brand_profile_id"`
	ModuleAccessIDList []int64 `json:"module_access_id_list"`
}

// CreateUserInput contains input for creating a user.
type CreateUserInput struct {
	FirstNamesEn          string
	LastNameEn            string
	FirstNamesAr          string
	LastNameAr            string
	PhoneNr               string
	Email                 string
	RoleIDList            []int64
	BrandProfileList      []BrandProfileAccessInput
	AllBrandProfileAccess bool
	// Module access ids granted tenant-wide when AllBrandProfileAccess
	// is set.
	ModuleAccessIDList []int64
}

// UpdateUserInput contains input for updating a user.
type UpdateUserInput struct {
	FirstNamesEn          string
	LastNameEn            string
	FirstNamesAr          string
	LastNameAr            string
	PhoneNr               string
	Email                 string
	RoleIDList            []int64
	BrandProfileList      []BrandProfileAccessInput
	AllBrandProfileAccess bool
	ModuleAccessIDList    []int64
}

// VerifyOTPResult is returned when a signup code verifies.
type VerifyOTPResult struct {
	Username       string `json:"username"`
	KeycloakUserID string `json:"keycloak_user_id"`
}

// ForgotPasswordResult reports which channel the reset code went to.
type ForgotPasswordResult struct {
	UserID        int64  `json:"user_id"`
	ContactMethod string `json:"contact_method"`
}

// ForgotPasswordRequestDTO is the status view of a reset code.
type ForgotPasswordRequestDTO struct {
	OTPStatus string `json:"otp_status"`
}

// UploadImageResult carries the presigned URL of a stored image.
type UploadImageResult struct {
	UserImageURL string `json:"user_image_url"`
}

func grantsFromInput(userID, actorID int64, profiles []BrandProfileAccessInput, allAccess bool, moduleAccessIDs []int64) []identity.ModuleAccessGrant {
	grants := make([]identity.ModuleAccessGrant, 0)
	if allAccess {
		for _, maID := range moduleAccessIDs {
			grants = append(grants, identity.ModuleAccessGrant{
				AuditedEntity:  shared.NewAuditedEntity(actorID),
				UserID:         userID,
				ModuleAccessID: maID,
			})
		}
		return grants
	}
	for _, bp := range profiles {
		bpID := bp.BrandProfileID
		for _, maID := range bp.ModuleAccessIDList {
			grants = append(grants, identity.ModuleAccessGrant{
				AuditedEntity:  shared.NewAuditedEntity(actorID),
				UserID:         userID,
				BrandProfileID: &bpID,
				ModuleAccessID: maID,
			})
		}
	}
	return grants
}
