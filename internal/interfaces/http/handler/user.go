package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	identityapp "github.com/mealportal/backend/internal/application/identity"
	"github.com/mealportal/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// User action names surfaced in the response envelope.
const (
	actionAddUser                = "add_user"
	actionCheckUsername          = "check_username_availability"
	actionGetUser                = "get_user"
	actionGetUsers               = "get_users"
	actionUpdateUser             = "update_user"
	actionDeleteUser             = "delete_user"
	actionVerifyOTP              = "verify_otp"
	actionResendUserOTP          = "resend_user_otp"
	actionInitiateForgotPassword = "initiate_forgot_password_request"
	actionGetForgotPassword      = "get_forgot_password_request"
	actionResetUserPassword      = "reset_user_password"
	actionUploadUserImage        = "upload_user_image"
)

const maxImageUploadBytes = 10 << 20

// UserHandler serves the user and OTP endpoints.
type UserHandler struct {
	BaseHandler
	users  *identityapp.UserService
	otps   *identityapp.OTPService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identityapp.UserService, otps *identityapp.OTPService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, otps: otps, logger: logger}
}

type brandProfileAccessRequest struct {
	BrandProfileID     int64   `json:"brand_profile_id" binding:"required"`
	ModuleAccessIDList []int64 `json:"module_access_id_list" binding:"required"`
}

type userRequest struct {
	FirstNamesEn          string                      `json:"first_names_en" binding:"required"`
	LastNameEn            string                      `json:"last_name_en" binding:"required"`
	FirstNamesAr          string                      `json:"first_names_ar"`
	LastNameAr            string                      `json:"last_name_ar"`
	PhoneNr               string                      `json:"phone_nr"`
	Email                 string                      `json:"email" binding:"required,email"`
	RoleIDList            []int64                     `json:"role_id_list" binding:"required"`
	BrandProfileList      []brandProfileAccessRequest `json:"brand_profile_list" binding:"omitempty,dive"`
	AllBrandProfileAccess bool                        `json:"all_brand_profile_access_p"`
	ModuleAccessIDList    []int64                     `json:"module_access_id_list"`
}

type usernameAvailabilityRequest struct {
	Username string `json:"username" binding:"required"`
}

type verifyOTPRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
	Intent   string `json:"intent" binding:"required"`
}

type resendOTPRequest struct {
	Intent string `json:"intent" binding:"required"`
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type resetPasswordRequest struct {
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func accessInputs(profiles []brandProfileAccessRequest) []identityapp.BrandProfileAccessInput {
	inputs := make([]identityapp.BrandProfileAccessInput, 0, len(profiles))
	for _, p := range profiles {
		inputs = append(inputs, identityapp.BrandProfileAccessInput{
			BrandProfileID:     p.BrandProfileID,
			ModuleAccessIDList: p.ModuleAccessIDList,
		})
	}
	return inputs
}

// Create handles POST /user
func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionAddUser, middleware.ValidationMessage(err))
		return
	}

	id, err := h.users.Create(c.Request.Context(), getActorID(c), identityapp.CreateUserInput{
		FirstNamesEn:          req.FirstNamesEn,
		LastNameEn:            req.LastNameEn,
		FirstNamesAr:          req.FirstNamesAr,
		LastNameAr:            req.LastNameAr,
		PhoneNr:               req.PhoneNr,
		Email:                 req.Email,
		RoleIDList:            req.RoleIDList,
		BrandProfileList:      accessInputs(req.BrandProfileList),
		AllBrandProfileAccess: req.AllBrandProfileAccess,
		ModuleAccessIDList:    req.ModuleAccessIDList,
	})
	if err != nil {
		h.Error(c, actionAddUser, err)
		return
	}
	h.Success(c, actionAddUser, gin.H{"user_id": id})
}

// CheckUsernameAvailability handles POST /username-availability
func (h *UserHandler) CheckUsernameAvailability(c *gin.Context) {
	var req usernameAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionCheckUsername, middleware.ValidationMessage(err))
		return
	}

	available, err := h.users.CheckUsernameAvailability(c.Request.Context(), req.Username)
	if err != nil {
		h.Error(c, actionCheckUsername, err)
		return
	}

	availableP := 0
	if available {
		availableP = 1
	}
	h.Success(c, actionCheckUsername, gin.H{"available_p": availableP})
}

// Get handles GET /user/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionGetUser, "Invalid user id")
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, actionGetUser, err)
		return
	}
	h.Success(c, actionGetUser, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.Error(c, actionGetUsers, err)
		return
	}
	h.Success(c, actionGetUsers, gin.H{"user_list": users})
}

// Update handles PUT /user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionUpdateUser, "Invalid user id")
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionUpdateUser, middleware.ValidationMessage(err))
		return
	}

	err := h.users.Update(c.Request.Context(), getActorID(c), id, identityapp.UpdateUserInput{
		FirstNamesEn:          req.FirstNamesEn,
		LastNameEn:            req.LastNameEn,
		FirstNamesAr:          req.FirstNamesAr,
		LastNameAr:            req.LastNameAr,
		PhoneNr:               req.PhoneNr,
		Email:                 req.Email,
		RoleIDList:            req.RoleIDList,
		BrandProfileList:      accessInputs(req.BrandProfileList),
		AllBrandProfileAccess: req.AllBrandProfileAccess,
		ModuleAccessIDList:    req.ModuleAccessIDList,
	})
	if err != nil {
		h.Error(c, actionUpdateUser, err)
		return
	}
	h.Success(c, actionUpdateUser, gin.H{"user_id": id})
}

// Delete handles DELETE /user/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionDeleteUser, "Invalid user id")
		return
	}

	if err := h.users.Delete(c.Request.Context(), getActorID(c), id); err != nil {
		h.Error(c, actionDeleteUser, err)
		return
	}
	h.Success(c, actionDeleteUser, gin.H{"user_id": id})
}

// VerifyOTP handles POST /user/:id/verify-otp
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionVerifyOTP, "Invalid user id")
		return
	}

	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionVerifyOTP, middleware.ValidationMessage(err))
		return
	}

	result, err := h.otps.Verify(c.Request.Context(), id, req.Intent, req.OTP, req.Username, req.Password)
	if err != nil {
		h.Error(c, actionVerifyOTP, err)
		return
	}
	h.Success(c, actionVerifyOTP, result)
}

// ResendOTP handles POST /user/:id/resend-otp
func (h *UserHandler) ResendOTP(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionResendUserOTP, "Invalid user id")
		return
	}

	var req resendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionResendUserOTP, middleware.ValidationMessage(err))
		return
	}

	if err := h.otps.Resend(c.Request.Context(), id, req.Intent); err != nil {
		h.Error(c, actionResendUserOTP, err)
		return
	}
	h.Success(c, actionResendUserOTP, gin.H{"user_id": id})
}

// InitiateForgotPassword handles POST /forgot-password
func (h *UserHandler) InitiateForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionInitiateForgotPassword, middleware.ValidationMessage(err))
		return
	}
	if req.Username == "" && req.Email == "" {
		h.BadRequest(c, actionInitiateForgotPassword, "username or email is required")
		return
	}

	result, err := h.otps.InitiateForgotPassword(c.Request.Context(), getActorID(c), req.Username, req.Email)
	if err != nil {
		h.Error(c, actionInitiateForgotPassword, err)
		return
	}
	h.Success(c, actionInitiateForgotPassword, result)
}

// GetForgotPasswordRequest handles GET /forgot-password/:otp
func (h *UserHandler) GetForgotPasswordRequest(c *gin.Context) {
	code := c.Param("otp")
	if code == "" {
		h.BadRequest(c, actionGetForgotPassword, "otp is required")
		return
	}

	result, err := h.otps.GetForgotPasswordRequest(c.Request.Context(), code)
	if err != nil {
		h.Error(c, actionGetForgotPassword, err)
		return
	}
	h.Success(c, actionGetForgotPassword, result)
}

// ResetPassword handles POST /reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, actionResetUserPassword, middleware.ValidationMessage(err))
		return
	}

	userID, err := h.otps.ResetPassword(c.Request.Context(), req.OTP, req.Password)
	if err != nil {
		h.Error(c, actionResetUserPassword, err)
		return
	}
	h.Success(c, actionResetUserPassword, gin.H{"user_id": userID})
}

// UploadImage handles POST /user/:id/upload-image
func (h *UserHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, actionUploadUserImage, "Invalid user id")
		return
	}

	imageType := c.PostForm("image_type")
	fileHeader, err := c.FormFile("user_image")
	if err != nil {
		// Older portal builds posted the file under "file".
		fileHeader, err = c.FormFile("file")
	}
	if err != nil {
		h.BadRequest(c, actionUploadUserImage, "user_image is required")
		return
	}
	if fileHeader.Size > maxImageUploadBytes {
		h.BadRequest(c, actionUploadUserImage, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, actionUploadUserImage, err)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		h.Error(c, actionUploadUserImage, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.users.UploadImage(c.Request.Context(), getActorID(c), id, imageType, fileHeader.Filename, contentType, body)
	if err != nil {
		h.Error(c, actionUploadUserImage, err)
		return
	}
	h.Success(c, actionUploadUserImage, result)
}
