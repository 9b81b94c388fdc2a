package models

import (
	"time"

	"github.com/mealportal/backend/internal/domain/identity"
)

// UserModel maps the user table. Username, password and the
// identity-provider id stay null until signup verification completes.
type UserModel struct {
	ID                    int64   `gorm:"column:user_id;primaryKey;autoIncrement"`
	FirstNamesEn          string  `gorm:"column:first_names_en;type:varchar(128);not null"`
	LastNameEn            string  `gorm:"column:last_name_en;type:varchar(128);not null"`
	FirstNamesAr          string  `gorm:"column:first_names_ar;type:varchar(128)"`
	LastNameAr            string  `gorm:"column:last_name_ar;type:varchar(128)"`
	PhoneNr               string  `gorm:"column:phone_nr;type:varchar(32)"`
	Email                 string  `gorm:"column:email;type:varchar(256);not null;index"`
	Username              *string `gorm:"column:username;type:varchar(128);uniqueIndex"`
	Password              *string `gorm:"column:password;type:varchar(128)"`
	KeycloakUserID        *string `gorm:"column:keycloak_user_id;type:varchar(64)"`
	AllBrandProfileAccess bool    `gorm:"column:all_brand_profile_access_p;not null;default:false"`
	AuditModel
}

// TableName returns the table name
func (UserModel) TableName() string {
	return "user"
}

// ToDomain converts the model to a domain entity. Role ids are loaded
// separately from user_role_map.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		AuditedEntity:         m.AuditModel.ToDomain(m.ID),
		FirstNamesEn:          m.FirstNamesEn,
		LastNameEn:            m.LastNameEn,
		FirstNamesAr:          m.FirstNamesAr,
		LastNameAr:            m.LastNameAr,
		PhoneNr:               m.PhoneNr,
		Email:                 m.Email,
		Username:              m.Username,
		PasswordHash:          m.Password,
		KeycloakUserID:        m.KeycloakUserID,
		AllBrandProfileAccess: m.AllBrandProfileAccess,
		RoleIDs:               make([]int64, 0),
	}
}

// FromDomain populates the model from a domain entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.FirstNamesEn = u.FirstNamesEn
	m.LastNameEn = u.LastNameEn
	m.FirstNamesAr = u.FirstNamesAr
	m.LastNameAr = u.LastNameAr
	m.PhoneNr = u.PhoneNr
	m.Email = u.Email
	m.Username = u.Username
	m.Password = u.PasswordHash
	m.KeycloakUserID = u.KeycloakUserID
	m.AllBrandProfileAccess = u.AllBrandProfileAccess
	m.AuditModel.FromDomain(u.AuditedEntity)
}

// RoleModel maps the role catalog table.
type RoleModel struct {
	ID        int64     `gorm:"column:role_id;primaryKey;autoIncrement"`
	RoleName  string    `gorm:"column:role_name;type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the table name
func (RoleModel) TableName() string {
	return "role"
}

// UserRoleMapModel maps the user_role_map table.
type UserRoleMapModel struct {
	ID     int64 `gorm:"column:user_role_map_id;primaryKey;autoIncrement"`
	UserID int64 `gorm:"column:user_id;not null;index"`
	RoleID int64 `gorm:"column:role_id;not null"`
	AuditModel
}

// TableName returns the table name
func (UserRoleMapModel) TableName() string {
	return "user_role_map"
}

// ModuleModel maps the module catalog table.
type ModuleModel struct {
	ID         int64  `gorm:"column:module_id;primaryKey;autoIncrement"`
	ModuleName string `gorm:"column:module_name;type:varchar(64);not null"`
}

// TableName returns the table name
func (ModuleModel) TableName() string {
	return "module"
}

// ModuleAccessModel maps the module_access catalog table.
type ModuleAccessModel struct {
	ID          int64  `gorm:"column:module_access_id;primaryKey;autoIncrement"`
	ModuleID    int64  `gorm:"column:module_id;not null"`
	AccessLevel string `gorm:"column:access_level;type:varchar(32);not null"`
}

// TableName returns the table name
func (ModuleAccessModel) TableName() string {
	return "module_access"
}

// UserBrandProfileModuleAccessModel maps the grant table. A NULL
// brand_profile_id is the sentinel for "all brand profiles".
type UserBrandProfileModuleAccessModel struct {
	ID             int64  `gorm:"column:user_brand_profile_module_access_id;primaryKey;autoIncrement"`
	UserID         int64  `gorm:"column:user_id;not null;index"`
	BrandProfileID *int64 `gorm:"column:brand_profile_id"`
	ModuleAccessID int64  `gorm:"column:module_access_id;not null"`
	AuditModel
}

// TableName returns the table name
func (UserBrandProfileModuleAccessModel) TableName() string {
	return "user_brand_profile_module_access"
}

// OneTimePasswordModel maps the one_time_password table.
type OneTimePasswordModel struct {
	ID                 int64      `gorm:"column:one_time_password_id;primaryKey;autoIncrement"`
	UserID             int64      `gorm:"column:user_id;not null;index"`
	Intent             string     `gorm:"column:intent;type:varchar(32);not null"`
	ContactMethod      string     `gorm:"column:contact_method;type:varchar(16);not null"`
	OTP                string     `gorm:"column:otp;type:varchar(64);not null;index"`
	RequestCount       int        `gorm:"column:otp_request_count;not null;default:0"`
	RequestedTimestamp time.Time  `gorm:"column:otp_requested_timestamp;not null"`
	ExpiryTimestamp    time.Time  `gorm:"column:otp_expiry_timestamp;not null"`
	VerifiedTimestamp  *time.Time `gorm:"column:otp_verified_timestamp"`
	Status             string     `gorm:"column:otp_status;type:varchar(16);not null"`
	AuditModel
}

// TableName returns the table name
func (OneTimePasswordModel) TableName() string {
	return "one_time_password"
}

// ToDomain converts the model to a domain entity.
func (m *OneTimePasswordModel) ToDomain() *identity.OneTimePassword {
	return &identity.OneTimePassword{
		AuditedEntity:      m.AuditModel.ToDomain(m.ID),
		UserID:             m.UserID,
		Intent:             identity.OTPIntent(m.Intent),
		ContactMethod:      identity.ContactMethod(m.ContactMethod),
		OTP:                m.OTP,
		RequestCount:       m.RequestCount,
		RequestedTimestamp: m.RequestedTimestamp,
		ExpiryTimestamp:    m.ExpiryTimestamp,
		VerifiedTimestamp:  m.VerifiedTimestamp,
		Status:             identity.OTPStatus(m.Status),
	}
}

// FromDomain populates the model from a domain entity.
func (m *OneTimePasswordModel) FromDomain(o *identity.OneTimePassword) {
	m.ID = o.ID
	m.UserID = o.UserID
	m.Intent = string(o.Intent)
	m.ContactMethod = string(o.ContactMethod)
	m.OTP = o.OTP
	m.RequestCount = o.RequestCount
	m.RequestedTimestamp = o.RequestedTimestamp
	m.ExpiryTimestamp = o.ExpiryTimestamp
	m.VerifiedTimestamp = o.VerifiedTimestamp
	m.Status = string(o.Status)
	m.AuditModel.FromDomain(o.AuditedEntity)
}

// UserImageMapModel maps the user_image_map table.
type UserImageMapModel struct {
	ID              int64  `gorm:"column:user_image_map_id;primaryKey;autoIncrement"`
	UserID          int64  `gorm:"column:user_id;not null;index"`
	ImageType       string `gorm:"column:image_type;type:varchar(32);not null"`
	ImageBucketName string `gorm:"column:image_bucket_name;type:varchar(128);not null"`
	ImageObjectKey  string `gorm:"column:image_object_key;type:varchar(512);not null"`
	AuditModel
}

// TableName returns the table name
func (UserImageMapModel) TableName() string {
	return "user_image_map"
}
