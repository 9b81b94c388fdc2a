package identity

import (
	"strings"
	"time"

	"github.com/mealportal/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents a back-office user account. Credentials (username,
// password, identity-provider id) stay nil until the signup OTP is
// verified; only then does the account exist in Keycloak.
type User struct {
	shared.AuditedEntity
	FirstNamesEn          string
	LastNameEn            string
	FirstNamesAr          string
	LastNameAr            string
	PhoneNr               string
	Email                 string
	Username              *string
	PasswordHash          *string
	KeycloakUserID        *string
	AllBrandProfileAccess bool
	RoleIDs               []int64 // stored in user_role_map, loaded by repository
}

// NewUser creates an active user without credentials.
func NewUser(actorID int64, firstNamesEn, lastNameEn, firstNamesAr, lastNameAr, phoneNr, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	if firstNamesEn == "" || lastNameEn == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "English name is required")
	}

	return &User{
		AuditedEntity: shared.NewAuditedEntity(actorID),
		FirstNamesEn:  firstNamesEn,
		LastNameEn:    lastNameEn,
		FirstNamesAr:  firstNamesAr,
		LastNameAr:    lastNameAr,
		PhoneNr:       phoneNr,
		Email:         email,
		RoleIDs:       make([]int64, 0),
	}, nil
}

// HasCredentials reports whether signup verification has completed.
func (u *User) HasCredentials() bool {
	return u.Username != nil && u.KeycloakUserID != nil
}

// CompleteSignup attaches the verified credentials to the user.
func (u *User) CompleteSignup(username, password, keycloakUserID string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_INPUT", "Username is required")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	u.Username = &username
	u.PasswordHash = &hash
	u.KeycloakUserID = &keycloakUserID
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPassword replaces the user's password hash.
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = &hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) == nil
}

// SetRoles replaces the role assignment set.
func (u *User) SetRoles(roleIDs []int64) {
	ids := make([]int64, len(roleIDs))
	copy(ids, roleIDs)
	u.RoleIDs = ids
	u.UpdatedAt = time.Now().UTC()
}

// FullNameEn returns the user's English display name.
func (u *User) FullNameEn() string {
	return strings.TrimSpace(u.FirstNamesEn + " " + u.LastNameEn)
}

func hashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", shared.NewDomainError("INVALID_INPUT", "Password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
