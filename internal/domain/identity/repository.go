package identity

import "context"

// UserRepository defines persistence for users, role assignments and
// module-access grants.
type UserRepository interface {
	// Create inserts the user and the initial role/grant rows in one
	// transaction.
	Create(ctx context.Context, user *User, grants []ModuleAccessGrant) error

	// Update persists the user's scalar attributes.
	Update(ctx context.Context, user *User) error

	// SoftDelete marks the user and its role/grant/image rows deleted.
	SoftDelete(ctx context.Context, id, actorID int64) error

	// FindByID returns an active user without associations loaded.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindActiveByUsernameOrEmail resolves a user by either identifier;
	// the username match wins when both are supplied.
	FindActiveByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)

	// FindAllActive returns active users in summary form.
	FindAllActive(ctx context.Context) ([]*User, error)

	// ExistsByUsername reports whether any user holds the username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// LoadRoles populates user.RoleIDs from user_role_map.
	LoadRoles(ctx context.Context, user *User) ([]UserRole, error)

	// ReplaceRoles reconciles user_role_map against user.RoleIDs.
	ReplaceRoles(ctx context.Context, user *User, actorID int64) error

	// LoadGrants returns the user's active module-access grants with
	// brand-profile and module names resolved.
	LoadGrants(ctx context.Context, userID int64) ([]ModuleAccessGrant, error)

	// ApplyGrantChanges inserts and soft-deletes grant rows.
	ApplyGrantChanges(ctx context.Context, userID, actorID int64, toInsert, toDelete []ModuleAccessGrant) error
}

// RoleRepository resolves role records.
type RoleRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*Role, error)
}

// OTPRepository defines persistence for one-time passwords.
type OTPRepository interface {
	Create(ctx context.Context, otp *OneTimePassword) error

	// Update persists status, counters and timestamps.
	Update(ctx context.Context, otp *OneTimePassword) error

	// FindActive returns the latest active OTP for (user, intent,
	// contact method).
	FindActive(ctx context.Context, userID int64, intent OTPIntent, method ContactMethod) (*OneTimePassword, error)

	// FindActiveByCode returns the latest active OTP row carrying the
	// code for the given intent.
	FindActiveByCode(ctx context.Context, code string, intent OTPIntent) (*OneTimePassword, error)

	// ExpireActive force-expires any pending/sent OTP for the tuple so a
	// fresh code can become the single active one.
	ExpireActive(ctx context.Context, userID int64, intent OTPIntent, method ContactMethod) error
}

// UserImage is a stored object reference for a user-uploaded image.
type UserImage struct {
	ID              int64
	UserID          int64
	ImageType       string
	ImageBucketName string
	ImageObjectKey  string
}

// UserImageRepository defines persistence for user image references.
type UserImageRepository interface {
	Create(ctx context.Context, actorID int64, image *UserImage) error

	// FindLatestActive returns the most recent active image for the
	// user, or nil when none exists.
	FindLatestActive(ctx context.Context, userID int64) (*UserImage, error)
}
