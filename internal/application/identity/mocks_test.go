package identity

import (
	"context"
	"time"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User, grants []identity.ModuleAccessGrant) error {
	args := m.Called(ctx, user, grants)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id, actorID int64) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByUsernameOrEmail(ctx context.Context, username, email string) (*identity.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllActive(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) LoadRoles(ctx context.Context, user *identity.User) ([]identity.UserRole, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.UserRole), args.Error(1)
}

func (m *MockUserRepository) ReplaceRoles(ctx context.Context, user *identity.User, actorID int64) error {
	args := m.Called(ctx, user, actorID)
	return args.Error(0)
}

func (m *MockUserRepository) LoadGrants(ctx context.Context, userID int64) ([]identity.ModuleAccessGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.ModuleAccessGrant), args.Error(1)
}

func (m *MockUserRepository) ApplyGrantChanges(ctx context.Context, userID, actorID int64, toInsert, toDelete []identity.ModuleAccessGrant) error {
	args := m.Called(ctx, userID, actorID, toInsert, toDelete)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]*identity.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Role), args.Error(1)
}

// MockOTPRepository is a mock implementation of identity.OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *identity.OneTimePassword) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) Update(ctx context.Context, otp *identity.OneTimePassword) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) FindActive(ctx context.Context, userID int64, intent identity.OTPIntent, method identity.ContactMethod) (*identity.OneTimePassword, error) {
	args := m.Called(ctx, userID, intent, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.OneTimePassword), args.Error(1)
}

func (m *MockOTPRepository) FindActiveByCode(ctx context.Context, code string, intent identity.OTPIntent) (*identity.OneTimePassword, error) {
	args := m.Called(ctx, code, intent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.OneTimePassword), args.Error(1)
}

func (m *MockOTPRepository) ExpireActive(ctx context.Context, userID int64, intent identity.OTPIntent, method identity.ContactMethod) error {
	args := m.Called(ctx, userID, intent, method)
	return args.Error(0)
}

// MockUserImageRepository is a mock implementation of identity.UserImageRepository
type MockUserImageRepository struct {
	mock.Mock
}

func (m *MockUserImageRepository) Create(ctx context.Context, actorID int64, image *identity.UserImage) error {
	args := m.Called(ctx, actorID, image)
	return args.Error(0)
}

func (m *MockUserImageRepository) FindLatestActive(ctx context.Context, userID int64) (*identity.UserImage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserImage), args.Error(1)
}

// MockBrandProfileRepository is a mock implementation of brand.BrandProfileRepository
type MockBrandProfileRepository struct {
	mock.Mock
}

func (m *MockBrandProfileRepository) Create(ctx context.Context, profile *brand.BrandProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockBrandProfileRepository) Update(ctx context.Context, profile *brand.BrandProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockBrandProfileRepository) SoftDelete(ctx context.Context, id, actorID int64) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockBrandProfileRepository) FindByID(ctx context.Context, id int64) (*brand.BrandProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brand.BrandProfile), args.Error(1)
}

func (m *MockBrandProfileRepository) FindAllActive(ctx context.Context) ([]*brand.BrandProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*brand.BrandProfile), args.Error(1)
}

func (m *MockBrandProfileRepository) ExistsActiveByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrandProfileRepository) CreatePlan(ctx context.Context, plan *brand.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockBrandProfileRepository) UpdatePlan(ctx context.Context, plan *brand.Plan, insertMenuGroupIDs, deleteMenuGroupIDs []int64) error {
	args := m.Called(ctx, plan, insertMenuGroupIDs, deleteMenuGroupIDs)
	return args.Error(0)
}

func (m *MockBrandProfileRepository) FindPlansByBrandProfile(ctx context.Context, brandProfileID int64) ([]*brand.Plan, error) {
	args := m.Called(ctx, brandProfileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*brand.Plan), args.Error(1)
}

func (m *MockBrandProfileRepository) FindPlanByID(ctx context.Context, id int64) (*brand.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brand.Plan), args.Error(1)
}

// =============================================================================
// Mock Collaborators
// =============================================================================

// MockIdentityProvider is a mock implementation of IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CreateUser(ctx context.Context, username, email, firstName, lastName, password string) (string, error) {
	args := m.Called(ctx, username, email, firstName, lastName, password)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) SetPassword(ctx context.Context, providerUserID, password string) error {
	args := m.Called(ctx, providerUserID, password)
	return args.Error(0)
}

func (m *MockIdentityProvider) DeleteUser(ctx context.Context, providerUserID string) error {
	args := m.Called(ctx, providerUserID)
	return args.Error(0)
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(ctx context.Context, mail OTPMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) BucketName() string {
	args := m.Called()
	return args.String(0)
}

// MockOTPLimiter is a mock implementation of OTPLimiter
type MockOTPLimiter struct {
	mock.Mock
}

func (m *MockOTPLimiter) AllowResend(ctx context.Context, userID int64, intent string) (bool, error) {
	args := m.Called(ctx, userID, intent)
	return args.Bool(0), args.Error(1)
}
