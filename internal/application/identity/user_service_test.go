package identity

import (
	"context"
	"testing"
	"time"

	"github.com/mealportal/backend/internal/domain/brand"
	"github.com/mealportal/backend/internal/domain/identity"
	"github.com/mealportal/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userServiceMocks struct {
	userRepo  *MockUserRepository
	roleRepo  *MockRoleRepository
	imageRepo *MockUserImageRepository
	brandRepo *MockBrandProfileRepository
	otpRepo   *MockOTPRepository
	provider  *MockIdentityProvider
	mailer    *MockMailer
	limiter   *MockOTPLimiter
}

func newUserServiceForTest() (*UserService, *userServiceMocks) {
	service, m, _ := newUserServiceWithStorage()
	return service, m
}

func newUserServiceWithStorage() (*UserService, *userServiceMocks, *MockObjectStorage) {
	m := &userServiceMocks{
		userRepo:  new(MockUserRepository),
		roleRepo:  new(MockRoleRepository),
		imageRepo: new(MockUserImageRepository),
		brandRepo: new(MockBrandProfileRepository),
		otpRepo:   new(MockOTPRepository),
		provider:  new(MockIdentityProvider),
		mailer:    new(MockMailer),
		limiter:   new(MockOTPLimiter),
	}
	otpService := NewOTPService(m.otpRepo, m.userRepo, m.provider, m.mailer, m.limiter, zap.NewNop())
	storage := new(MockObjectStorage)
	service := NewUserService(m.userRepo, m.roleRepo, m.imageRepo, m.brandRepo, otpService, m.provider, storage, zap.NewNop())
	return service, m, storage
}

func catalogRole(id int64, name string) *identity.Role {
	role := &identity.Role{RoleName: name}
	role.ID = id
	return role
}

func TestUserService_Create_Success(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.roleRepo.On("FindByIDs", ctx, []int64{1}).Return([]*identity.Role{catalogRole(1, "admin")}, nil)
	m.userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User"), mock.AnythingOfType("[]identity.ModuleAccessGrant")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 7
		}).Return(nil)
	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.otpRepo.On("ExpireActive", ctx, int64(7), identity.IntentUserSignup, identity.ContactMethodEmail).Return(nil)
	m.otpRepo.On("Create", ctx, mock.AnythingOfType("*identity.OneTimePassword")).Return(nil)
	m.mailer.On("SendOTP", ctx, mock.AnythingOfType("identity.OTPMail")).Return(nil)
	m.otpRepo.On("Update", ctx, mock.AnythingOfType("*identity.OneTimePassword")).Return(nil)

	userID, err := service.Create(ctx, 1, CreateUserInput{
		FirstNamesEn: "John",
		LastNameEn:   "Doe",
		FirstNamesAr: "جون",
		LastNameAr:   "دو",
		PhoneNr:      "1234567890",
		Email:        "john.doe@something.com",
		RoleIDList:   []int64{1},
		BrandProfileList: []BrandProfileAccessInput{
			{BrandProfileID: 1, ModuleAccessIDList: []int64{1}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	m.userRepo.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func TestUserService_Create_GrantRows(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	var captured []identity.ModuleAccessGrant
	m.userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User"), mock.AnythingOfType("[]identity.ModuleAccessGrant")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 7
			captured = args.Get(2).([]identity.ModuleAccessGrant)
		}).Return(nil)
	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.otpRepo.On("ExpireActive", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.otpRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.mailer.On("SendOTP", ctx, mock.Anything).Return(nil)
	m.otpRepo.On("Update", ctx, mock.Anything).Return(nil)

	_, err := service.Create(ctx, 1, CreateUserInput{
		FirstNamesEn: "John",
		LastNameEn:   "Doe",
		Email:        "john.doe@something.com",
		BrandProfileList: []BrandProfileAccessInput{
			{BrandProfileID: 3, ModuleAccessIDList: []int64{1, 2}},
		},
	})

	require.NoError(t, err)
	require.Len(t, captured, 2)
	require.NotNil(t, captured[0].BrandProfileID)
	assert.Equal(t, int64(3), *captured[0].BrandProfileID)
	assert.Equal(t, int64(1), captured[0].ModuleAccessID)
	assert.Equal(t, int64(2), captured[1].ModuleAccessID)
}

func TestUserService_Create_AllBrandAccessSentinel(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	var captured []identity.ModuleAccessGrant
	m.userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User"), mock.AnythingOfType("[]identity.ModuleAccessGrant")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 7
			captured = args.Get(2).([]identity.ModuleAccessGrant)
		}).Return(nil)
	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.otpRepo.On("ExpireActive", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.otpRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.mailer.On("SendOTP", ctx, mock.Anything).Return(nil)
	m.otpRepo.On("Update", ctx, mock.Anything).Return(nil)

	_, err := service.Create(ctx, 1, CreateUserInput{
		FirstNamesEn:          "John",
		LastNameEn:            "Doe",
		Email:                 "john.doe@something.com",
		AllBrandProfileAccess: true,
		ModuleAccessIDList:    []int64{1, 4},
	})

	require.NoError(t, err)
	require.Len(t, captured, 2)
	assert.Nil(t, captured[0].BrandProfileID)
	assert.Nil(t, captured[1].BrandProfileID)
}

func TestUserService_Update_ReconcilesGrants(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	bpOne := int64(1)
	existing := []identity.ModuleAccessGrant{
		{AuditedEntity: shared.NewAuditedEntity(1), UserID: 7, BrandProfileID: &bpOne, ModuleAccessID: 1},
		{AuditedEntity: shared.NewAuditedEntity(1), UserID: 7, BrandProfileID: &bpOne, ModuleAccessID: 2},
	}

	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.roleRepo.On("FindByIDs", ctx, []int64{1}).Return([]*identity.Role{catalogRole(1, "admin")}, nil)
	m.userRepo.On("Update", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	m.userRepo.On("ReplaceRoles", ctx, mock.AnythingOfType("*identity.User"), int64(1)).Return(nil)
	m.userRepo.On("LoadGrants", ctx, int64(7)).Return(existing, nil)

	var inserted, deleted []identity.ModuleAccessGrant
	m.userRepo.On("ApplyGrantChanges", ctx, int64(7), int64(1),
		mock.AnythingOfType("[]identity.ModuleAccessGrant"),
		mock.AnythingOfType("[]identity.ModuleAccessGrant")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(3).([]identity.ModuleAccessGrant)
			deleted = args.Get(4).([]identity.ModuleAccessGrant)
		}).Return(nil)

	err := service.Update(ctx, 1, 7, UpdateUserInput{
		FirstNamesEn: "John",
		LastNameEn:   "Doe-1",
		Email:        "john.doe@something.com",
		RoleIDList:   []int64{1},
		BrandProfileList: []BrandProfileAccessInput{
			{BrandProfileID: 1, ModuleAccessIDList: []int64{2, 3}},
		},
	})

	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, int64(3), inserted[0].ModuleAccessID)
	require.Len(t, deleted, 1)
	assert.Equal(t, int64(1), deleted[0].ModuleAccessID)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.roleRepo.On("FindByIDs", ctx, []int64{1, 99}).Return([]*identity.Role{catalogRole(1, "admin")}, nil)

	_, err := service.Create(ctx, 1, CreateUserInput{
		FirstNamesEn: "John",
		LastNameEn:   "Doe",
		Email:        "john.doe@something.com",
		RoleIDList:   []int64{1, 99},
	})

	assert.Equal(t, shared.ErrUnknownRole, err)
	m.userRepo.AssertNotCalled(t, "Create")
}

func TestUserService_Update_UnknownRole(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.roleRepo.On("FindByIDs", ctx, []int64{99}).Return([]*identity.Role{}, nil)

	err := service.Update(ctx, 1, 7, UpdateUserInput{
		FirstNamesEn: "John",
		LastNameEn:   "Doe",
		Email:        "john.doe@something.com",
		RoleIDList:   []int64{99},
	})

	assert.Equal(t, shared.ErrUnknownRole, err)
	m.userRepo.AssertNotCalled(t, "Update")
	m.userRepo.AssertNotCalled(t, "ReplaceRoles")
}

func TestUserService_Update_NotFound(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.userRepo.On("FindByID", ctx, int64(99)).Return(nil, shared.ErrNotFound)

	err := service.Update(ctx, 1, 99, UpdateUserInput{})

	assert.Equal(t, shared.ErrUserNotFound, err)
}

func TestUserService_Get_GroupsGrantsByProfile(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	bpOne, bpTwo := int64(1), int64(2)
	grants := []identity.ModuleAccessGrant{
		{UserID: 7, BrandProfileID: &bpOne, BrandProfileName: "qoqo", ModuleID: 1, ModuleName: "menu", ModuleAccessID: 1, AccessLevel: "edit"},
		{UserID: 7, BrandProfileID: &bpOne, BrandProfileName: "qoqo", ModuleID: 2, ModuleName: "orders", ModuleAccessID: 2, AccessLevel: "view"},
		{UserID: 7, BrandProfileID: &bpTwo, BrandProfileName: "tolpin", ModuleID: 1, ModuleName: "menu", ModuleAccessID: 1, AccessLevel: "edit"},
	}

	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.userRepo.On("LoadRoles", ctx, mock.AnythingOfType("*identity.User")).
		Return([]identity.UserRole{{UserID: 7, RoleID: 1, RoleName: "admin"}}, nil)
	m.userRepo.On("LoadGrants", ctx, int64(7)).Return(grants, nil)
	m.imageRepo.On("FindLatestActive", ctx, int64(7)).Return(nil, shared.ErrNotFound)

	dto, err := service.Get(ctx, 7)

	require.NoError(t, err)
	assert.Nil(t, dto.Username)
	require.Len(t, dto.RoleList, 1)
	assert.Equal(t, "admin", dto.RoleList[0].RoleName)
	require.Len(t, dto.BrandProfileList, 2)
	assert.Equal(t, "qoqo", dto.BrandProfileList[0].BrandProfileName)
	assert.Len(t, dto.BrandProfileList[0].ModuleAccessList, 2)
	assert.Len(t, dto.BrandProfileList[1].ModuleAccessList, 1)
	assert.Nil(t, dto.UserImageURL)
}

func TestUserService_Get_AllBrandAccess(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	user := activeUser(7)
	user.AllBrandProfileAccess = true
	grants := []identity.ModuleAccessGrant{
		{UserID: 7, ModuleID: 1, ModuleName: "menu", ModuleAccessID: 1, AccessLevel: "edit"},
	}
	profiles := []*brand.BrandProfile{
		{BrandProfileName: "qoqo"},
		{BrandProfileName: "tolpin"},
	}
	profiles[0].ID = 1
	profiles[1].ID = 2

	m.userRepo.On("FindByID", ctx, int64(7)).Return(user, nil)
	m.userRepo.On("LoadRoles", ctx, user).Return([]identity.UserRole{}, nil)
	m.userRepo.On("LoadGrants", ctx, int64(7)).Return(grants, nil)
	m.brandRepo.On("FindAllActive", ctx).Return(profiles, nil)
	m.imageRepo.On("FindLatestActive", ctx, int64(7)).Return(nil, shared.ErrNotFound)

	dto, err := service.Get(ctx, 7)

	require.NoError(t, err)
	assert.True(t, dto.AllBrandProfileAccess)
	require.Len(t, dto.ModuleAccessList, 1)
	require.Len(t, dto.BrandProfileList, 2)
	assert.Equal(t, dto.ModuleAccessList, dto.BrandProfileList[0].ModuleAccessList)
}

func TestUserService_Get_WithImageURL(t *testing.T) {
	service, m, storage := newUserServiceWithStorage()
	ctx := context.Background()

	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.userRepo.On("LoadRoles", ctx, mock.Anything).Return([]identity.UserRole{}, nil)
	m.userRepo.On("LoadGrants", ctx, int64(7)).Return([]identity.ModuleAccessGrant{}, nil)
	m.imageRepo.On("FindLatestActive", ctx, int64(7)).
		Return(&identity.UserImage{UserID: 7, ImageObjectKey: "user-images/7/avatar.png"}, nil)
	storage.On("PresignGet", ctx, "user-images/7/avatar.png", time.Hour).
		Return("https://bucket.example/presigned", nil)

	dto, err := service.Get(ctx, 7)

	require.NoError(t, err)
	require.NotNil(t, dto.UserImageURL)
	assert.Equal(t, "https://bucket.example/presigned", *dto.UserImageURL)
}

func TestUserService_List(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.userRepo.On("FindAllActive", ctx).Return([]*identity.User{activeUser(7), activeUser(8)}, nil)

	users, err := service.List(ctx)

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(7), users[0].UserID)
}

func TestUserService_CheckUsernameAvailability(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.userRepo.On("ExistsByUsername", ctx, "john.doe").Return(false, nil)
	m.userRepo.On("ExistsByUsername", ctx, "taken").Return(true, nil)

	available, err := service.CheckUsernameAvailability(ctx, "john.doe")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = service.CheckUsernameAvailability(ctx, "taken")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestUserService_Delete_WithProviderAccount(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	user := activeUser(7)
	require.NoError(t, user.CompleteSignup("john.doe", "123456", "kc-uuid-1"))

	m.userRepo.On("FindByID", ctx, int64(7)).Return(user, nil)
	m.provider.On("DeleteUser", ctx, "kc-uuid-1").Return(nil)
	m.userRepo.On("SoftDelete", ctx, int64(7), int64(1)).Return(nil)

	err := service.Delete(ctx, 1, 7)

	require.NoError(t, err)
	m.provider.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
}

func TestUserService_Delete_UnverifiedUserSkipsProvider(t *testing.T) {
	service, m := newUserServiceForTest()
	ctx := context.Background()

	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	m.userRepo.On("SoftDelete", ctx, int64(7), int64(1)).Return(nil)

	err := service.Delete(ctx, 1, 7)

	require.NoError(t, err)
	m.provider.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestUserService_UploadImage(t *testing.T) {
	service, m, storage := newUserServiceWithStorage()
	ctx := context.Background()

	body := []byte{0x89, 0x50, 0x4e, 0x47}
	m.userRepo.On("FindByID", ctx, int64(7)).Return(activeUser(7), nil)
	storage.On("Upload", ctx, "user-images/7/avatar.png", "image/png", body).Return(nil)
	storage.On("BucketName").Return("mp-user-images")
	m.imageRepo.On("Create", ctx, int64(1), mock.AnythingOfType("*identity.UserImage")).Return(nil)
	storage.On("PresignGet", ctx, "user-images/7/avatar.png", time.Hour).
		Return("https://bucket.example/presigned", nil)

	result, err := service.UploadImage(ctx, 1, 7, "profile", "avatar.png", "image/png", body)

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/presigned", result.UserImageURL)
	storage.AssertExpectations(t)
	m.imageRepo.AssertExpectations(t)
}
