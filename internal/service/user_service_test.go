package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/signgroup/workshop-api/internal/auth"
	"github.com/signgroup/workshop-api/internal/config"
	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
	"github.com/signgroup/workshop-api/internal/service"
)

func newUserService(t *testing.T, db *gorm.DB) *service.UserService {
	t.Helper()
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  1,
		Issuer:    "workshop-api-test",
	})
	require.NoError(t, err)
	return service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewJobRepository(db),
		tokens,
		zap.NewNop(),
	)
}

func seedAccount(t *testing.T, db *gorm.DB, name, password string, role domain.UserRole, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Name:         name,
		Email:        name + "@signgroup.test",
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  domain.DefaultPermissionsForRole(role),
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserService_Login_Succeeds(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	seedAccount(t, db, "kari", "hunter2pass", domain.RoleAdmin, true)

	resp, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "kari@signgroup.test",
		Password: "hunter2pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.Equal(t, "kari", resp.User.Name)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
}

func TestUserService_Login_FailuresAreIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)
	seedAccount(t, db, "gone", "hunter2pass", domain.RoleSales, false)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@signgroup.test", "hunter2pass"},
		{"wrong password", "kari@signgroup.test", "wrong"},
		{"deactivated account", "gone@signgroup.test", "hunter2pass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &domain.LoginRequest{Email: tc.email, Password: tc.pass})
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestUserService_UpdateProfile_WrongCurrentPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)
	actor := auth.NewUserContext(user)

	_, err := svc.UpdateProfile(ctx, actor, &domain.UpdateProfileRequest{
		Name:            "Kari Renamed",
		Email:           "kari@signgroup.test",
		CurrentPassword: "not-it",
	})
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	// Nothing changed.
	reloaded, err := repository.NewUserRepository(db).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kari", reloaded.Name)
}

func TestUserService_UpdateProfile_ChangesPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	user := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)
	actor := auth.NewUserContext(user)

	_, err := svc.UpdateProfile(ctx, actor, &domain.UpdateProfileRequest{
		Name:            "Kari",
		Email:           "kari@signgroup.test",
		CurrentPassword: "hunter2pass",
		NewPassword:     "a-new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "kari@signgroup.test",
		Password: "a-new-password",
	})
	assert.NoError(t, err)
}

func TestUserService_Create_AppliesRoleDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))

	created, err := svc.Create(ctx, admin, &domain.CreateUserRequest{
		Name:     "New Sales",
		Email:    "newsales@signgroup.test",
		Password: "hunter2pass",
		Role:     domain.RoleSales,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.True(t, created.Permissions.Jobs.View)
	assert.True(t, created.Permissions.Jobs.Create)
	assert.True(t, created.Permissions.Jobs.Edit)
	assert.False(t, created.Permissions.Jobs.Delete)
	assert.True(t, created.Permissions.Items.View)
	assert.False(t, created.Permissions.Financials.View)
	assert.False(t, created.Permissions.Users.View)
}

func TestUserService_Create_ExplicitPermissionsWin(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))

	perms := domain.DefaultPermissionsForRole(domain.RoleDesigner)
	perms.Financials.View = true
	created, err := svc.Create(ctx, admin, &domain.CreateUserRequest{
		Name:        "Trusted Designer",
		Email:       "designer@signgroup.test",
		Password:    "hunter2pass",
		Role:        domain.RoleDesigner,
		Permissions: &perms,
	})
	require.NoError(t, err)
	assert.True(t, created.Permissions.Financials.View)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))
	seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)

	_, err := svc.Create(ctx, admin, &domain.CreateUserRequest{
		Name:     "Duplicate",
		Email:    "kari@signgroup.test",
		Password: "hunter2pass",
		Role:     domain.RoleSales,
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestUserService_Create_DeniedWithoutFlag(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)

	sales := auth.NewUserContext(seedAccount(t, db, "sales", "hunter2pass", domain.RoleSales, true))

	_, err := svc.Create(context.Background(), sales, &domain.CreateUserRequest{
		Name:     "Someone",
		Email:    "someone@signgroup.test",
		Password: "hunter2pass",
		Role:     domain.RoleSales,
	})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestUserService_Update_RoleChangeResetsPermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))
	target := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)

	updated, err := svc.Update(ctx, admin, target.ID, &domain.UpdateUserRequest{
		Name:  "Kari",
		Email: "kari@signgroup.test",
		Role:  domain.RoleDesigner,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDesigner, updated.Role)
	assert.False(t, updated.Permissions.Jobs.Create, "omitting permissions resets to the new role's defaults")
	assert.True(t, updated.Permissions.Jobs.View)
}

func TestUserService_Update_ExplicitPermissionsOverrideRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))
	target := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)

	perms := domain.DefaultPermissionsForRole(domain.RoleDesigner)
	perms.Jobs.Create = true
	updated, err := svc.Update(ctx, admin, target.ID, &domain.UpdateUserRequest{
		Name:        "Kari",
		Email:       "kari@signgroup.test",
		Role:        domain.RoleDesigner,
		Permissions: &perms,
	})
	require.NoError(t, err)
	assert.True(t, updated.Permissions.Jobs.Create)
}

func TestUserService_Delete_SelfDeleteRefused(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))

	err := svc.Delete(context.Background(), admin, admin.UserID)
	assert.ErrorIs(t, err, service.ErrSelfDelete)
}

func TestUserService_Delete_RefusedWhileOwningJobs(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	admin := auth.NewUserContext(seedAccount(t, db, "admin", "hunter2pass", domain.RoleAdmin, true))
	target := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)

	jobRepo := repository.NewJobRepository(db)
	require.NoError(t, jobRepo.Create(ctx, &domain.Job{
		ClientName:    "Owned Job",
		Stage:         domain.StageQuotationSent,
		SalespersonID: target.ID,
	}))

	err := svc.Delete(ctx, admin, target.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	require.NoError(t, jobRepo.Delete(ctx, mustOwnedJobID(t, db, target.ID)))
	assert.NoError(t, svc.Delete(ctx, admin, target.ID))
}

func TestUserService_List_StoredFlagGovernsNotRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(t, db)
	ctx := context.Background()

	granted := seedAccount(t, db, "kari", "hunter2pass", domain.RoleSales, true)
	granted.Permissions.Users = domain.PermissionSet{View: true}
	require.NoError(t, db.Save(granted).Error)

	plain := seedAccount(t, db, "ola", "hunter2pass", domain.RoleSales, true)

	users, err := svc.List(ctx, auth.NewUserContext(granted))
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.List(ctx, auth.NewUserContext(plain))
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func mustOwnedJobID(t *testing.T, db *gorm.DB, salespersonID uuid.UUID) uuid.UUID {
	t.Helper()
	var job domain.Job
	require.NoError(t, db.Where("salesperson_id = ?", salespersonID).First(&job).Error)
	return job.ID
}
