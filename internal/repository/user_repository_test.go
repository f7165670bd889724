package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signgroup/workshop-api/internal/domain"
	"github.com/signgroup/workshop-api/internal/repository"
)

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "kari", domain.RoleSales)

	user, err := repo.GetByEmail(ctx, "KARI@SIGNGROUP.TEST")
	require.NoError(t, err)
	assert.Equal(t, "kari", user.Name)
}

func TestUserRepository_EmailExists(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	existing := seedUser(t, db, "kari", domain.RoleSales)

	taken, err := repo.EmailExists(ctx, "kari@signgroup.test", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	// The owner of the address is excluded when editing their own account.
	taken, err = repo.EmailExists(ctx, "kari@signgroup.test", existing.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailExists(ctx, "free@signgroup.test", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_PermissionFlagsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "custom", domain.RoleDesigner)
	user.Permissions.Financials.View = true
	require.NoError(t, repo.Update(ctx, user))

	loaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Permissions.Financials.View, "stored flags may diverge from the role defaults")
	assert.True(t, loaded.Permissions.Jobs.View)
	assert.False(t, loaded.Permissions.Jobs.Create)
}
