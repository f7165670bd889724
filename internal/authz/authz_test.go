package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/signgroup/workshop-api/internal/authz"
	"github.com/signgroup/workshop-api/internal/domain"
)

func userWithRole(role domain.UserRole) *domain.User {
	return &domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Role:        role,
		Permissions: domain.DefaultPermissionsForRole(role),
	}
}

func TestCan(t *testing.T) {
	t.Run("reads the stored flags, not the role", func(t *testing.T) {
		// A designer granted extra flags keeps them even though the
		// role default would deny.
		user := userWithRole(domain.RoleDesigner)
		user.Permissions.Financials.View = true

		assert.True(t, authz.Can(user, authz.ModuleFinancials, authz.ActionView))
		assert.False(t, authz.Can(user, authz.ModuleFinancials, authz.ActionEdit))
	})

	t.Run("admin defaults grant everything", func(t *testing.T) {
		user := userWithRole(domain.RoleAdmin)
		for _, m := range []authz.Module{authz.ModuleJobs, authz.ModuleFinancials, authz.ModuleItems, authz.ModuleUsers} {
			for _, a := range []authz.Action{authz.ActionView, authz.ActionCreate, authz.ActionEdit, authz.ActionDelete} {
				assert.True(t, authz.Can(user, m, a), "%s.%s", m, a)
			}
		}
	})

	t.Run("denies unknown module or action", func(t *testing.T) {
		user := userWithRole(domain.RoleAdmin)
		assert.False(t, authz.Can(user, authz.Module("reports"), authz.ActionView))
		assert.False(t, authz.Can(user, authz.ModuleJobs, authz.Action("approve")))
	})

	t.Run("denies nil user", func(t *testing.T) {
		assert.False(t, authz.Can(nil, authz.ModuleJobs, authz.ActionView))
	})
}

func TestCanEditJob(t *testing.T) {
	owner := userWithRole(domain.RoleSales)
	other := userWithRole(domain.RoleSales)
	job := &domain.Job{SalespersonID: owner.ID}

	t.Run("owning salesperson with edit flag may edit", func(t *testing.T) {
		assert.True(t, authz.CanEditJob(owner, job))
	})

	t.Run("non-owning salesperson is denied despite edit flag", func(t *testing.T) {
		assert.True(t, other.Permissions.Jobs.Edit)
		assert.False(t, authz.CanEditJob(other, job))
	})

	t.Run("admin may edit any job", func(t *testing.T) {
		admin := userWithRole(domain.RoleAdmin)
		assert.True(t, authz.CanEditJob(admin, job))
	})

	t.Run("missing edit flag denies even the owner", func(t *testing.T) {
		restricted := userWithRole(domain.RoleSales)
		restricted.Permissions.Jobs.Edit = false
		ownJob := &domain.Job{SalespersonID: restricted.ID}
		assert.False(t, authz.CanEditJob(restricted, ownJob))
	})
}

func TestCanDeleteJob(t *testing.T) {
	job := &domain.Job{SalespersonID: uuid.New()}

	t.Run("requires both the delete flag and the admin role", func(t *testing.T) {
		admin := userWithRole(domain.RoleAdmin)
		assert.True(t, authz.CanDeleteJob(admin, job))

		flagless := userWithRole(domain.RoleAdmin)
		flagless.Permissions.Jobs.Delete = false
		assert.False(t, authz.CanDeleteJob(flagless, job))
	})

	t.Run("non-admin with delete flag is still denied", func(t *testing.T) {
		sales := userWithRole(domain.RoleSales)
		sales.Permissions.Jobs.Delete = true
		ownJob := &domain.Job{SalespersonID: sales.ID}
		assert.False(t, authz.CanDeleteJob(sales, ownJob))
	})
}
