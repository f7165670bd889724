// Package authz evaluates the stored per-user permission matrix. Checks
// read the persisted flags directly and never re-derive them from the
// role; the role only matters for the job ownership overlay.
package authz

import (
	"github.com/signgroup/workshop-api/internal/domain"
)

// Module names one of the four permissioned areas
type Module string

const (
	ModuleJobs       Module = "jobs"
	ModuleFinancials Module = "financials"
	ModuleItems      Module = "items"
	ModuleUsers      Module = "users"
)

// Action names one of the four CRUD flags
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Can reports whether the user's stored flags grant the action on the
// module. Unknown module or action names deny.
func Can(user *domain.User, module Module, action Action) bool {
	if user == nil {
		return false
	}
	var set domain.PermissionSet
	switch module {
	case ModuleJobs:
		set = user.Permissions.Jobs
	case ModuleFinancials:
		set = user.Permissions.Financials
	case ModuleItems:
		set = user.Permissions.Items
	case ModuleUsers:
		set = user.Permissions.Users
	default:
		return false
	}
	switch action {
	case ActionView:
		return set.View
	case ActionCreate:
		return set.Create
	case ActionEdit:
		return set.Edit
	case ActionDelete:
		return set.Delete
	default:
		return false
	}
}

// CanEditJob layers the ownership rule over the jobs.edit flag: a
// non-admin may only edit jobs where they are the recorded salesperson.
func CanEditJob(user *domain.User, job *domain.Job) bool {
	if !Can(user, ModuleJobs, ActionEdit) {
		return false
	}
	if user.Role == domain.RoleAdmin {
		return true
	}
	return job != nil && job.SalespersonID == user.ID
}

// CanDeleteJob requires both the jobs.delete flag and the admin role.
// Non-admins never delete jobs, whatever their flags say.
func CanDeleteJob(user *domain.User, job *domain.Job) bool {
	return Can(user, ModuleJobs, ActionDelete) && user.Role == domain.RoleAdmin
}
