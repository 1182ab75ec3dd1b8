package user

import (
	"fmt"
	"slices"

	"github.com/frahmantamala/project-management/internal"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleUser}
}

func ParseRole(v string) (Role, error) {
	r := Role(v)
	if slices.Contains(Roles(), r) {
		return r, nil
	}
	return "", internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", v), internal.ErrCodeInvalidRole)
}

type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceProjects Resource = "projects"
	ResourceTasks    Resource = "tasks"
	ResourceSettings Resource = "settings"
)

func Resources() []Resource {
	return []Resource{ResourceUsers, ResourceProjects, ResourceTasks, ResourceSettings}
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
}

var crud = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Permissions maps each resource to the actions allowed on it.
type Permissions map[Resource][]Action

// Allows is true iff action is listed under resource. Unknown resources
// allow nothing.
func (p Permissions) Allows(action Action, resource Resource) bool {
	return slices.Contains(p[resource], action)
}

func (p Permissions) clone() Permissions {
	out := make(Permissions, len(p))
	for r, actions := range p {
		out[r] = slices.Clone(actions)
	}
	return out
}

var roleDefaults = map[Role]Permissions{
	RoleAdmin: {
		ResourceUsers:    crud,
		ResourceProjects: crud,
		ResourceTasks:    crud,
		ResourceSettings: {ActionRead, ActionUpdate},
	},
	RoleManager: {
		ResourceUsers:    {ActionRead},
		ResourceProjects: {ActionCreate, ActionRead, ActionUpdate},
		ResourceTasks:    crud,
		ResourceSettings: {ActionRead},
	},
	RoleUser: {
		ResourceUsers:    {ActionRead},
		ResourceProjects: {ActionRead},
		ResourceTasks:    {ActionCreate, ActionRead, ActionUpdate},
		ResourceSettings: {ActionRead},
	},
}

// DefaultPermissions returns a fresh copy of the role's permission table.
func DefaultPermissions(role Role) (Permissions, error) {
	perms, ok := roleDefaults[role]
	if !ok {
		return nil, internal.NewValidationFieldError("role", fmt.Sprintf("unknown role %q", role), internal.ErrCodeInvalidRole)
	}
	return perms.clone(), nil
}
