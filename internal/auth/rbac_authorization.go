package auth

import (
	"log/slog"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/user"
)

type SessionReader interface {
	CurrentUser() *user.User
}

// Authorizer gates commands on the session user's permissions.
type Authorizer struct {
	sessions SessionReader
	logger   *slog.Logger
}

func NewAuthorizer(sessions SessionReader, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticated returns the active session user or ErrUnauthenticated.
func (a *Authorizer) Authenticated() (*user.User, error) {
	u := a.sessions.CurrentUser()
	if u == nil {
		a.logger.Warn("authorization check failed: no session")
		return nil, internal.ErrUnauthenticated
	}
	if !u.IsActive() {
		a.logger.Warn("authorization check failed: inactive account", "user_id", u.ID)
		return nil, internal.ErrInactiveAccount
	}
	return u, nil
}

// Require returns the session user when it may perform action on resource.
func (a *Authorizer) Require(action user.Action, resource user.Resource) (*user.User, error) {
	u, err := a.Authenticated()
	if err != nil {
		return nil, err
	}
	if !u.Can(action, resource) {
		a.logger.Warn("access denied: insufficient permissions",
			"user_id", u.ID,
			"role", u.Role,
			"action", action,
			"resource", resource)
		return nil, internal.ErrForbidden
	}
	return u, nil
}

// RequireAdmin is for tenant-wide operations such as resetting its data.
func (a *Authorizer) RequireAdmin() (*user.User, error) {
	u, err := a.Authenticated()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		a.logger.Warn("access denied: administrator required", "user_id", u.ID, "role", u.Role)
		return nil, internal.ErrForbidden
	}
	return u, nil
}
