package user

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if slices.Contains([]Status{StatusActive, StatusInactive, StatusPending}, s) {
		return s, nil
	}
	return "", internal.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", v), internal.ErrCodeInvalidStatus)
}

type User struct {
	ID                    int64       `json:"id"`
	Email                 string      `json:"email"`
	Name                  string      `json:"name"`
	PasswordHash          string      `json:"passwordHash,omitempty"`
	Role                  Role        `json:"role"`
	TenantID              string      `json:"tenantId"`
	Permissions           Permissions `json:"permissions"`
	Status                Status      `json:"status"`
	PasswordResetRequired bool        `json:"passwordResetRequired,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
}

func (u *User) Can(action Action, resource Resource) bool {
	return u.Permissions.Allows(action, resource)
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public is a copy safe to persist as the session user.
func (u *User) Public() *User {
	cp := *u
	cp.PasswordHash = ""
	cp.Permissions = u.Permissions.clone()
	return &cp
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
