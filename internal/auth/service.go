package auth

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/tenant"
	"github.com/frahmantamala/project-management/internal/user"
)

// UserStore is the part of the user service that authentication needs.
type UserStore interface {
	GetByEmail(tenantID, email string) (*user.User, error)
	VerifyPassword(u *user.User, plain string) bool
	SetPassword(tenantID string, id int64, newPassword string) error
}

// Service holds the single CLI session. The session user is stored, without
// its password hash, under the shared auth_user key.
type Service struct {
	users    UserStore
	registry *tenant.Registry
	logger   *slog.Logger
}

func NewService(users UserStore, registry *tenant.Registry, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		registry: registry,
		logger:   logger,
	}
}

// Login verifies the credentials, activates the user's tenant and starts a
// session.
func (s *Service) Login(dto LoginDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	tenantID := dto.TenantID
	if tenantID == "" {
		tenantID = tenant.IDFromEmail(dto.Email)
	}

	t, err := s.registry.Lookup(tenantID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(tenantID, dto.Email)
	if err != nil {
		return nil, err
	}
	if !s.users.VerifyPassword(u, dto.Password) {
		s.logger.Warn("login failed: wrong password", "tenant_id", tenantID, "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, internal.ErrInactiveAccount
	}
	if u.PasswordResetRequired {
		return nil, internal.ErrPasswordResetRequired
	}

	previous := s.registry.CurrentTenant()
	if err := s.registry.SetTenant(t); err != nil {
		return nil, fmt.Errorf("failed to activate tenant: %w", err)
	}
	session := u.Public()
	if err := s.registry.SetAppData(tenant.KeySession, session); err != nil {
		s.restoreTenant(previous)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("user logged in", "tenant_id", tenantID, "user_id", u.ID)
	return session, nil
}

// restoreTenant puts back the tenant that was active before a failed login,
// so the existing session keeps acting on its own data.
func (s *Service) restoreTenant(previous *tenant.Tenant) {
	var err error
	if previous == nil {
		err = s.registry.ClearCurrent()
	} else {
		err = s.registry.SetTenant(previous)
	}
	if err != nil {
		s.logger.Error("failed to restore tenant after login failure", "error", err)
	}
}

func (s *Service) Logout() error {
	if err := s.registry.RemoveAppData(tenant.KeySession); err != nil {
		return err
	}
	s.logger.Info("user logged out")
	return nil
}

// CurrentUser is the session user, nil when nobody is logged in.
func (s *Service) CurrentUser() *user.User {
	var u user.User
	if !s.registry.GetAppData(tenant.KeySession, &u) {
		return nil
	}
	return &u
}

func (s *Service) IsAuthenticated() bool {
	u := s.CurrentUser()
	return u != nil && u.IsActive()
}

func (s *Service) HasPermission(action user.Action, resource user.Resource) bool {
	u := s.CurrentUser()
	return u != nil && u.Can(action, resource)
}

// CompletePasswordReset swaps a temporary password for a new one.
func (s *Service) CompletePasswordReset(dto PasswordResetDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return internal.ErrPasswordMismatch
	}
	tenantID := dto.TenantID
	if tenantID == "" {
		tenantID = tenant.IDFromEmail(dto.Email)
	}
	u, err := s.users.GetByEmail(tenantID, dto.Email)
	if err != nil {
		return err
	}
	if !s.users.VerifyPassword(u, dto.CurrentPassword) {
		return internal.ErrCurrentPassword
	}
	if err := s.users.SetPassword(tenantID, u.ID, dto.NewPassword); err != nil {
		return err
	}
	s.logger.Info("password reset completed", "tenant_id", tenantID, "user_id", u.ID)
	return nil
}

// RecoverAdminPassword sets a new password for an administrator who can name
// the organization's company and domain.
func (s *Service) RecoverAdminPassword(dto RecoveryDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return internal.ErrPasswordMismatch
	}

	tenantID := tenant.IDFromEmail(dto.Email)
	t, err := s.registry.Lookup(tenantID)
	if err != nil {
		s.logger.Warn("recovery failed: unknown organization", "tenant_id", tenantID)
		return internal.ErrRecoveryFailed
	}
	u, err := s.users.GetByEmail(tenantID, dto.Email)
	if err != nil || !u.IsAdmin() {
		s.logger.Warn("recovery failed: not an administrator", "tenant_id", tenantID)
		return internal.ErrRecoveryFailed
	}
	if !sameAnswer(dto.CompanyName, t.Settings.CompanyName) || !sameAnswer(dto.Domain, t.Settings.Domain) {
		s.logger.Warn("recovery failed: answers do not match", "tenant_id", tenantID, "user_id", u.ID)
		return internal.ErrRecoveryFailed
	}

	if err := s.users.SetPassword(tenantID, u.ID, dto.NewPassword); err != nil {
		return err
	}
	s.logger.Info("administrator password recovered", "tenant_id", tenantID, "user_id", u.ID)
	return nil
}

func sameAnswer(given, want string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(want))
}
