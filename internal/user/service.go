package user

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/validation"
	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/core/password"
)

const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyz23456789"

type Service struct {
	repo   Repository
	hasher password.Hasher
	ids    idgen.Generator
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, hasher password.Hasher, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) List(tenantID string) ([]User, error) {
	users, err := s.repo.List(tenantID)
	if err != nil {
		s.logger.Error("failed to list users", "tenant_id", tenantID, "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByID(tenantID string, id int64) (*User, error) {
	users, err := s.List(tenantID)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (s *Service) GetByEmail(tenantID, email string) (*User, error) {
	users, err := s.List(tenantID)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if sameEmail(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (s *Service) Create(tenantID string, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	role, err := ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	status := StatusActive
	if dto.Status != "" {
		if status, err = ParseStatus(dto.Status); err != nil {
			return nil, err
		}
	}
	perms, err := DefaultPermissions(role)
	if err != nil {
		return nil, err
	}

	users, err := s.List(tenantID)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(users, func(u User) bool { return sameEmail(u.Email, dto.Email) }) {
		return nil, internal.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := User{
		ID:                    s.ids.Next(),
		Email:                 strings.TrimSpace(dto.Email),
		Name:                  strings.TrimSpace(dto.Name),
		PasswordHash:          hash,
		Role:                  role,
		TenantID:              tenantID,
		Permissions:           perms,
		Status:                status,
		PasswordResetRequired: dto.PasswordResetRequired,
		CreatedAt:             s.now().UTC(),
	}
	users = append(users, u)
	if err := s.repo.Save(tenantID, users); err != nil {
		s.logger.Error("failed to save users", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "tenant_id", tenantID, "user_id", u.ID, "role", u.Role)
	return &u, nil
}

// Update applies dto to the user. A role change resets permissions to the
// new role's defaults.
func (s *Service) Update(tenantID string, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.modify(tenantID, id, func(users []User, u *User) error {
		if dto.Email != nil && !sameEmail(*dto.Email, u.Email) {
			if slices.ContainsFunc(users, func(o User) bool { return o.ID != id && sameEmail(o.Email, *dto.Email) }) {
				return internal.ErrDuplicateEmail
			}
			u.Email = strings.TrimSpace(*dto.Email)
		}
		if dto.Name != nil {
			u.Name = strings.TrimSpace(*dto.Name)
		}
		if dto.Role != nil {
			role, err := ParseRole(*dto.Role)
			if err != nil {
				return err
			}
			if role != u.Role {
				perms, err := DefaultPermissions(role)
				if err != nil {
					return err
				}
				u.Role = role
				u.Permissions = perms
			}
		}
		if dto.Status != nil {
			status, err := ParseStatus(*dto.Status)
			if err != nil {
				return err
			}
			u.Status = status
		}
		return nil
	})
}

// Delete removes the user. actingUserID may not delete itself.
func (s *Service) Delete(tenantID string, id, actingUserID int64) error {
	if id == actingUserID {
		return internal.ErrCannotDeleteSelf
	}
	users, err := s.List(tenantID)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(users, func(u User) bool { return u.ID == id })
	if idx < 0 {
		return internal.ErrUserNotFound
	}
	users = slices.Delete(users, idx, idx+1)
	if err := s.repo.Save(tenantID, users); err != nil {
		return err
	}
	s.logger.Info("user deleted", "tenant_id", tenantID, "user_id", id)
	return nil
}

func (s *Service) VerifyPassword(u *User, plain string) bool {
	return s.hasher.Compare(u.PasswordHash, plain)
}

func (s *Service) ChangePassword(tenantID string, id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return internal.ErrPasswordMismatch
	}
	_, err := s.modify(tenantID, id, func(_ []User, u *User) error {
		if !s.hasher.Compare(u.PasswordHash, dto.CurrentPassword) {
			return internal.ErrCurrentPassword
		}
		return s.setPassword(u, dto.NewPassword)
	})
	return err
}

// SetPassword replaces the password without checking the old one and
// clears any pending reset.
func (s *Service) SetPassword(tenantID string, id int64, newPassword string) error {
	if appErr := validation.ValidatePassword(newPassword); appErr != nil {
		return appErr
	}
	_, err := s.modify(tenantID, id, func(_ []User, u *User) error {
		return s.setPassword(u, newPassword)
	})
	return err
}

// ResetPassword assigns a random temporary password, which the user must
// change at next login. The temporary password is returned once.
func (s *Service) ResetPassword(tenantID string, id int64) (string, error) {
	temp, err := temporaryPassword(8)
	if err != nil {
		return "", internal.NewInternalError("failed to generate password", err)
	}
	_, err = s.modify(tenantID, id, func(_ []User, u *User) error {
		if err := s.setPassword(u, temp); err != nil {
			return err
		}
		u.PasswordResetRequired = true
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("user password reset", "tenant_id", tenantID, "user_id", id)
	return temp, nil
}

func (s *Service) setPassword(u *User, plain string) error {
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	u.PasswordHash = hash
	u.PasswordResetRequired = false
	return nil
}

func (s *Service) modify(tenantID string, id int64, fn func(users []User, u *User) error) (*User, error) {
	users, err := s.List(tenantID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(users, func(u User) bool { return u.ID == id })
	if idx < 0 {
		return nil, internal.ErrUserNotFound
	}
	updated := users[idx]
	updated.Permissions = updated.Permissions.clone()
	if err := fn(users, &updated); err != nil {
		return nil, err
	}
	users[idx] = updated
	if err := s.repo.Save(tenantID, users); err != nil {
		s.logger.Error("failed to save users", "tenant_id", tenantID, "error", err)
		return nil, err
	}
	return &updated, nil
}

func temporaryPassword(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(tempPasswordAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
