package user

import (
	"github.com/frahmantamala/project-management/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	// Status defaults to active.
	Status string `json:"status,omitempty"`
	// PasswordResetRequired forces a password change on first login.
	PasswordResetRequired bool `json:"passwordResetRequired,omitempty"`
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("password", d.Password).Required().MinLength(6).MaxLength(72)
	v.Field("role", d.Role).Required()
	return v.Err()
}

// UpdateUserDTO changes only the fields that are set.
type UpdateUserDTO struct {
	Email  *string `json:"email,omitempty"`
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email()
	}
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(100)
	}
	return v.Err()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("currentPassword", d.CurrentPassword).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(6).MaxLength(72)
	return v.Err()
}
