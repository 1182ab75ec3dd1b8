package auth

import (
	"github.com/frahmantamala/project-management/internal/core/common/validation"
)

// LoginDTO is what the login command collects. TenantID may be left empty,
// in which case it is derived from the email domain.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenantId"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Err()
}

// PasswordResetDTO completes a reset that an administrator started.
type PasswordResetDTO struct {
	Email           string `json:"email"`
	TenantID        string `json:"tenantId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (d PasswordResetDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("currentPassword", d.CurrentPassword).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(6).MaxLength(72)
	return v.Err()
}

// RecoveryDTO lets an administrator regain access by answering with the
// organization's company name and domain.
type RecoveryDTO struct {
	Email           string `json:"email"`
	CompanyName     string `json:"companyName"`
	Domain          string `json:"domain"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (d RecoveryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("companyName", d.CompanyName).Required()
	v.Field("domain", d.Domain).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(6).MaxLength(72)
	return v.Err()
}
