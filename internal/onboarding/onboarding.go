package onboarding

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/core/common/validation"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
	"github.com/frahmantamala/project-management/internal/tenant"
	"github.com/frahmantamala/project-management/internal/user"
)

// Demo tenant written by SeedDemo.
const (
	DemoDomain        = "demo.example.com"
	DemoCompany       = "Demo Company"
	DemoAdminEmail    = "admin@demo.example.com"
	DemoAdminPassword = "admin123"
)

type SignupDTO struct {
	CompanyName     string `json:"companyName"`
	Domain          string `json:"domain"`
	Industry        string `json:"industry"`
	Size            string `json:"size"`
	AdminName       string `json:"adminName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (d SignupDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("companyName", d.CompanyName).Required().MaxLength(100)
	v.Field("domain", d.Domain).Required().MaxLength(253)
	v.Field("adminName", d.AdminName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6).MaxLength(72)
	v.Field("confirmPassword", d.ConfirmPassword).
		Check(d.ConfirmPassword == d.Password, "passwords do not match", internal.ErrCodePasswordMismatch)
	return v.Err()
}

// SampleData seeds a new tenant with the sample projects and tasks.
type SampleData struct {
	Now func() time.Time
}

func (s SampleData) SeedData(*tenant.Tenant) (map[string]interface{}, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return map[string]interface{}{
		tenant.KeyProjects: project.SampleProjects(now),
		tenant.KeyTasks:    task.SampleTasks(now),
	}, nil
}

type UserCreator interface {
	Create(tenantID string, dto user.CreateUserDTO) (*user.User, error)
}

type Authenticator interface {
	Login(dto auth.LoginDTO) (*user.User, error)
}

type Service struct {
	registry *tenant.Registry
	users    UserCreator
	auth     Authenticator
	logger   *slog.Logger
}

func NewService(registry *tenant.Registry, users UserCreator, authenticator Authenticator, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		users:    users,
		auth:     authenticator,
		logger:   logger,
	}
}

// Signup creates an organization with its administrator, activates it and
// logs the administrator in.
func (s *Service) Signup(dto SignupDTO) (*tenant.Tenant, *user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}
	domain := strings.TrimSpace(dto.Domain)
	id := tenant.SanitizeID(domain)
	if s.registry.Exists(id) {
		return nil, nil, internal.ErrTenantExists
	}

	companyName := strings.TrimSpace(dto.CompanyName)
	t := tenant.NewTenant(id, companyName, tenant.Options{
		CompanyName: companyName,
		Industry:    dto.Industry,
		Size:        dto.Size,
		Domain:      domain,
	})
	if err := s.registry.Register(t); err != nil {
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}
	if _, err := s.users.Create(id, user.CreateUserDTO{
		Email:    dto.Email,
		Name:     dto.AdminName,
		Password: dto.Password,
		Role:     string(user.RoleAdmin),
	}); err != nil {
		s.rollback(id)
		return nil, nil, err
	}
	if err := s.registry.SetTenant(t); err != nil {
		s.rollback(id)
		return nil, nil, fmt.Errorf("failed to activate tenant: %w", err)
	}

	admin, err := s.auth.Login(auth.LoginDTO{Email: dto.Email, Password: dto.Password, TenantID: id})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("tenant signed up", "tenant_id", id, "admin_id", admin.ID)
	return t, admin, nil
}

func (s *Service) rollback(id string) {
	if err := s.registry.Unregister(id); err != nil {
		s.logger.Error("failed to roll back signup", "tenant_id", id, "error", err)
	}
}

// SeedDemo creates the demo organization unless it already exists. It
// reports whether anything was created.
func (s *Service) SeedDemo() (bool, error) {
	if s.registry.Exists(tenant.SanitizeID(DemoDomain)) {
		s.logger.Info("demo tenant already present")
		return false, nil
	}
	_, _, err := s.Signup(SignupDTO{
		CompanyName:     DemoCompany,
		Domain:          DemoDomain,
		Industry:        "Technology",
		Size:            "1-10",
		AdminName:       "Admin User",
		Email:           DemoAdminEmail,
		Password:        DemoAdminPassword,
		ConfirmPassword: DemoAdminPassword,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
