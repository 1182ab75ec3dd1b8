package user_test

import (
	"errors"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/core/password"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users      map[string][]user.User
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{users: make(map[string][]user.User)}
}

func (m *MockRepository) List(tenantID string) ([]user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return append([]user.User(nil), m.users[tenantID]...), nil
}

func (m *MockRepository) Save(tenantID string, users []user.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[tenantID] = append([]user.User(nil), users...)
	return nil
}

// Helper methods for testing
func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

const tenantID = "acme_com"

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = user.NewService(mockRepo, password.Plain{}, idgen.NewSequence(100), logger.Discard())
	})

	createAlice := func() *user.User {
		u, err := service.Create(tenantID, user.CreateUserDTO{
			Email: "alice@acme.com", Name: "Alice", Password: "secret1", Role: "manager",
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	Describe("Create", func() {
		It("should assign id, defaults and role permissions", func() {
			u := createAlice()
			Expect(u.ID).To(Equal(int64(100)))
			Expect(u.Status).To(Equal(user.StatusActive))
			Expect(u.TenantID).To(Equal(tenantID))
			Expect(u.Can(user.ActionDelete, user.ResourceTasks)).To(BeTrue())
			Expect(u.Can(user.ActionDelete, user.ResourceUsers)).To(BeFalse())
			Expect(mockRepo.users[tenantID]).To(HaveLen(1))
		})

		It("should reject duplicate emails regardless of case", func() {
			createAlice()
			_, err := service.Create(tenantID, user.CreateUserDTO{
				Email: "ALICE@acme.com", Name: "Other", Password: "secret1", Role: "user",
			})
			Expect(errors.Is(err, internal.ErrDuplicateEmail)).To(BeTrue())
		})

		It("should reject an unknown role", func() {
			_, err := service.Create(tenantID, user.CreateUserDTO{
				Email: "bob@acme.com", Name: "Bob", Password: "secret1", Role: "owner",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should validate required fields", func() {
			_, err := service.Create(tenantID, user.CreateUserDTO{})
			Expect(err).To(HaveOccurred())
		})

		Context("when repository returns error", func() {
			BeforeEach(func() {
				mockRepo.SetShouldFail(true, errors.New("database error"))
			})

			It("should return error", func() {
				_, err := service.Create(tenantID, user.CreateUserDTO{
					Email: "bob@acme.com", Name: "Bob", Password: "secret1", Role: "user",
				})
				Expect(err).To(MatchError(ContainSubstring("database error")))
			})
		})
	})

	Describe("Update", func() {
		It("should recompute permissions on role change", func() {
			alice := createAlice()
			role := "user"
			updated, err := service.Update(tenantID, alice.ID, user.UpdateUserDTO{Role: &role})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(user.RoleUser))
			Expect(updated.Can(user.ActionDelete, user.ResourceTasks)).To(BeFalse())
		})

		It("should reject taking another user's email", func() {
			alice := createAlice()
			_, err := service.Create(tenantID, user.CreateUserDTO{
				Email: "bob@acme.com", Name: "Bob", Password: "secret1", Role: "user",
			})
			Expect(err).NotTo(HaveOccurred())

			email := "bob@acme.com"
			_, err = service.Update(tenantID, alice.ID, user.UpdateUserDTO{Email: &email})
			Expect(errors.Is(err, internal.ErrDuplicateEmail)).To(BeTrue())
		})

		It("should allow keeping the same email", func() {
			alice := createAlice()
			email := "Alice@acme.com"
			name := "Alice B"
			updated, err := service.Update(tenantID, alice.ID, user.UpdateUserDTO{Email: &email, Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Alice B"))
		})

		It("should return NotFound and write nothing for unknown ids", func() {
			createAlice()
			before := mockRepo.users[tenantID]
			name := "Ghost"
			_, err := service.Update(tenantID, 999, user.UpdateUserDTO{Name: &name})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
			Expect(mockRepo.users[tenantID]).To(Equal(before))
		})
	})

	Describe("Delete", func() {
		It("should remove the user", func() {
			alice := createAlice()
			Expect(service.Delete(tenantID, alice.ID, 1)).To(Succeed())
			_, err := service.GetByID(tenantID, alice.ID)
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("should refuse to delete the acting user", func() {
			alice := createAlice()
			Expect(errors.Is(service.Delete(tenantID, alice.ID, alice.ID), internal.ErrCannotDeleteSelf)).To(BeTrue())
		})
	})

	Describe("passwords", func() {
		It("should change the password when the current one matches", func() {
			alice := createAlice()
			err := service.ChangePassword(tenantID, alice.ID, user.ChangePasswordDTO{
				CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2",
			})
			Expect(err).NotTo(HaveOccurred())

			reloaded, _ := service.GetByID(tenantID, alice.ID)
			Expect(service.VerifyPassword(reloaded, "secret2")).To(BeTrue())
		})

		It("should reject a wrong current password", func() {
			alice := createAlice()
			err := service.ChangePassword(tenantID, alice.ID, user.ChangePasswordDTO{
				CurrentPassword: "nope", NewPassword: "secret2", ConfirmPassword: "secret2",
			})
			Expect(errors.Is(err, internal.ErrCurrentPassword)).To(BeTrue())
		})

		It("should reject mismatched confirmation", func() {
			alice := createAlice()
			err := service.ChangePassword(tenantID, alice.ID, user.ChangePasswordDTO{
				CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret3",
			})
			Expect(errors.Is(err, internal.ErrPasswordMismatch)).To(BeTrue())
		})

		It("should issue a temporary password that must be changed", func() {
			alice := createAlice()
			temp, err := service.ResetPassword(tenantID, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(temp).To(HaveLen(8))

			reloaded, _ := service.GetByID(tenantID, alice.ID)
			Expect(reloaded.PasswordResetRequired).To(BeTrue())
			Expect(service.VerifyPassword(reloaded, temp)).To(BeTrue())

			Expect(service.SetPassword(tenantID, alice.ID, "brandnew")).To(Succeed())
			reloaded, _ = service.GetByID(tenantID, alice.ID)
			Expect(reloaded.PasswordResetRequired).To(BeFalse())
		})
	})

	Describe("GetByEmail", func() {
		It("should match case-insensitively", func() {
			createAlice()
			u, err := service.GetByEmail(tenantID, " ALICE@ACME.COM ")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Alice"))
		})

		It("should keep tenants apart", func() {
			createAlice()
			_, err := service.GetByEmail("globex_com", "alice@acme.com")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("Public", func() {
		It("should drop the password hash", func() {
			alice := createAlice()
			Expect(alice.Public().PasswordHash).To(BeEmpty())
			Expect(alice.PasswordHash).NotTo(BeEmpty())
		})
	})
})
