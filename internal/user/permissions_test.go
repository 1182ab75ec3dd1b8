package user_test

import (
	"github.com/frahmantamala/project-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func userWithRole(role user.Role) *user.User {
	perms, err := user.DefaultPermissions(role)
	Expect(err).NotTo(HaveOccurred())
	return &user.User{Role: role, Permissions: perms, Status: user.StatusActive}
}

var _ = Describe("Permissions", func() {
	It("should define defaults for every role", func() {
		for _, role := range user.Roles() {
			perms, err := user.DefaultPermissions(role)
			Expect(err).NotTo(HaveOccurred(), string(role))
			for _, resource := range user.Resources() {
				Expect(perms).To(HaveKey(resource), "%s lacks %s", role, resource)
			}
		}
	})

	It("should reject unknown roles", func() {
		_, err := user.DefaultPermissions(user.Role("owner"))
		Expect(err).To(HaveOccurred())
		_, err = user.ParseRole("owner")
		Expect(err).To(HaveOccurred())
	})

	It("should let admins do everything on users, projects and tasks", func() {
		admin := userWithRole(user.RoleAdmin)
		for _, resource := range []user.Resource{user.ResourceUsers, user.ResourceProjects, user.ResourceTasks} {
			for _, action := range user.Actions() {
				Expect(admin.Can(action, resource)).To(BeTrue(), "%s %s", action, resource)
			}
		}
		Expect(admin.Can(user.ActionUpdate, user.ResourceSettings)).To(BeTrue())
		Expect(admin.Can(user.ActionDelete, user.ResourceSettings)).To(BeFalse())
	})

	It("should stop managers from touching users or deleting projects", func() {
		manager := userWithRole(user.RoleManager)
		Expect(manager.Can(user.ActionRead, user.ResourceUsers)).To(BeTrue())
		Expect(manager.Can(user.ActionDelete, user.ResourceUsers)).To(BeFalse())
		Expect(manager.Can(user.ActionDelete, user.ResourceProjects)).To(BeFalse())
		Expect(manager.Can(user.ActionDelete, user.ResourceTasks)).To(BeTrue())
	})

	It("should stop plain users from deleting tasks", func() {
		u := userWithRole(user.RoleUser)
		Expect(u.Can(user.ActionCreate, user.ResourceTasks)).To(BeTrue())
		Expect(u.Can(user.ActionUpdate, user.ResourceTasks)).To(BeTrue())
		Expect(u.Can(user.ActionDelete, user.ResourceTasks)).To(BeFalse())
		Expect(u.Can(user.ActionCreate, user.ResourceProjects)).To(BeFalse())
	})

	It("should deny unknown resources", func() {
		admin := userWithRole(user.RoleAdmin)
		Expect(admin.Can(user.ActionRead, user.Resource("billing"))).To(BeFalse())
	})

	It("should hand out independent copies", func() {
		a, _ := user.DefaultPermissions(user.RoleUser)
		a[user.ResourceTasks] = append(a[user.ResourceTasks], user.ActionDelete)
		b, _ := user.DefaultPermissions(user.RoleUser)
		Expect(b.Allows(user.ActionDelete, user.ResourceTasks)).To(BeFalse())
	})
})
