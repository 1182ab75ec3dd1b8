package cmd

import (
	"encoding/json"
	"errors"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
	"github.com/frahmantamala/project-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("pmp", func() {
	BeforeEach(func() {
		useTempStorage()
	})

	signup := func() {
		out, err := run("signup",
			"--company", "Acme Inc", "--domain", "acme.com",
			"--name", "Ada", "--email", "ada@acme.com", "--password", "secret1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("acme_com"))
	}

	It("should refuse commands without a session", func() {
		_, err := run("project", "list")
		Expect(errors.Is(err, internal.ErrUnauthenticated)).To(BeTrue())
	})

	It("should sign up with sample data and persist between runs", func() {
		signup()

		out, err := run("whoami")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ada@acme.com"))

		out, err = run("project", "list", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var projects []project.Project
		Expect(json.Unmarshal([]byte(out), &projects)).To(Succeed())
		Expect(projects).To(HaveLen(2))
	})

	It("should manage projects and tasks and log the activity", func() {
		signup()

		out, err := run("project", "create", "--name", "Website", "--due", "2030-01-15", "--priority", "High", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var created []project.Project
		Expect(json.Unmarshal([]byte(out), &created)).To(Succeed())
		id := formatInt(created[0].ID)

		_, err = run("project", "update", id, "--status", "In Progress")
		Expect(err).NotTo(HaveOccurred())

		out, err = run("task", "create", "--title", "Mockups", "--due", "2030-01-10", "--project", id, "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var tasks []task.Task
		Expect(json.Unmarshal([]byte(out), &tasks)).To(Succeed())
		Expect(tasks[0].ProjectName).To(Equal("Website"))

		out, err = run("task", "toggle", formatInt(tasks[0].ID))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("completed"))

		out, err = run("activity", "list")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(`Task "Mockups" was marked as completed`))
		Expect(out).To(ContainSubstring(`Project "Website" was updated`))
		Expect(out).To(ContainSubstring("Status: New -> In Progress"))

		_, err = run("project", "delete", id, "--cascade")
		Expect(err).NotTo(HaveOccurred())
		out, err = run("task", "list", "--project", id, "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal([]byte(out), &tasks)).To(Succeed())
		Expect(tasks).To(BeEmpty())
	})

	It("should gate commands on role permissions", func() {
		signup()
		_, err := run("user", "create", "--email", "dev@acme.com", "--name", "Dev", "--password", "secret2")
		Expect(err).NotTo(HaveOccurred())
		_, err = run("login", "--email", "dev@acme.com", "--password", "secret2")
		Expect(err).NotTo(HaveOccurred())

		_, err = run("project", "create", "--name", "Nope", "--due", "2030-01-01")
		Expect(errors.Is(err, internal.ErrForbidden)).To(BeTrue())
		_, err = run("task", "create", "--title", "Allowed", "--due", "2030-01-01")
		Expect(err).NotTo(HaveOccurred())
		_, err = run("tenant", "reset", "--yes")
		Expect(errors.Is(err, internal.ErrForbidden)).To(BeTrue())
	})

	It("should refuse every project and announcement command once the features are off", func() {
		signup()
		out, err := run("project", "list", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var projects []project.Project
		Expect(json.Unmarshal([]byte(out), &projects)).To(Succeed())
		Expect(projects).To(HaveLen(2))
		out, err = run("task", "list", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var tasks []task.Task
		Expect(json.Unmarshal([]byte(out), &tasks)).To(Succeed())
		Expect(tasks).NotTo(BeEmpty())
		_, err = run("announce", "set", "Hello")
		Expect(err).NotTo(HaveOccurred())

		_, err = run("tenant", "settings", "--features", "tasks")
		Expect(err).NotTo(HaveOccurred())

		for _, args := range [][]string{
			{"project", "list"},
			{"project", "timeline"},
			{"project", "create", "--name", "Blocked", "--due", "2030-01-01"},
			{"project", "update", formatInt(projects[0].ID), "--status", "On Hold"},
			{"project", "delete", formatInt(projects[1].ID)},
			{"announce", "set", "Again"},
			{"announce", "clear"},
		} {
			_, err = run(args...)
			Expect(errors.Is(err, internal.ErrForbidden)).To(BeTrue(), "%v should be refused", args)
			Expect(err).To(MatchError(ContainSubstring("feature is disabled")))
		}

		_, err = run("task", "toggle", formatInt(tasks[0].ID))
		Expect(err).NotTo(HaveOccurred())

		_, err = run("tenant", "settings", "--features", "projects,tasks")
		Expect(err).NotTo(HaveOccurred())
		out, err = run("project", "list", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal([]byte(out), &projects)).To(Succeed())
		Expect(projects).To(HaveLen(2))
		_, err = run("task", "delete", formatInt(tasks[0].ID))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should list the timeline by due date when the feature is on", func() {
		signup()
		_, err := run("project", "create", "--name", "Later", "--due", "2031-06-01")
		Expect(err).NotTo(HaveOccurred())
		_, err = run("project", "create", "--name", "Sooner", "--due", "2020-06-01")
		Expect(err).NotTo(HaveOccurred())

		out, err := run("project", "timeline", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var projects []project.Project
		Expect(json.Unmarshal([]byte(out), &projects)).To(Succeed())
		Expect(projects).To(HaveLen(4))
		Expect(projects[0].Name).To(Equal("Sooner"))
		Expect(projects[3].Name).To(Equal("Later"))
		for i := 1; i < len(projects); i++ {
			Expect(projects[i].DueDate.Before(projects[i-1].DueDate)).To(BeFalse())
		}

		_, err = run("tenant", "settings", "--features", "projects,tasks")
		Expect(err).NotTo(HaveOccurred())
		_, err = run("project", "timeline")
		Expect(err).To(MatchError(ContainSubstring("timeline feature is disabled")))
		_, err = run("project", "list")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should show announcements on the dashboard", func() {
		signup()
		_, err := run("announce", "set", "Offsite", "on", "Friday", "--color", "warning")
		Expect(err).NotTo(HaveOccurred())

		out, err := run("dashboard", "--range", "month")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("[warning] Offsite on Friday"))
		Expect(out).To(ContainSubstring("Announcement was created"))

		_, err = run("dashboard", "--range", "year")
		Expect(err).To(HaveOccurred())
	})

	It("should seed the demo organization once", func() {
		out, err := run("seed")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Seeded demo organization"))

		out, err = run("seed")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("already exists"))
	})

	It("should refuse migrate without postgres", func() {
		_, err := run("migrate")
		Expect(err).To(MatchError(ContainSubstring("postgres")))
	})

	It("should hand out and complete a password reset", func() {
		signup()
		out, err := run("user", "create", "--email", "dev@acme.com", "--name", "Dev", "--password", "secret2", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var raw []map[string]json.RawMessage
		Expect(json.Unmarshal([]byte(out), &raw)).To(Succeed())
		Expect(raw[0]).NotTo(HaveKey("passwordHash"))
		var users []user.User
		Expect(json.Unmarshal([]byte(out), &users)).To(Succeed())
		devID := formatInt(users[0].ID)

		out, err = run("user", "reset-password", devID, "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		var reset map[string]interface{}
		Expect(json.Unmarshal([]byte(out), &reset)).To(Succeed())
		temp := reset["temporaryPassword"].(string)

		_, err = run("login", "--email", "dev@acme.com", "--password", temp)
		Expect(errors.Is(err, internal.ErrPasswordResetRequired)).To(BeTrue())
		_, err = run("login", "--email", "dev@acme.com", "--password", temp, "--new-password", "fresh123")
		Expect(err).NotTo(HaveOccurred())
	})
})
