package task_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/kvstore"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
	"github.com/frahmantamala/project-management/internal/tenant"
	"github.com/frahmantamala/project-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) last() *events.EntityChangedEvent {
	return r.events[len(r.events)-1].(*events.EntityChangedEvent)
}

var _ = Describe("Task Service", func() {
	var (
		publisher *recordingPublisher
		projects  *project.Service
		service   *task.Service
		website   *project.Project
	)

	BeforeEach(func() {
		registry := tenant.NewRegistry(kvstore.NewMemoryStore(), "pmp_", nil, logger.Discard())
		Expect(registry.SetTenant(tenant.NewTenant("acme_com", "Acme", tenant.Options{}))).To(Succeed())
		publisher = &recordingPublisher{}
		ids := idgen.NewSequence(500)
		projects = project.NewService(project.NewStorageRepository(registry), ids, events.Nop{}, logger.Discard())
		service = task.NewService(task.NewStorageRepository(registry), projects, ids, publisher, logger.Discard())

		var err error
		website, err = projects.Create(project.CreateProjectDTO{Name: "Website", DueDate: "2025-06-01"})
		Expect(err).NotTo(HaveOccurred())
	})

	create := func(dto task.CreateTaskDTO) *task.Task {
		if dto.DueDate == "" {
			dto.DueDate = "2025-05-01"
		}
		t, err := service.Create(dto)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	Describe("Create", func() {
		It("should resolve the project name and apply defaults", func() {
			t := create(task.CreateTaskDTO{Title: "Mockups", ProjectID: website.ID})
			Expect(t.ProjectName).To(Equal("Website"))
			Expect(t.EstimatedDuration).To(Equal(task.DefaultEstimatedDuration))
			Expect(t.Categories).To(BeEmpty())
			Expect(t.Dependencies).To(BeEmpty())
			Expect(t.StartDate).To(BeTemporally("~", time.Now(), time.Minute))
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeTaskCreated))
			Expect(publisher.last().ProjectID).To(Equal(website.ID))
		})

		It("should reject an unknown project", func() {
			_, err := service.Create(task.CreateTaskDTO{Title: "X", DueDate: "2025-05-01", ProjectID: 12345})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject dependencies on missing tasks", func() {
			_, err := service.Create(task.CreateTaskDTO{Title: "X", DueDate: "2025-05-01", Dependencies: []int64{77}})
			Expect(err).To(HaveOccurred())
		})

		It("should reject unknown status values", func() {
			_, err := service.Create(task.CreateTaskDTO{Title: "X", DueDate: "2025-05-01", Status: "Blocked"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should refuse self and cyclic dependencies", func() {
			a := create(task.CreateTaskDTO{Title: "A"})
			b := create(task.CreateTaskDTO{Title: "B", Dependencies: []int64{a.ID}})

			self := []int64{a.ID}
			_, err := service.Update(a.ID, task.UpdateTaskDTO{Dependencies: &self})
			Expect(err).To(HaveOccurred())

			cycle := []int64{b.ID}
			_, err = service.Update(a.ID, task.UpdateTaskDTO{Dependencies: &cycle})
			Expect(err).To(MatchError(ContainSubstring("cycle")))
		})

		It("should re-resolve the project name when moved", func() {
			t := create(task.CreateTaskDTO{Title: "A"})
			Expect(t.ProjectName).To(BeEmpty())
			updated, err := service.Update(t.ID, task.UpdateTaskDTO{ProjectID: &website.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ProjectName).To(Equal("Website"))
		})

		It("should publish before and after snapshots", func() {
			t := create(task.CreateTaskDTO{Title: "A"})
			status := "In Progress"
			_, err := service.Update(t.ID, task.UpdateTaskDTO{Status: &status})
			Expect(err).NotTo(HaveOccurred())
			evt := publisher.last()
			Expect(evt.EventType()).To(Equal(events.EventTypeTaskUpdated))
			Expect(evt.Before.(task.Task).Status).NotTo(Equal(evt.After.(task.Task).Status))
		})

		It("should return NotFound for unknown ids", func() {
			title := "nope"
			_, err := service.Update(1, task.UpdateTaskDTO{Title: &title})
			Expect(errors.Is(err, internal.ErrTaskNotFound)).To(BeTrue())
		})
	})

	Describe("ToggleComplete", func() {
		It("should flip completion and report it", func() {
			t := create(task.CreateTaskDTO{Title: "A"})
			done, err := service.ToggleComplete(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(done.Completed).To(BeTrue())
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeTaskCompleted))
			Expect(publisher.last().Completed).To(BeTrue())

			undone, err := service.ToggleComplete(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(undone.Completed).To(BeFalse())
			Expect(publisher.last().Completed).To(BeFalse())
		})
	})

	Describe("Startable", func() {
		It("should list open tasks whose dependencies are done", func() {
			a := create(task.CreateTaskDTO{Title: "A"})
			b := create(task.CreateTaskDTO{Title: "B", Dependencies: []int64{a.ID}})

			ready, err := service.Startable()
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(HaveLen(1))
			Expect(ready[0].ID).To(Equal(a.ID))

			_, err = service.ToggleComplete(a.ID)
			Expect(err).NotTo(HaveOccurred())
			ready, _ = service.Startable()
			Expect(ready).To(HaveLen(1))
			Expect(ready[0].ID).To(Equal(b.ID))
		})
	})

	Describe("Delete", func() {
		It("should drop the id from other tasks' dependencies", func() {
			a := create(task.CreateTaskDTO{Title: "A"})
			b := create(task.CreateTaskDTO{Title: "B", Dependencies: []int64{a.ID}})

			Expect(service.Delete(a.ID)).To(Succeed())
			got, err := service.Get(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Dependencies).To(BeEmpty())
			Expect(publisher.last().EventType()).To(Equal(events.EventTypeTaskDeleted))
		})

		It("should cascade by project", func() {
			create(task.CreateTaskDTO{Title: "A", ProjectID: website.ID})
			create(task.CreateTaskDTO{Title: "B", ProjectID: website.ID})
			create(task.CreateTaskDTO{Title: "C"})

			n, err := service.DeleteByProject(website.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
			all, _ := service.All()
			Expect(all).To(HaveLen(1))
		})
	})

	Describe("List", func() {
		It("should filter by categories and project", func() {
			create(task.CreateTaskDTO{Title: "A", Categories: []string{"Bug"}, ProjectID: website.ID})
			create(task.CreateTaskDTO{Title: "B", Categories: []string{"Design"}})

			ts, err := service.List(task.Filter{Categories: []string{"Bug", "Feature"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(ts).To(HaveLen(1))
			Expect(ts[0].Title).To(Equal("A"))

			ts, _ = service.List(task.Filter{ProjectID: website.ID})
			Expect(ts).To(HaveLen(1))
		})
	})
})
