package activity_test

import (
	"context"
	"fmt"

	"github.com/frahmantamala/project-management/internal/activity"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
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

var _ = Describe("Log", func() {
	var (
		registry *tenant.Registry
		log      *activity.Log
	)

	BeforeEach(func() {
		registry = tenant.NewRegistry(kvstore.NewMemoryStore(), "pmp_", nil, logger.Discard())
		log = activity.NewLog(registry, idgen.NewSequence(1), logger.Discard())
	})

	Context("without an active tenant", func() {
		It("should record nothing", func() {
			Expect(log.Record("ignored", activity.TypeGeneral, activity.Details{})).To(Succeed())
			Expect(log.List()).To(BeEmpty())
		})
	})

	Context("with an active tenant", func() {
		BeforeEach(func() {
			Expect(registry.SetTenant(tenant.NewTenant("acme_com", "Acme", tenant.Options{}))).To(Succeed())
		})

		It("should prepend entries", func() {
			Expect(log.Record("first", activity.TypeGeneral, activity.Details{})).To(Succeed())
			Expect(log.Record("second", activity.TypeGeneral, activity.Details{})).To(Succeed())

			entries := log.List()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Description).To(Equal("second"))
			Expect(entries[1].Description).To(Equal("first"))
		})

		It("should keep only the newest entries", func() {
			for i := 0; i < activity.MaxEntries+5; i++ {
				Expect(log.Record(fmt.Sprintf("entry %d", i), activity.TypeGeneral, activity.Details{})).To(Succeed())
			}
			entries := log.List()
			Expect(entries).To(HaveLen(activity.MaxEntries))
			Expect(entries[0].Description).To(Equal(fmt.Sprintf("entry %d", activity.MaxEntries+4)))
		})

		It("should limit Recent", func() {
			for i := 0; i < 8; i++ {
				Expect(log.Record(fmt.Sprintf("entry %d", i), activity.TypeGeneral, activity.Details{})).To(Succeed())
			}
			recent := log.Recent(5)
			Expect(recent).To(HaveLen(5))
			Expect(recent[0].Description).To(Equal("entry 7"))
		})

		It("should keep activities per tenant", func() {
			Expect(log.Record("acme only", activity.TypeGeneral, activity.Details{})).To(Succeed())
			Expect(registry.SetTenant(tenant.NewTenant("globex_com", "Globex", tenant.Options{}))).To(Succeed())
			Expect(log.List()).To(BeEmpty())
		})
	})
})

var _ = Describe("EventHandler", func() {
	var (
		log      *activity.Log
		projects *project.Service
		tasks    *task.Service
		bus      *events.EventBus
	)

	BeforeEach(func() {
		registry := tenant.NewRegistry(kvstore.NewMemoryStore(), "pmp_", nil, logger.Discard())
		Expect(registry.SetTenant(tenant.NewTenant("acme_com", "Acme", tenant.Options{}))).To(Succeed())
		ids := idgen.NewSequence(100)
		bus = events.NewEventBus(logger.Discard())
		log = activity.NewLog(registry, ids, logger.Discard())
		activity.NewEventHandler(log, logger.Discard()).RegisterEventHandlers(bus)

		projects = project.NewService(project.NewStorageRepository(registry), ids, bus, logger.Discard())
		tasks = task.NewService(task.NewStorageRepository(registry), projects, ids, bus, logger.Discard())
	})

	It("should log project lifecycle with changes", func() {
		p, err := projects.Create(project.CreateProjectDTO{Name: "Website", DueDate: "2025-06-01"})
		Expect(err).NotTo(HaveOccurred())
		status := string(workflow.StatusInProgress)
		_, err = projects.Update(p.ID, project.UpdateProjectDTO{Status: &status})
		Expect(err).NotTo(HaveOccurred())
		Expect(projects.Delete(p.ID)).To(Succeed())

		entries := log.List()
		Expect(entries).To(HaveLen(3))
		Expect(entries[2].Description).To(Equal(`Project "Website" was created`))
		Expect(entries[1].Description).To(Equal(`Project "Website" was updated`))
		Expect(entries[1].Details.Changes).To(Equal(map[string]activity.Change{
			"Status": {From: "New", To: "In Progress"},
		}))
		Expect(entries[0].Description).To(Equal(`Project "Website" was deleted`))
		Expect(entries[0].Type).To(Equal(activity.TypeProject))
	})

	It("should skip updates that change nothing labelled", func() {
		p, err := projects.Create(project.CreateProjectDTO{Name: "Website", DueDate: "2025-06-01"})
		Expect(err).NotTo(HaveOccurred())
		_, err = projects.Update(p.ID, project.UpdateProjectDTO{})
		Expect(err).NotTo(HaveOccurred())
		Expect(log.List()).To(HaveLen(1))
	})

	It("should log task completion toggles", func() {
		t, err := tasks.Create(task.CreateTaskDTO{Title: "Mockups", DueDate: "2025-05-01"})
		Expect(err).NotTo(HaveOccurred())
		_, err = tasks.ToggleComplete(t.ID)
		Expect(err).NotTo(HaveOccurred())
		_, err = tasks.ToggleComplete(t.ID)
		Expect(err).NotTo(HaveOccurred())

		entries := log.List()
		Expect(entries[1].Description).To(Equal(`Task "Mockups" was marked as completed`))
		Expect(*entries[1].Details.Completed).To(BeTrue())
		Expect(entries[0].Description).To(Equal(`Task "Mockups" was marked as incomplete`))
		Expect(entries[0].Details.TaskID).To(Equal(t.ID))
	})

	It("should log announcements", func() {
		evt := events.NewAnnouncementChangedEvent(events.AnnouncementCreated, "Offsite on Friday")
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())

		entries := log.List()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Description).To(Equal("Announcement was created"))
		Expect(entries[0].Details.Message).To(Equal("Offsite on Friday"))
		Expect(entries[0].Type).To(Equal(activity.TypeAnnouncement))
	})

	It("should reject foreign event payloads", func() {
		h := activity.NewEventHandler(log, logger.Discard())
		Expect(h.HandleProjectChanged(context.Background(), events.BaseEvent{Type: events.EventTypeProjectCreated})).To(HaveOccurred())
	})
})
