package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("should deliver synchronously in subscription order", func() {
		var order []string
		bus.Subscribe(events.EventTypeTaskCreated, func(_ context.Context, _ events.Event) error {
			order = append(order, "first")
			return nil
		})
		bus.Subscribe(events.EventTypeTaskCreated, func(_ context.Context, _ events.Event) error {
			order = append(order, "second")
			return nil
		})

		evt := events.NewEntityChangedEvent(events.EventTypeTaskCreated, 1, "Write docs", nil, nil)
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		Expect(order).To(Equal([]string{"first", "second"}))
	})

	It("should ignore events nobody listens to", func() {
		evt := events.NewAnnouncementChangedEvent(events.AnnouncementCreated, "hello")
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
	})

	It("should keep running handlers after a failure and report it", func() {
		called := false
		bus.Subscribe(events.EventTypeProjectDeleted, func(_ context.Context, _ events.Event) error {
			return errors.New("boom")
		})
		bus.Subscribe(events.EventTypeProjectDeleted, func(_ context.Context, _ events.Event) error {
			called = true
			return nil
		})

		err := bus.Publish(context.Background(), events.NewEntityChangedEvent(events.EventTypeProjectDeleted, 2, "X", nil, nil))
		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(called).To(BeTrue())
	})

	It("should give every event a unique id", func() {
		a := events.NewEntityChangedEvent(events.EventTypeTaskUpdated, 1, "a", nil, nil)
		b := events.NewEntityChangedEvent(events.EventTypeTaskUpdated, 1, "a", nil, nil)
		Expect(a.EventID()).NotTo(Equal(b.EventID()))
		Expect(a.WithCompleted(true).Payload()).To(HaveKeyWithValue("completed", true))
	})
})
