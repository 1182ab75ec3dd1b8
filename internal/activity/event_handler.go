package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/project-management/internal/core/events"
)

type EventHandler struct {
	log    *Log
	logger *slog.Logger
}

func NewEventHandler(log *Log, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		log:    log,
		logger: logger,
	}
}

var entityVerbs = map[string]string{
	events.EventTypeProjectCreated: "created",
	events.EventTypeProjectUpdated: "updated",
	events.EventTypeProjectDeleted: "deleted",
	events.EventTypeTaskCreated:    "created",
	events.EventTypeTaskUpdated:    "updated",
	events.EventTypeTaskDeleted:    "deleted",
}

func (h *EventHandler) HandleProjectChanged(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.EntityChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for project handler", "event_type", event.EventType())
		return fmt.Errorf("expected EntityChangedEvent, got %T", event)
	}

	details := Details{ProjectID: evt.EntityID}
	if event.EventType() == events.EventTypeProjectUpdated {
		details.Changes = FormatChanges(evt.Before, evt.After)
		if len(details.Changes) == 0 {
			return nil
		}
	}
	description := fmt.Sprintf("Project %q was %s", evt.Name, entityVerbs[event.EventType()])
	return h.log.Record(description, TypeProject, details)
}

func (h *EventHandler) HandleTaskChanged(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.EntityChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for task handler", "event_type", event.EventType())
		return fmt.Errorf("expected EntityChangedEvent, got %T", event)
	}

	details := Details{TaskID: evt.EntityID, ProjectID: evt.ProjectID}
	var description string
	switch event.EventType() {
	case events.EventTypeTaskCompleted:
		state := "incomplete"
		if evt.Completed {
			state = "completed"
		}
		completed := evt.Completed
		details.Completed = &completed
		description = fmt.Sprintf("Task %q was marked as %s", evt.Name, state)
	case events.EventTypeTaskUpdated:
		details.Changes = FormatChanges(evt.Before, evt.After)
		if len(details.Changes) == 0 {
			return nil
		}
		fallthrough
	default:
		description = fmt.Sprintf("Task %q was %s", evt.Name, entityVerbs[event.EventType()])
	}
	return h.log.Record(description, TypeTask, details)
}

func (h *EventHandler) HandleAnnouncementChanged(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.AnnouncementChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for announcement handler", "event_type", event.EventType())
		return fmt.Errorf("expected AnnouncementChangedEvent, got %T", event)
	}

	description := fmt.Sprintf("Announcement was %s", evt.Action)
	return h.log.Record(description, TypeAnnouncement, Details{Message: evt.Message})
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	projectEvents := []string{
		events.EventTypeProjectCreated,
		events.EventTypeProjectUpdated,
		events.EventTypeProjectDeleted,
	}
	taskEvents := []string{
		events.EventTypeTaskCreated,
		events.EventTypeTaskUpdated,
		events.EventTypeTaskDeleted,
		events.EventTypeTaskCompleted,
	}
	for _, t := range projectEvents {
		eventBus.Subscribe(t, h.HandleProjectChanged)
	}
	for _, t := range taskEvents {
		eventBus.Subscribe(t, h.HandleTaskChanged)
	}
	eventBus.Subscribe(events.EventTypeAnnouncementChanged, h.HandleAnnouncementChanged)

	h.logger.Debug("activity event handlers registered",
		"handlers", append(append(projectEvents, taskEvents...), events.EventTypeAnnouncementChanged))
}
