package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeProjectCreated = "project.created"
	EventTypeProjectUpdated = "project.updated"
	EventTypeProjectDeleted = "project.deleted"

	EventTypeTaskCreated   = "task.created"
	EventTypeTaskUpdated   = "task.updated"
	EventTypeTaskDeleted   = "task.deleted"
	EventTypeTaskCompleted = "task.completed"

	EventTypeAnnouncementChanged = "announcement.changed"
)

// EntityChangedEvent carries before/after snapshots of a project or task.
// Before is nil on create, After is nil on delete.
type EntityChangedEvent struct {
	BaseEvent
	EntityID  int64       `json:"entity_id"`
	Name      string      `json:"name"`
	ProjectID int64       `json:"project_id,omitempty"`
	Completed bool        `json:"completed,omitempty"`
	Before    interface{} `json:"before,omitempty"`
	After     interface{} `json:"after,omitempty"`
}

func NewEntityChangedEvent(eventType string, entityID int64, name string, before, after interface{}) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity_id": entityID,
				"name":      name,
			},
		},
		EntityID: entityID,
		Name:     name,
		Before:   before,
		After:    after,
	}
}

func (e *EntityChangedEvent) WithProject(projectID int64) *EntityChangedEvent {
	e.ProjectID = projectID
	e.Data["project_id"] = projectID
	return e
}

func (e *EntityChangedEvent) WithCompleted(completed bool) *EntityChangedEvent {
	e.Completed = completed
	e.Data["completed"] = completed
	return e
}

type AnnouncementAction string

const (
	AnnouncementCreated AnnouncementAction = "created"
	AnnouncementUpdated AnnouncementAction = "updated"
	AnnouncementRemoved AnnouncementAction = "removed"
)

type AnnouncementChangedEvent struct {
	BaseEvent
	Action  AnnouncementAction `json:"action"`
	Message string             `json:"message"`
}

func NewAnnouncementChangedEvent(action AnnouncementAction, message string) *AnnouncementChangedEvent {
	return &AnnouncementChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAnnouncementChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"action":  string(action),
				"message": message,
			},
		},
		Action:  action,
		Message: message,
	}
}
