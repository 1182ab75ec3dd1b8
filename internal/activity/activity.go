package activity

import (
	"time"
)

type Type string

const (
	TypeProject      Type = "project"
	TypeTask         Type = "task"
	TypeAnnouncement Type = "announcement"
	TypeGeneral      Type = "general"
)

// MaxEntries is how many activities a tenant keeps.
const MaxEntries = 50

type Change struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Details struct {
	Changes   map[string]Change `json:"changes,omitempty"`
	ProjectID int64             `json:"projectId,omitempty"`
	TaskID    int64             `json:"taskId,omitempty"`
	Completed *bool             `json:"completed,omitempty"`
	Message   string            `json:"message,omitempty"`
}

type Activity struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Details     Details   `json:"details"`
	Timestamp   time.Time `json:"timestamp"`
}
