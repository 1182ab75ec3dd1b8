package task

import (
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/validation"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
)

type CreateTaskDTO struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	ProjectID         int64    `json:"projectId"`
	DueDate           string   `json:"dueDate"`
	AssignedTo        string   `json:"assignedTo"`
	Categories        []string `json:"categories"`
	Dependencies      []int64  `json:"dependencies"`
	StartDate         string   `json:"startDate"`
	EstimatedDuration int      `json:"estimatedDuration"`
}

// UpdateTaskDTO changes only the fields that are set.
type UpdateTaskDTO struct {
	Title             *string   `json:"title,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Status            *string   `json:"status,omitempty"`
	Priority          *string   `json:"priority,omitempty"`
	ProjectID         *int64    `json:"projectId,omitempty"`
	DueDate           *string   `json:"dueDate,omitempty"`
	AssignedTo        *string   `json:"assignedTo,omitempty"`
	Completed         *bool     `json:"completed,omitempty"`
	Categories        *[]string `json:"categories,omitempty"`
	Dependencies      *[]int64  `json:"dependencies,omitempty"`
	StartDate         *string   `json:"startDate,omitempty"`
	EstimatedDuration *int      `json:"estimatedDuration,omitempty"`
}

func (d CreateTaskDTO) build(now time.Time) (Task, error) {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("dueDate", d.DueDate).Required()
	v.Field("estimatedDuration", d.EstimatedDuration).
		Check(d.EstimatedDuration >= 0, "estimatedDuration cannot be negative", internal.ErrCodeValidationFailed)
	if err := v.Err(); err != nil {
		return Task{}, err
	}

	t := Task{
		Title:             strings.TrimSpace(d.Title),
		Description:       d.Description,
		Status:            workflow.StatusNew,
		Priority:          workflow.PriorityMedium,
		ProjectID:         d.ProjectID,
		AssignedTo:        strings.TrimSpace(d.AssignedTo),
		Categories:        cloneOrEmpty(d.Categories),
		Dependencies:      cloneOrEmpty(d.Dependencies),
		StartDate:         now.UTC(),
		EstimatedDuration: d.EstimatedDuration,
	}
	if t.EstimatedDuration == 0 {
		t.EstimatedDuration = DefaultEstimatedDuration
	}
	var err error
	if d.Status != "" {
		if t.Status, err = workflow.ParseStatus(d.Status); err != nil {
			return Task{}, err
		}
	}
	if d.Priority != "" {
		if t.Priority, err = workflow.ParsePriority(d.Priority); err != nil {
			return Task{}, err
		}
	}
	if t.DueDate, err = workflow.ParseDate("dueDate", d.DueDate); err != nil {
		return Task{}, err
	}
	if d.StartDate != "" {
		if t.StartDate, err = workflow.ParseDate("startDate", d.StartDate); err != nil {
			return Task{}, err
		}
	}
	return t, nil
}

func (d UpdateTaskDTO) apply(t *Task) error {
	if d.Title != nil {
		v := validation.NewValidator()
		v.Field("title", *d.Title).Required().MaxLength(200)
		if err := v.Err(); err != nil {
			return err
		}
		t.Title = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
	if d.Status != nil {
		s, err := workflow.ParseStatus(*d.Status)
		if err != nil {
			return err
		}
		t.Status = s
	}
	if d.Priority != nil {
		p, err := workflow.ParsePriority(*d.Priority)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if d.ProjectID != nil {
		t.ProjectID = *d.ProjectID
	}
	if d.DueDate != nil {
		due, err := workflow.ParseDate("dueDate", *d.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = due
	}
	if d.AssignedTo != nil {
		t.AssignedTo = strings.TrimSpace(*d.AssignedTo)
	}
	if d.Completed != nil {
		t.Completed = *d.Completed
	}
	if d.Categories != nil {
		t.Categories = cloneOrEmpty(*d.Categories)
	}
	if d.Dependencies != nil {
		t.Dependencies = cloneOrEmpty(*d.Dependencies)
	}
	if d.StartDate != nil {
		start, err := workflow.ParseDate("startDate", *d.StartDate)
		if err != nil {
			return err
		}
		t.StartDate = start
	}
	if d.EstimatedDuration != nil {
		if *d.EstimatedDuration < 1 {
			return internal.NewValidationFieldError("estimatedDuration", "estimatedDuration must be at least 1 day", internal.ErrCodeValidationFailed)
		}
		t.EstimatedDuration = *d.EstimatedDuration
	}
	return nil
}
