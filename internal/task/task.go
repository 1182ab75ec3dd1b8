package task

import (
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal/core/common/workflow"
)

const DefaultEstimatedDuration = 1

var DefaultCategories = []string{"Bug", "Feature", "Documentation", "Design"}

type Task struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      workflow.Status   `json:"status"`
	Priority    workflow.Priority `json:"priority"`
	ProjectID   int64             `json:"projectId,omitempty"`
	ProjectName string            `json:"projectName"`
	DueDate     time.Time         `json:"dueDate"`
	AssignedTo  string            `json:"assignedTo"`
	Completed   bool              `json:"completed"`
	Categories  []string          `json:"categories"`
	// Dependencies are ids of tasks that must be completed first.
	Dependencies []int64   `json:"dependencies"`
	StartDate    time.Time `json:"startDate"`
	// EstimatedDuration is in days.
	EstimatedDuration int `json:"estimatedDuration"`
}

func (t Task) SortDueDate() time.Time { return t.DueDate }

func (t Task) SortPriority() workflow.Priority { return t.Priority }

func (t Task) SortStatus() workflow.Status { return t.Status }

// CanStart is true when every dependency exists in all and is completed.
func (t Task) CanStart(all []Task) bool {
	for _, depID := range t.Dependencies {
		idx := slices.IndexFunc(all, func(o Task) bool { return o.ID == depID })
		if idx < 0 || !all[idx].Completed {
			return false
		}
	}
	return true
}

// EarliestStartDate is the latest due date among the dependencies. A
// dependency missing from all counts as the task's own start date.
func (t Task) EarliestStartDate(all []Task) time.Time {
	if len(t.Dependencies) == 0 {
		return t.StartDate
	}
	var latest time.Time
	for i, depID := range t.Dependencies {
		candidate := t.StartDate
		if idx := slices.IndexFunc(all, func(o Task) bool { return o.ID == depID }); idx >= 0 {
			candidate = all[idx].DueDate
		}
		if i == 0 || candidate.After(latest) {
			latest = candidate
		}
	}
	return latest
}

// EstimatedEndDate is the start date plus the estimated duration.
func (t Task) EstimatedEndDate(all []Task) time.Time {
	return t.EarliestStartDate(all).AddDate(0, 0, t.EstimatedDuration)
}

func (t Task) clone() Task {
	t.Categories = cloneOrEmpty(t.Categories)
	t.Dependencies = cloneOrEmpty(t.Dependencies)
	return t
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

type Filter struct {
	Search    string
	Status    workflow.Status
	Priority  workflow.Priority
	ProjectID int64
	// Categories matches tasks carrying any of them.
	Categories []string
	Sort       workflow.SortOptions
}

func (f Filter) Matches(t Task) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.ProjectID != 0 && t.ProjectID != f.ProjectID {
		return false
	}
	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool {
		return slices.Contains(t.Categories, c)
	}) {
		return false
	}
	return true
}

// SampleTasks is the demo data written into a new tenant. They belong to
// the sample projects 1 and 2.
func SampleTasks(now time.Time) []Task {
	day := workflow.StartOfDay(now.UTC())
	return []Task{
		{
			ID:                1,
			Title:             "Sample Task 1",
			Description:       "This is a sample task",
			Status:            workflow.StatusInProgress,
			Priority:          workflow.PriorityHigh,
			ProjectID:         1,
			ProjectName:       "Sample Project 1",
			DueDate:           day.AddDate(0, 0, 3),
			AssignedTo:        "Admin User",
			Categories:        []string{},
			Dependencies:      []int64{},
			StartDate:         day,
			EstimatedDuration: DefaultEstimatedDuration,
		},
		{
			ID:                2,
			Title:             "Sample Task 2",
			Description:       "Another sample task",
			Status:            workflow.StatusPlanning,
			Priority:          workflow.PriorityMedium,
			ProjectID:         2,
			ProjectName:       "Sample Project 2",
			DueDate:           day.AddDate(0, 0, 10),
			AssignedTo:        "Admin User",
			Categories:        []string{},
			Dependencies:      []int64{},
			StartDate:         day,
			EstimatedDuration: DefaultEstimatedDuration,
		},
	}
}
