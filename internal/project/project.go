package project

import (
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal/core/common/workflow"
)

type Project struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      workflow.Status   `json:"status"`
	Priority    workflow.Priority `json:"priority"`
	DueDate     time.Time         `json:"dueDate"`
	TeamMembers []string          `json:"teamMembers"`
}

func (p Project) SortDueDate() time.Time { return p.DueDate }
func (p Project) SortPriority() workflow.Priority { return p.Priority }
func (p Project) SortStatus() workflow.Status { return p.Status }

func (p *Project) AddTeamMember(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(p.TeamMembers, name) {
		return false
	}
	p.TeamMembers = append(p.TeamMembers, name)
	return true
}

func (p *Project) RemoveTeamMember(name string) bool {
	idx := slices.Index(p.TeamMembers, name)
	if idx < 0 {
		return false
	}
	p.TeamMembers = slices.Delete(p.TeamMembers, idx, idx+1)
	return true
}

func (p Project) clone() Project {
	p.TeamMembers = slices.Clone(p.TeamMembers)
	if p.TeamMembers == nil {
		p.TeamMembers = []string{}
	}
	return p
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Search   string
	Status   workflow.Status
	Priority workflow.Priority
	Sort     workflow.SortOptions
}

func (f Filter) Matches(p Project) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Priority != "" && p.Priority != f.Priority {
		return false
	}
	return true
}

// SampleProjects is the demo data written into a new tenant.
func SampleProjects(now time.Time) []Project {
	day := workflow.StartOfDay(now.UTC())
	return []Project{
		{
			ID:          1,
			Name:        "Sample Project 1",
			Description: "This is a sample project",
			Status:      workflow.StatusInProgress,
			Priority:    workflow.PriorityHigh,
			DueDate:     day.AddDate(0, 0, 7),
			TeamMembers: []string{"Admin User"},
		},
		{
			ID:          2,
			Name:        "Sample Project 2",
			Description: "Another sample project",
			Status:      workflow.StatusPlanning,
			Priority:    workflow.PriorityMedium,
			DueDate:     day.AddDate(0, 0, 14),
			TeamMembers: []string{"Admin User"},
		},
	}
}
