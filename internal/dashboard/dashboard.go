package dashboard

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/activity"
	"github.com/frahmantamala/project-management/internal/announcement"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
)

type Range string

const (
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
)

// RecentActivityCount is how many activities a summary carries.
const RecentActivityCount = 5

func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeQuarter:
		return r, nil
	}
	return "", internal.NewValidationFieldError("range", fmt.Sprintf("unknown range %q", s), internal.ErrCodeValidationFailed)
}

// End is the last instant covered by the range starting at now.
func (r Range) End(now time.Time) time.Time {
	switch r {
	case RangeMonth:
		return now.AddDate(0, 1, 0)
	case RangeQuarter:
		return now.AddDate(0, 3, 0)
	default:
		return now.AddDate(0, 0, 7)
	}
}

type Stats struct {
	New          int `json:"new"`
	Planning     int `json:"planning"`
	InProgress   int `json:"inProgress"`
	OnHold       int `json:"onHold"`
	HighPriority int `json:"highPriority"`
	Total        int `json:"total"`
}

type DeadlineKind string

const (
	DeadlineProject DeadlineKind = "project"
	DeadlineTask    DeadlineKind = "task"
)

type Deadline struct {
	Kind     DeadlineKind      `json:"type"`
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	DueDate  time.Time         `json:"dueDate"`
	Priority workflow.Priority `json:"priority"`
	Status   workflow.Status   `json:"status"`
}

type Summary struct {
	Range          Range                      `json:"range"`
	Stats          Stats                      `json:"stats"`
	Deadlines      []Deadline                 `json:"deadlines"`
	RecentActivity []activity.Activity        `json:"recentActivity"`
	Announcement   *announcement.Announcement `json:"announcement,omitempty"`
}

type ProjectLister interface {
	All() ([]project.Project, error)
}

type TaskLister interface {
	All() ([]task.Task, error)
}

type Service struct {
	projects      ProjectLister
	tasks         TaskLister
	activities    *activity.Log
	announcements *announcement.Service
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(projects ProjectLister, tasks TaskLister, activities *activity.Log, announcements *announcement.Service, logger *slog.Logger) *Service {
	return &Service{
		projects:      projects,
		tasks:         tasks,
		activities:    activities,
		announcements: announcements,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Service) Summary(r Range) (*Summary, error) {
	projects, err := s.projects.All()
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.All()
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Summary{
		Range:          r,
		Stats:          ProjectStats(projects),
		Deadlines:      UpcomingDeadlines(projects, tasks, now, r.End(now)),
		RecentActivity: s.activities.Recent(RecentActivityCount),
		Announcement:   s.announcements.Get(),
	}, nil
}

func ProjectStats(projects []project.Project) Stats {
	stats := Stats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case workflow.StatusNew:
			stats.New++
		case workflow.StatusPlanning:
			stats.Planning++
		case workflow.StatusInProgress:
			stats.InProgress++
		case workflow.StatusOnHold:
			stats.OnHold++
		}
		if p.Priority == workflow.PriorityHigh {
			stats.HighPriority++
		}
	}
	return stats
}

// UpcomingDeadlines lists projects and open tasks due after now and no
// later than end, soonest first.
func UpcomingDeadlines(projects []project.Project, tasks []task.Task, now, end time.Time) []Deadline {
	inWindow := func(due time.Time) bool {
		return due.After(now) && !due.After(end)
	}

	deadlines := make([]Deadline, 0)
	for _, p := range projects {
		if inWindow(p.DueDate) {
			deadlines = append(deadlines, Deadline{
				Kind: DeadlineProject, ID: p.ID, Name: p.Name,
				DueDate: p.DueDate, Priority: p.Priority, Status: p.Status,
			})
		}
	}
	for _, t := range tasks {
		if !t.Completed && inWindow(t.DueDate) {
			deadlines = append(deadlines, Deadline{
				Kind: DeadlineTask, ID: t.ID, Name: t.Title,
				DueDate: t.DueDate, Priority: t.Priority, Status: t.Status,
			})
		}
	}
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})
	return deadlines
}
