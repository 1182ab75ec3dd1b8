package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
)

type Status string

const (
	StatusNew        Status = "New"
	StatusPlanning   Status = "Planning"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var statusRank = map[Status]int{
	StatusNew:        1,
	StatusPlanning:   2,
	StatusInProgress: 3,
	StatusOnHold:     4,
	StatusCompleted:  5,
}

var priorityRank = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

func Statuses() []Status {
	return []Status{StatusNew, StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted}
}

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank is 0 for values outside the table. Such values can only come from
// hand-edited storage since construction rejects them.
func (s Status) Rank() int { return statusRank[s] }

func (s Status) Valid() bool { return statusRank[s] > 0 }

func (p Priority) Rank() int { return priorityRank[p] }

func (p Priority) Valid() bool { return priorityRank[p] > 0 }

func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses() {
		if strings.EqualFold(string(s), strings.TrimSpace(v)) {
			return s, nil
		}
	}
	return "", internal.NewValidationFieldError("status",
		fmt.Sprintf("unknown status %q", v), internal.ErrCodeInvalidStatus)
}

func ParsePriority(v string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(string(p), strings.TrimSpace(v)) {
			return p, nil
		}
	}
	return "", internal.NewValidationFieldError("priority",
		fmt.Sprintf("unknown priority %q", v), internal.ErrCodeInvalidPriority)
}

type SortField string

const (
	SortByDueDate  SortField = "dueDate"
	SortByPriority SortField = "priority"
	SortByStatus   SortField = "status"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

func ParseSort(field, direction string) (SortOptions, error) {
	opts := SortOptions{Field: SortField(field), Direction: SortDirection(strings.ToLower(direction))}
	switch opts.Field {
	case SortByDueDate, SortByPriority, SortByStatus:
	case "":
		opts.Field = SortByDueDate
	default:
		return SortOptions{}, internal.NewValidationFieldError("sort", fmt.Sprintf("cannot sort by %q", field), internal.ErrCodeValidationFailed)
	}
	switch opts.Direction {
	case Asc, Desc:
	case "":
		opts.Direction = Asc
	default:
		return SortOptions{}, internal.NewValidationFieldError("direction", fmt.Sprintf("unknown direction %q", direction), internal.ErrCodeValidationFailed)
	}
	return opts, nil
}

// Sortable is implemented by records listed with SortOptions.
type Sortable interface {
	SortDueDate() time.Time
	SortPriority() Priority
	SortStatus() Status
}

// Sort orders items in place. The sort is stable, so equal keys keep their
// stored order.
func Sort[T Sortable](items []T, opts SortOptions) {
	less := func(a, b T) int {
		switch opts.Field {
		case SortByPriority:
			return a.SortPriority().Rank() - b.SortPriority().Rank()
		case SortByStatus:
			return a.SortStatus().Rank() - b.SortStatus().Rank()
		default:
			return a.SortDueDate().Compare(b.SortDueDate())
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if opts.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
}
