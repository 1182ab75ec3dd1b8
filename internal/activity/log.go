package activity

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/tenant"
)

// Log is the active tenant's bounded activity history, newest first.
type Log struct {
	registry *tenant.Registry
	ids      idgen.Generator
	logger   *slog.Logger
	now      func() time.Time
}

func NewLog(registry *tenant.Registry, ids idgen.Generator, logger *slog.Logger) *Log {
	return &Log{
		registry: registry,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

// Record prepends an entry and drops anything past MaxEntries. Without an
// active tenant nothing is written.
func (l *Log) Record(description string, typ Type, details Details) error {
	if l.registry.CurrentTenant() == nil {
		l.logger.Warn("no active tenant, activity not recorded", "description", description)
		return nil
	}

	entry := Activity{
		ID:          l.ids.Next(),
		Description: description,
		Type:        typ,
		Details:     details,
		Timestamp:   l.now().UTC(),
	}
	activities := append([]Activity{entry}, l.List()...)
	if len(activities) > MaxEntries {
		activities = activities[:MaxEntries]
	}
	if err := l.registry.SetData(tenant.KeyActivities, activities); err != nil {
		return fmt.Errorf("failed to save activities: %w", err)
	}

	l.logger.Debug("activity recorded", "activity_id", entry.ID, "type", typ)
	return nil
}

func (l *Log) List() []Activity {
	var activities []Activity
	if !l.registry.GetData(tenant.KeyActivities, &activities) {
		return []Activity{}
	}
	return activities
}

// Recent returns the n newest entries by timestamp.
func (l *Log) Recent(n int) []Activity {
	activities := slices.Clone(l.List())
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if n >= 0 && len(activities) > n {
		activities = activities[:n]
	}
	return activities
}
