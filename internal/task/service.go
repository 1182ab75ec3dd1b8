package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/project"
)

type ProjectLookup interface {
	Get(id int64) (*project.Project, error)
}

type Service struct {
	repo      Repository
	projects  ProjectLookup
	ids       idgen.Generator
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, projects ProjectLookup, ids idgen.Generator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		ids:       ids,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) All() ([]Task, error) {
	tasks, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to get tasks from repository", "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *Service) List(f Filter) ([]Task, error) {
	tasks, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	if f.Sort.Field != "" {
		workflow.Sort(out, f.Sort)
	}
	return out, nil
}

func (s *Service) Get(id int64) (*Task, error) {
	tasks, err := s.All()
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return nil, internal.ErrTaskNotFound
	}
	return &tasks[idx], nil
}

// Startable lists the tasks that are not completed and whose dependencies
// all are.
func (s *Service) Startable() ([]Task, error) {
	tasks, err := s.All()
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, t := range tasks {
		if !t.Completed && t.CanStart(tasks) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) Create(dto CreateTaskDTO) (*Task, error) {
	t, err := dto.build(s.now())
	if err != nil {
		return nil, err
	}
	tasks, err := s.All()
	if err != nil {
		return nil, err
	}
	t.ID = s.ids.Next()
	if err := s.resolveProject(&t); err != nil {
		return nil, err
	}
	if err := validateDependencies(t, tasks); err != nil {
		return nil, err
	}
	tasks = append(tasks, t)
	if err := s.repo.Save(tasks); err != nil {
		s.logger.Error("failed to save tasks", "error", err)
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID)
	s.publish(events.NewEntityChangedEvent(events.EventTypeTaskCreated, t.ID, t.Title, nil, t).WithProject(t.ProjectID))
	return &t, nil
}

// Update applies dto to the task. An unknown id writes nothing and returns
// ErrTaskNotFound.
func (s *Service) Update(id int64, dto UpdateTaskDTO) (*Task, error) {
	tasks, idx, err := s.find(id)
	if err != nil {
		return nil, err
	}
	before := tasks[idx].clone()
	updated := tasks[idx].clone()
	if err := dto.apply(&updated); err != nil {
		return nil, err
	}
	if updated.ProjectID != before.ProjectID {
		if err := s.resolveProject(&updated); err != nil {
			return nil, err
		}
	}
	if err := validateDependencies(updated, tasks); err != nil {
		return nil, err
	}
	tasks[idx] = updated
	if err := s.repo.Save(tasks); err != nil {
		s.logger.Error("failed to save tasks", "error", err)
		return nil, err
	}

	s.publish(events.NewEntityChangedEvent(events.EventTypeTaskUpdated, updated.ID, updated.Title, before, updated).WithProject(updated.ProjectID))
	return &updated, nil
}

// ToggleComplete flips the completed flag.
func (s *Service) ToggleComplete(id int64) (*Task, error) {
	tasks, idx, err := s.find(id)
	if err != nil {
		return nil, err
	}
	updated := tasks[idx].clone()
	updated.Completed = !updated.Completed
	tasks[idx] = updated
	if err := s.repo.Save(tasks); err != nil {
		s.logger.Error("failed to save tasks", "error", err)
		return nil, err
	}

	s.publish(events.NewEntityChangedEvent(events.EventTypeTaskCompleted, updated.ID, updated.Title, nil, updated).
		WithProject(updated.ProjectID).
		WithCompleted(updated.Completed))
	return &updated, nil
}

// Delete removes the task and drops it from other tasks' dependencies.
func (s *Service) Delete(id int64) error {
	tasks, idx, err := s.find(id)
	if err != nil {
		return err
	}
	deleted := tasks[idx]
	tasks = slices.Delete(tasks, idx, idx+1)
	for i := range tasks {
		tasks[i].Dependencies = slices.DeleteFunc(tasks[i].Dependencies, func(dep int64) bool { return dep == id })
	}
	if err := s.repo.Save(tasks); err != nil {
		s.logger.Error("failed to save tasks", "error", err)
		return err
	}

	s.logger.Info("task deleted", "task_id", id)
	s.publish(events.NewEntityChangedEvent(events.EventTypeTaskDeleted, deleted.ID, deleted.Title, deleted, nil).WithProject(deleted.ProjectID))
	return nil
}

// DeleteByProject removes every task belonging to projectID, returning how
// many went.
func (s *Service) DeleteByProject(projectID int64) (int, error) {
	tasks, err := s.All()
	if err != nil {
		return 0, err
	}
	var ids []int64
	for _, t := range tasks {
		if t.ProjectID == projectID {
			ids = append(ids, t.ID)
		}
	}
	for _, id := range ids {
		if err := s.Delete(id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *Service) find(id int64) ([]Task, int, error) {
	tasks, err := s.All()
	if err != nil {
		return nil, -1, err
	}
	idx := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return nil, -1, internal.ErrTaskNotFound
	}
	return tasks, idx, nil
}

func (s *Service) resolveProject(t *Task) error {
	if t.ProjectID == 0 {
		t.ProjectName = ""
		return nil
	}
	p, err := s.projects.Get(t.ProjectID)
	if err != nil {
		if errors.Is(err, internal.ErrProjectNotFound) {
			return internal.NewValidationFieldError("projectId",
				fmt.Sprintf("project %d does not exist", t.ProjectID), internal.ErrCodeInvalidReference)
		}
		return err
	}
	t.ProjectName = p.Name
	return nil
}

// validateDependencies checks that t's dependencies exist among tasks, do
// not include t itself and do not form a cycle.
func validateDependencies(t Task, tasks []Task) error {
	deps := make(map[int64][]int64, len(tasks)+1)
	for _, o := range tasks {
		deps[o.ID] = o.Dependencies
	}
	deps[t.ID] = t.Dependencies

	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return internal.NewValidationFieldError("dependencies", "a task cannot depend on itself", internal.ErrCodeInvalidReference)
		}
		if _, ok := deps[dep]; !ok {
			return internal.NewValidationFieldError("dependencies",
				fmt.Sprintf("task %d does not exist", dep), internal.ErrCodeInvalidReference)
		}
	}

	visiting := make(map[int64]bool)
	done := make(map[int64]bool)
	var visit func(id int64) bool
	visit = func(id int64) bool {
		if done[id] {
			return false
		}
		if visiting[id] {
			return true
		}
		visiting[id] = true
		for _, dep := range deps[id] {
			if visit(dep) {
				return true
			}
		}
		visiting[id] = false
		done[id] = true
		return false
	}
	if visit(t.ID) {
		return internal.NewValidationFieldError("dependencies", "dependencies form a cycle", internal.ErrCodeInvalidReference)
	}
	return nil
}

func (s *Service) publish(evt events.Event) {
	if err := s.publisher.Publish(context.Background(), evt); err != nil {
		s.logger.Warn("failed to publish task event", "event_type", evt.EventType(), "error", err)
	}
}
