package project

import (
	"context"
	"log/slog"
	"slices"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/core/idgen"
)

type Service struct {
	repo      Repository
	ids       idgen.Generator
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, ids idgen.Generator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		ids:       ids,
		publisher: publisher,
		logger:    logger,
	}
}

// All returns the projects in stored order.
func (s *Service) All() ([]Project, error) {
	projects, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to get projects from repository", "error", err)
		return nil, err
	}
	return projects, nil
}

func (s *Service) List(f Filter) ([]Project, error) {
	projects, err := s.All()
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	if f.Sort.Field != "" {
		workflow.Sort(out, f.Sort)
	}
	return out, nil
}

func (s *Service) Get(id int64) (*Project, error) {
	projects, err := s.All()
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return nil, internal.ErrProjectNotFound
	}
	return &projects[idx], nil
}

func (s *Service) Create(dto CreateProjectDTO) (*Project, error) {
	p, err := dto.build()
	if err != nil {
		return nil, err
	}
	projects, err := s.All()
	if err != nil {
		return nil, err
	}
	p.ID = s.ids.Next()
	projects = append(projects, p)
	if err := s.repo.Save(projects); err != nil {
		s.logger.Error("failed to save projects", "error", err)
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID)
	s.publish(events.NewEntityChangedEvent(events.EventTypeProjectCreated, p.ID, p.Name, nil, p))
	return &p, nil
}

// Update applies dto to the project. An unknown id writes nothing and
// returns ErrProjectNotFound.
func (s *Service) Update(id int64, dto UpdateProjectDTO) (*Project, error) {
	return s.modify(id, dto.apply)
}

// AddTeamMember appends name unless it is already on the team.
func (s *Service) AddTeamMember(id int64, name string) (*Project, error) {
	return s.modify(id, func(p *Project) error {
		p.AddTeamMember(name)
		return nil
	})
}

func (s *Service) RemoveTeamMember(id int64, name string) (*Project, error) {
	return s.modify(id, func(p *Project) error {
		p.RemoveTeamMember(name)
		return nil
	})
}

func (s *Service) Delete(id int64) error {
	projects, err := s.All()
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return internal.ErrProjectNotFound
	}
	deleted := projects[idx]
	projects = slices.Delete(projects, idx, idx+1)
	if err := s.repo.Save(projects); err != nil {
		s.logger.Error("failed to save projects", "error", err)
		return err
	}

	s.logger.Info("project deleted", "project_id", id)
	s.publish(events.NewEntityChangedEvent(events.EventTypeProjectDeleted, deleted.ID, deleted.Name, deleted, nil))
	return nil
}

func (s *Service) modify(id int64, fn func(*Project) error) (*Project, error) {
	projects, err := s.All()
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(projects, func(p Project) bool { return p.ID == id })
	if idx < 0 {
		return nil, internal.ErrProjectNotFound
	}
	before := projects[idx].clone()
	updated := projects[idx].clone()
	if err := fn(&updated); err != nil {
		return nil, err
	}
	projects[idx] = updated
	if err := s.repo.Save(projects); err != nil {
		s.logger.Error("failed to save projects", "error", err)
		return nil, err
	}

	s.publish(events.NewEntityChangedEvent(events.EventTypeProjectUpdated, updated.ID, updated.Name, before, updated))
	return &updated, nil
}

func (s *Service) publish(evt events.Event) {
	if err := s.publisher.Publish(context.Background(), evt); err != nil {
		s.logger.Warn("failed to publish project event", "event_type", evt.EventType(), "error", err)
	}
}
