package project

import (
	"strings"

	"github.com/frahmantamala/project-management/internal/core/common/validation"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
)

type CreateProjectDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	TeamMembers []string `json:"teamMembers"`
}

// UpdateProjectDTO changes only the fields that are set.
type UpdateProjectDTO struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	TeamMembers *[]string `json:"teamMembers,omitempty"`
}

// build validates dto into a Project without an id.
func (d CreateProjectDTO) build() (Project, error) {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("dueDate", d.DueDate).Required()
	if err := v.Err(); err != nil {
		return Project{}, err
	}

	p := Project{
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Status:      workflow.StatusNew,
		Priority:    workflow.PriorityMedium,
		TeamMembers: []string{},
	}
	var err error
	if d.Status != "" {
		if p.Status, err = workflow.ParseStatus(d.Status); err != nil {
			return Project{}, err
		}
	}
	if d.Priority != "" {
		if p.Priority, err = workflow.ParsePriority(d.Priority); err != nil {
			return Project{}, err
		}
	}
	if p.DueDate, err = workflow.ParseDate("dueDate", d.DueDate); err != nil {
		return Project{}, err
	}
	for _, m := range d.TeamMembers {
		p.AddTeamMember(m)
	}
	return p, nil
}

func (d UpdateProjectDTO) apply(p *Project) error {
	if d.Name != nil {
		v := validation.NewValidator()
		v.Field("name", *d.Name).Required().MaxLength(200)
		if err := v.Err(); err != nil {
			return err
		}
		p.Name = strings.TrimSpace(*d.Name)
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Status != nil {
		s, err := workflow.ParseStatus(*d.Status)
		if err != nil {
			return err
		}
		p.Status = s
	}
	if d.Priority != nil {
		pr, err := workflow.ParsePriority(*d.Priority)
		if err != nil {
			return err
		}
		p.Priority = pr
	}
	if d.DueDate != nil {
		due, err := workflow.ParseDate("dueDate", *d.DueDate)
		if err != nil {
			return err
		}
		p.DueDate = due
	}
	if d.TeamMembers != nil {
		p.TeamMembers = []string{}
		for _, m := range *d.TeamMembers {
			p.AddTeamMember(m)
		}
	}
	return nil
}
