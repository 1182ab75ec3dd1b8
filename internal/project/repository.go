package project

import (
	"github.com/frahmantamala/project-management/internal/tenant"
)

type Repository interface {
	List() ([]Project, error)
	Save(projects []Project) error
}

// StorageRepository keeps the active tenant's projects as one list.
type StorageRepository struct {
	registry *tenant.Registry
}

func NewStorageRepository(registry *tenant.Registry) *StorageRepository {
	return &StorageRepository{registry: registry}
}

func (r *StorageRepository) List() ([]Project, error) {
	var projects []Project
	if !r.registry.GetData(tenant.KeyProjects, &projects) {
		return []Project{}, nil
	}
	return projects, nil
}

func (r *StorageRepository) Save(projects []Project) error {
	return r.registry.SetData(tenant.KeyProjects, projects)
}
