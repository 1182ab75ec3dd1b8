package task

import (
	"github.com/frahmantamala/project-management/internal/tenant"
)

type Repository interface {
	List() ([]Task, error)
	Save(tasks []Task) error
}

// StorageRepository keeps the active tenant's tasks as one list.
type StorageRepository struct {
	registry *tenant.Registry
}

func NewStorageRepository(registry *tenant.Registry) *StorageRepository {
	return &StorageRepository{registry: registry}
}

func (r *StorageRepository) List() ([]Task, error) {
	var tasks []Task
	if !r.registry.GetData(tenant.KeyTasks, &tasks) {
		return []Task{}, nil
	}
	return tasks, nil
}

func (r *StorageRepository) Save(tasks []Task) error {
	return r.registry.SetData(tenant.KeyTasks, tasks)
}
