package user

import (
	"github.com/frahmantamala/project-management/internal/tenant"
)

type Repository interface {
	List(tenantID string) ([]User, error)
	Save(tenantID string, users []User) error
}

// StorageRepository keeps each tenant's users as one list under users_{tenantId}.
type StorageRepository struct {
	registry *tenant.Registry
}

func NewStorageRepository(registry *tenant.Registry) *StorageRepository {
	return &StorageRepository{registry: registry}
}

func (r *StorageRepository) List(tenantID string) ([]User, error) {
	var users []User
	if !r.registry.GetAppData(tenant.UsersKey(tenantID), &users) {
		return []User{}, nil
	}
	return users, nil
}

func (r *StorageRepository) Save(tenantID string, users []User) error {
	return r.registry.SetAppData(tenant.UsersKey(tenantID), users)
}
