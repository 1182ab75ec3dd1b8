package postgres

import (
	"errors"
	"fmt"
	"time"

	kvDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/kv"
	"github.com/frahmantamala/project-management/internal/kvstore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

var _ kvstore.Store = (*KVRepository)(nil)

func (r *KVRepository) Get(key string) (string, bool, error) {
	var entry kvDatamodel.Entry
	err := r.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *KVRepository) Set(key, value string) error {
	entry := kvDatamodel.Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Remove(key string) error {
	if err := r.db.Where("key = ?", key).Delete(&kvDatamodel.Entry{}).Error; err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Keys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&kvDatamodel.Entry{}).Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// AutoMigrate creates the kv_entries table. Production databases use the
// goose migrations under db/migrations instead.
func (r *KVRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&kvDatamodel.Entry{})
}

func (r *KVRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
