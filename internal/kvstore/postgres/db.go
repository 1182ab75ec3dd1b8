package postgres

import (
	"fmt"

	"github.com/frahmantamala/project-management/internal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and returns a store backed by kv_entries.
func Open(cfg internal.StorageConfig) (*KVRepository, error) {
	pgConfig := postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := NewKVRepository(db)
	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	return repo, nil
}
