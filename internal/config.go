package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"

	PasswordHashingBcrypt = "bcrypt"
	PasswordHashingPlain  = "plain"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type StorageConfig struct {
	// Driver is one of memory, sqlite or postgres.
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	Source       string `mapstructure:"source"`
	Prefix       string `mapstructure:"prefix"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type SecurityConfig struct {
	PasswordHashing string `mapstructure:"password_hashing"`
	BCryptCost      int    `mapstructure:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig is what the CLI runs with when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		Storage: StorageConfig{
			Driver:       StorageDriverSQLite,
			Path:         "pmp.db",
			Prefix:       "pmp_",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
		Security: SecurityConfig{
			PasswordHashing: PasswordHashingBcrypt,
			BCryptCost:      10,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config purely from environment variables,
// falling back to DefaultConfig for anything unset.
func LoadConfigFromEnv() *Config {
	def := DefaultConfig()
	return &Config{
		App: AppConfig{Env: getEnv("APP_ENV", def.App.Env)},
		Storage: StorageConfig{
			Driver:       getEnv("STORAGE_DRIVER", def.Storage.Driver),
			Path:         getEnv("STORAGE_PATH", def.Storage.Path),
			Source:       getEnv("DATABASE_URL", def.Storage.Source),
			Prefix:       getEnv("STORAGE_PREFIX", def.Storage.Prefix),
			AutoMigrate:  getEnvAsBool("STORAGE_AUTO_MIGRATE", def.Storage.AutoMigrate),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", def.Storage.MaxOpenConns),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", def.Storage.MaxIdleConns),
		},
		Security: SecurityConfig{
			PasswordHashing: getEnv("PASSWORD_HASHING", def.Security.PasswordHashing),
			BCryptCost:      getEnvAsInt("BCRYPT_COST", def.Security.BCryptCost),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", def.Logging.Level),
			Format: getEnv("LOG_FORMAT", def.Logging.Format),
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverMemory:
	case StorageDriverSQLite:
		if c.Path == "" {
			return errors.New("path is required for the sqlite driver")
		}
	case StorageDriverPostgres:
		if c.Source == "" {
			return errors.New("source is required for the postgres driver")
		}
		if c.MaxIdleConns > c.MaxOpenConns {
			return errors.New("max_idle_conns cannot be greater than max_open_conns")
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Prefix == "" {
		return errors.New("prefix is required")
	}
	return nil
}

func (c *StorageConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	switch c.PasswordHashing {
	case PasswordHashingBcrypt:
		if c.BCryptCost < 4 || c.BCryptCost > 31 {
			return fmt.Errorf("bcrypt_cost %d out of range", c.BCryptCost)
		}
	case PasswordHashingPlain:
	default:
		return fmt.Errorf("unknown password_hashing %q", c.PasswordHashing)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
