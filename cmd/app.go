package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/activity"
	"github.com/frahmantamala/project-management/internal/announcement"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/core/idgen"
	"github.com/frahmantamala/project-management/internal/core/password"
	"github.com/frahmantamala/project-management/internal/dashboard"
	"github.com/frahmantamala/project-management/internal/kvstore"
	"github.com/frahmantamala/project-management/internal/kvstore/postgres"
	"github.com/frahmantamala/project-management/internal/kvstore/sqlite"
	"github.com/frahmantamala/project-management/internal/onboarding"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
	"github.com/frahmantamala/project-management/internal/tenant"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

type Dependencies struct {
	Config        *internal.Config
	Logger        *slog.Logger
	Store         kvstore.Store
	Registry      *tenant.Registry
	EventBus      *events.EventBus
	Users         *user.Service
	Auth          *auth.Service
	Authorizer    *auth.Authorizer
	Projects      *project.Service
	Tasks         *task.Service
	Activity      *activity.Log
	Announcements *announcement.Service
	Dashboard     *dashboard.Service
	Onboarding    *onboarding.Service
}

func initializeDependencies(cfg *internal.Config) (*Dependencies, error) {
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	lg := logger.LoggerWrapper()

	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	hasher, err := password.FromConfig(cfg.Security)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	ids := idgen.Default()
	registry := tenant.NewRegistry(store, cfg.Storage.Prefix, onboarding.SampleData{}, lg)
	bus := events.NewEventBus(lg)

	activityLog := activity.NewLog(registry, ids, lg)
	activity.NewEventHandler(activityLog, lg).RegisterEventHandlers(bus)

	users := user.NewService(user.NewStorageRepository(registry), hasher, ids, lg)
	authService := auth.NewService(users, registry, lg)
	projects := project.NewService(project.NewStorageRepository(registry), ids, bus, lg)
	tasks := task.NewService(task.NewStorageRepository(registry), projects, ids, bus, lg)
	announcements := announcement.NewService(registry, bus, lg)

	return &Dependencies{
		Config:        cfg,
		Logger:        lg,
		Store:         store,
		Registry:      registry,
		EventBus:      bus,
		Users:         users,
		Auth:          authService,
		Authorizer:    auth.NewAuthorizer(authService, lg),
		Projects:      projects,
		Tasks:         tasks,
		Activity:      activityLog,
		Announcements: announcements,
		Dashboard:     dashboard.NewService(projects, tasks, activityLog, announcements, lg),
		Onboarding:    onboarding.NewService(registry, users, authService, lg),
	}, nil
}

func openStore(cfg internal.StorageConfig) (kvstore.Store, error) {
	switch cfg.Driver {
	case internal.StorageDriverMemory:
		return kvstore.NewMemoryStore(), nil
	case internal.StorageDriverSQLite:
		return sqlite.Open(cfg.Path)
	case internal.StorageDriverPostgres:
		return postgres.Open(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func closeStore(store kvstore.Store) {
	if c, ok := store.(kvstore.Closer); ok {
		if err := c.Close(); err != nil {
			logger.LoggerWrapper().Error("storage close error", "error", err)
		}
	}
}

func (d *Dependencies) Close() {
	closeStore(d.Store)
}

type runFunc func(ctx context.Context, deps *Dependencies, cmd *cobra.Command, args []string) error

// withDependencies wires the application for one command run. The context
// carries the session user and a logger scoped to the command.
func withDependencies(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		deps, err := initializeDependencies(cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		fields := []any{"command", cmd.CommandPath()}
		if u := deps.Auth.CurrentUser(); u != nil {
			ctx = internal.ContextWithUserID(ctx, u.ID)
			ctx = internal.ContextWithTenantID(ctx, u.TenantID)
			fields = append(fields, "user_id", u.ID, "tenant_id", u.TenantID)
		}
		ctx = logger.With(ctx, fields...)

		return fn(ctx, deps, cmd, args)
	}
}
