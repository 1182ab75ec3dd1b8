package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/project-management/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:           "pmp",
	Short:         "Project Management Platform",
	Long:          `Multi-tenant project and task management from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func errorMessage(err error) string {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr.GetDetailedMessage()
	}
	return err.Error()
}

func loadConfig(path string) (*internal.Config, error) {
	// optional; a missing .env is fine
	_ = godotenv.Load()

	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, internal.DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that ENV_ overrides apply even when
// no config file is present.
func setDefaults(v *viper.Viper, def *internal.Config) {
	v.SetDefault("app.env", def.App.Env)
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.source", def.Storage.Source)
	v.SetDefault("storage.prefix", def.Storage.Prefix)
	v.SetDefault("storage.auto_migrate", def.Storage.AutoMigrate)
	v.SetDefault("storage.max_open_conns", def.Storage.MaxOpenConns)
	v.SetDefault("storage.max_idle_conns", def.Storage.MaxIdleConns)
	v.SetDefault("security.password_hashing", def.Security.PasswordHashing)
	v.SetDefault("security.bcrypt_cost", def.Security.BCryptCost)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yml")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table or json")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
