package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid config")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env" validate:"required"`          // current application environment (local, dev, production)
	TelegramAPIToken string    `mapstructure:"-"`                                // Telegram API token loaded from environment
	Timezone         string    `mapstructure:"timezone"`                         // calendar used to decide what "today" is
	CatalogPath      string    `mapstructure:"catalog_path" validate:"required"` // path to the .json or .xlsx word catalog
	Storage          Storage   `mapstructure:"storage"`
	DB               DB        `mapstructure:"database"` // database configuration section
	Session          Session   `mapstructure:"session"`
	Level            Level     `mapstructure:"level"`
	Reminders        Reminders `mapstructure:"reminders"`
	Admin            Admin     `mapstructure:"admin"`
}

// Storage selects the progress store backend.
type Storage struct {
	Driver     string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                  // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"gte=1"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" validate:"gte=0"` // maximum lifetime of a single connection
}

// Session configures practice sessions.
type Session struct {
	Size               int `mapstructure:"size" validate:"gte=1,lte=100"`
	MaxShuffleAttempts int `mapstructure:"max_shuffle_attempts" validate:"gte=1"`
}

// Level configures the unlock gate.
type Level struct {
	MasteryThreshold float64 `mapstructure:"mastery_threshold" validate:"gt=0,lte=1"`
	MasteryBox       int     `mapstructure:"mastery_box" validate:"gte=1,lte=5"`
	MaxLevel         int     `mapstructure:"max_level" validate:"gte=1"`
}

// Reminders configures the daily review reminder job.
type Reminders struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron" validate:"required_if=Enabled true"`
}

// Admin lists Telegram users allowed to run privileged commands.
type Admin struct {
	UserIDs []int64 `mapstructure:"user_ids"`
}

// IsAdmin reports whether userID may run privileged commands.
func (a Admin) IsAdmin(userID int64) bool {
	return slices.Contains(a.UserIDs, userID)
}

// IsProduction reports whether the bot runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the configured practice timezone.
func (c *Config) Location() (*time.Location, error) {
	return entities.ParseLocation(c.Timezone)
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from ./config and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads configuration from config.yaml in dir and environment variables.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("catalog_path", "assets/catalog.json")
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.sqlite_path", "data/progress.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("session.size", 10)
	v.SetDefault("session.max_shuffle_attempts", 10)
	v.SetDefault("level.mastery_threshold", 0.7)
	v.SetDefault("level.mastery_box", 3)
	v.SetDefault("level.max_level", 15)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.cron", "0 9 * * *")
	v.SetDefault("admin.user_ids", []int64{})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.Storage.Driver == DriverPostgres && cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}
