package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Store   StoreConfig   `mapstructure:"store"`
	Session SessionConfig `mapstructure:"session"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
}

// StoreConfig describes where the roster file lives.
// An empty File means the file is discovered inside Dir.
type StoreConfig struct {
	File        string `mapstructure:"file"`
	Dir         string `mapstructure:"dir"`
	DefaultName string `mapstructure:"default_name" validate:"required"`
}

// SessionConfig holds interactive prompt settings
type SessionConfig struct {
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format" validate:"oneof=console json"`
	Output   string `mapstructure:"output" validate:"oneof=stderr stdout file"`
	Filename string `mapstructure:"filename" validate:"required_if=Output file"`
}

// MetricsConfig holds metrics configuration. Metrics are dumped to a
// Prometheus textfile on exit.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile" validate:"required_if=Enabled true"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Employee Management System")
	v.SetDefault("app.version", "1.0.0")

	// Store defaults
	v.SetDefault("store.file", "")
	v.SetDefault("store.dir", "")
	v.SetDefault("store.default_name", "employees.csv")

	// Session defaults
	v.SetDefault("session.max_attempts", 3)

	// Logger defaults
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "roster.prom")
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "ROSTER_APP_NAME")
	_ = v.BindEnv("app.version", "ROSTER_APP_VERSION")

	// Store
	_ = v.BindEnv("store.file", "ROSTER_FILE")
	_ = v.BindEnv("store.dir", "ROSTER_DIR")
	_ = v.BindEnv("store.default_name", "ROSTER_DEFAULT_NAME")

	// Session
	_ = v.BindEnv("session.max_attempts", "ROSTER_MAX_ATTEMPTS")

	// Logger
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("logger.format", "LOG_FORMAT")
	_ = v.BindEnv("logger.output", "LOG_OUTPUT")
	_ = v.BindEnv("logger.filename", "LOG_FILENAME")

	// Metrics
	_ = v.BindEnv("metrics.enabled", "ENABLE_METRICS")
	_ = v.BindEnv("metrics.textfile", "METRICS_TEXTFILE")
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s failed %q validation", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	return nil
}
