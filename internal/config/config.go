package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"sigplot/domain/significance"
	"sigplot/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  log.Level
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// ResetOnStart drops stored analyses before the schema is applied.
	ResetOnStart bool
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// AnalysisConfig holds the defaults used when a request does not say
// otherwise.
type AnalysisConfig struct {
	Strategy     significance.Strategy
	Alpha        float64
	SettingsFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	strategy, err := significance.ParseStrategy(getEnvOrDefault("SIGPLOT_STRATEGY", string(significance.OneWay)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	level, err := log.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, errors.ConfigInvalid("LOG_LEVEL: " + err.Error())
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ResetOnStart:    getEnvBoolOrDefault("DB_RESET", false),
		},
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Analysis: AnalysisConfig{
			Strategy:     strategy,
			Alpha:        getEnvFloatOrDefault("SIGPLOT_ALPHA", 0.05),
			SettingsFile: os.Getenv("SIGPLOT_SETTINGS"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
		LogLevel: level,
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if !(config.Analysis.Alpha > 0 && config.Analysis.Alpha < 1) {
		return errors.ConfigInvalid("SIGPLOT_ALPHA must be in (0, 1)")
	}
	if config.Database.MaxOpenConns < 1 {
		return errors.ConfigInvalid("DB_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
