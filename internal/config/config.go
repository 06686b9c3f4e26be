package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hetracker/internal/errors"
)

// Dataset source kinds
const (
	SourceMemory = "memory"
	SourceFiles  = "files"
	SourceSQL    = "sql"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Pipeline PipelineConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig selects where raw datasets are read from
type DataConfig struct {
	Source string
	Dir    string
}

// DatabaseConfig holds the SQL dataset source settings
type DatabaseConfig struct {
	URL             string
	Driver          string
	TablePrefix     string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// PipelineConfig tunes query execution
type PipelineConfig struct {
	// NationalExcludedStates are state FIPS codes left out of the merged
	// national population total
	NationalExcludedStates []string
	MaxConcurrentProviders int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Data:     *loadDataConfig(),
		Database: *loadDatabaseConfig(),
		Pipeline: *loadPipelineConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Source: strings.ToLower(getEnvOrDefault("DATASET_SOURCE", SourceFiles)),
		Dir:    getEnvOrDefault("DATA_DIR", "./data"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		Driver:          getEnvOrDefault("DB_DRIVER", "postgres"),
		TablePrefix:     getEnvOrDefault("DATASET_TABLE_PREFIX", ""),
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		NationalExcludedStates: getEnvListOrDefault("COVID_NATIONAL_EXCLUDED_STATES", nil),
		MaxConcurrentProviders: getEnvIntOrDefault("MAX_CONCURRENT_PROVIDERS", 4),
	}
}

func validateConfig(config *Config) error {
	switch config.Data.Source {
	case SourceMemory:
	case SourceFiles:
		if config.Data.Dir == "" {
			return errors.ConfigInvalid("DATA_DIR is required for the files dataset source")
		}
	case SourceSQL:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the sql dataset source")
		}
	default:
		return errors.ConfigInvalid("DATASET_SOURCE must be one of memory, files, sql")
	}
	if config.Pipeline.MaxConcurrentProviders < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_PROVIDERS must be at least 1")
	}
	for _, code := range config.Pipeline.NationalExcludedStates {
		if len(code) != 2 {
			return errors.ConfigInvalid("COVID_NATIONAL_EXCLUDED_STATES must list two-digit state FIPS codes")
		}
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

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
