package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application.
// Following 12-factor app principles, all config is loaded from environment
// variables; only the optional search-alias table lives in a file.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Search   SearchConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type DatabaseConfig struct {
	// URL is the postgres DSN. Required when Storage is "postgres".
	URL string
	// Storage selects the store backend: "postgres" or "memory".
	Storage string
}

type SearchConfig struct {
	// AliasFile points at an optional TOML/YAML/JSON file with an
	// "aliases" table overriding the built-in search aliases.
	AliasFile string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	databaseURL := getEnv("DATABASE_URL", "")

	defaultStorage := StorageMemory
	if databaseURL != "" {
		defaultStorage = StoragePostgres
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			URL:     databaseURL,
			Storage: getEnv("STORAGE", defaultStorage),
		},
		Search: SearchConfig{
			AliasFile: getEnv("SEARCH_ALIASES_FILE", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE is postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be postgres or memory)", c.Database.Storage)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// SearchAliases loads the alias table from the configured file. It returns
// nil when no file is configured; the caller falls back to the built-in
// defaults.
func (c *Config) SearchAliases() (map[string][]string, error) {
	if c.Search.AliasFile == "" {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(c.Search.AliasFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", c.Search.AliasFile, err)
	}

	aliases := v.GetStringMapStringSlice("aliases")
	if len(aliases) == 0 {
		return nil, fmt.Errorf("alias file %s has no aliases table", c.Search.AliasFile)
	}
	return aliases, nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
