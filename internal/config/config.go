// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageBadger = "badger"
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
)

// Config holds runtime settings.
type Config struct {
	ConfigDir     string
	Storage       string
	MongoURI      string
	MongoDatabase string
	LogLevel      string
	Environment   string
	Debug         bool
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		ConfigDir:     getEnv("FLEET_CONFIG_DIR", ""),
		Storage:       strings.ToLower(getEnv("FLEET_STORAGE", StorageFile)),
		MongoURI:      getEnv("FLEET_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("FLEET_MONGO_DATABASE", "fleetdash"),
		LogLevel:      getEnv("FLEET_LOG_LEVEL", "info"),
		Environment:   getEnv("FLEET_ENV", "development"),
		Debug:         getEnv("FLEET_DEBUG", "false") == "true",
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the per-user config directory for the app.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, "fleetdash")
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
