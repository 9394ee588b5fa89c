package storage

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/config"
)

// Open returns the backend selected by cfg.Storage.
func Open(cfg *config.Config, logger *zap.Logger) (Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Storage {
	case config.StorageFile, "":
		return NewFileBackend(cfg.ConfigDir)
	case config.StorageMemory:
		return NewMemoryBackend(), nil
	case config.StorageBadger:
		bcfg := DefaultBadgerConfig(filepath.Join(cfg.ConfigDir, "badger"))
		bcfg.Logger = logger
		return NewBadgerBackend(bcfg)
	case config.StorageSQLite:
		return NewSQLiteBackend(filepath.Join(cfg.ConfigDir, "filters.db"))
	case config.StorageMongo:
		return NewMongoBackend(cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
