// Command filterctl inspects and clears persisted filter snapshots.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/config"
	"github.com/fleetyard/fleetdash/internal/logging"
	"github.com/fleetyard/fleetdash/internal/storage"
)

func main() {
	root := newRootCmd(openService)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openService opens the backend configured by the environment, the same one
// the desktop app uses.
func openService() (*storage.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		logger = zap.NewNop()
	}
	backend, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		_ = backend.Close()
		_ = logger.Sync()
	}
	return storage.NewService(backend, logger), closeFn, nil
}
