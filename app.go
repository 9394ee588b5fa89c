package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/config"
	"github.com/fleetyard/fleetdash/internal/core"
	"github.com/fleetyard/fleetdash/internal/debug"
	"github.com/fleetyard/fleetdash/internal/domains/accrueddistance"
	assetsdomain "github.com/fleetyard/fleetdash/internal/domains/assets"
	"github.com/fleetyard/fleetdash/internal/domains/idleassets"
	"github.com/fleetyard/fleetdash/internal/domains/movingassets"
	"github.com/fleetyard/fleetdash/internal/domains/yardcheck"
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/logging"
	"github.com/fleetyard/fleetdash/internal/performance"
	"github.com/fleetyard/fleetdash/internal/reports"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/storage"
)

// =============================================================================
// Type Re-exports for Wails Binding Generation
// =============================================================================

type PaginationModel = filter.PaginationModel
type PinnedFilter = filter.PinnedFilter
type FilterCounts = filter.Counts
type Report = reports.Report
type PerformanceMetrics = performance.Metrics

// FilterState is the full state of one domain store as the UI sees it.
// Filter sets are in the tagged JSON form, so dates arrive as
// {"_type": "date", "value": "..."}.
type FilterState struct {
	Domain  string `json:"domain"`
	Version int    `json:"version"`
	storage.State
	Counts     FilterCounts `json:"counts"`
	ViewCounts FilterCounts `json:"viewCounts"`
}

// =============================================================================
// App - Thin Facade for Wails Bindings
// =============================================================================

// App struct holds the application state and services
type App struct {
	state   *core.AppState
	cfg     *config.Config
	logger  *zap.Logger
	backend storage.Backend
	storage *storage.Service
	session *session.Service
	reports *reports.Service
	perf    *performance.Service
}

// NewApp creates a new App instance
func NewApp() *App {
	state := core.NewAppState()
	return &App{
		state:   state,
		logger:  zap.NewNop(),
		session: session.NewService(),
		perf:    performance.NewService(state),
	}
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.state.Ctx = ctx
	a.state.Emitter = &core.WailsEventEmitter{Ctx: ctx}
	debug.Init(ctx)

	cfg, err := config.Load()
	if err != nil {
		a.logger.Error("failed to load config", zap.Error(err))
		return
	}
	debug.SetEnabled(cfg.Debug)

	if err := a.initServices(cfg); err != nil {
		a.logger.Error("failed to initialise storage", zap.Error(err))
		return
	}

	user, err := a.session.CurrentUser()
	if err != nil {
		a.logger.Warn("failed to read signed-in user", zap.Error(err))
		return
	}
	if user != "" {
		a.openStores(user)
	}
}

// initServices wires logging, storage and reports for cfg.
func (a *App) initServices(cfg *config.Config) error {
	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	backend, err := storage.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}

	a.cfg = cfg
	a.logger = logger
	a.backend = backend
	a.state.ConfigDir = cfg.ConfigDir
	a.storage = storage.NewService(backend, logger)
	a.reports = reports.NewService(cfg.ConfigDir, logger)
	logger.Info("storage ready", zap.String("backend", cfg.Storage), zap.String("dir", cfg.ConfigDir))
	return nil
}

// shutdown is called when the app is closing
func (a *App) shutdown(ctx context.Context) {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Warn("failed to close storage", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// openStores builds and registers the stores of every domain for a user.
// Each store hydrates from storage as it is created.
func (a *App) openStores(userID string) {
	opts := []filter.Option{
		filter.WithLogger(a.logger.Named("filters")),
		filter.WithEmitter(a.state),
	}

	a.state.ResetStores()
	a.state.Mu.Lock()
	a.state.UserID = userID
	a.state.Mu.Unlock()

	a.state.Register(yardcheck.New(userID, a.storage, opts...))
	a.state.Register(accrueddistance.New(userID, a.storage, opts...))
	a.state.Register(assetsdomain.New(userID, a.storage, opts...))
	a.state.Register(idleassets.New(userID, a.storage, opts...))
	a.state.Register(movingassets.New(userID, a.storage, opts...))

	a.logger.Info("filter stores opened", zap.String("user", userID), zap.Int("domains", a.state.StoreCount()))
}

func (a *App) currentUser() (string, error) {
	a.state.Mu.RLock()
	defer a.state.Mu.RUnlock()
	if a.state.UserID == "" {
		return "", &core.NoUserError{}
	}
	return a.state.UserID, nil
}

// =============================================================================
// Session Methods
// =============================================================================

// GetCurrentUser returns the signed-in user, empty when nobody is.
func (a *App) GetCurrentUser() string {
	user, _ := a.currentUser()
	return user
}

// SignIn remembers userID and opens that user's filter stores.
func (a *App) SignIn(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if a.storage == nil {
		return fmt.Errorf("storage is not initialised")
	}
	if err := a.session.SetCurrentUser(userID); err != nil {
		return err
	}
	a.openStores(userID)
	a.logger.Named("session").Info("signed in", zap.String("user", userID))
	a.state.EmitEvent("session:changed", userID)
	return nil
}

// SignOut forgets the current user and closes the filter stores. Persisted
// filters are kept for the next sign-in.
func (a *App) SignOut() error {
	if err := a.session.ClearCurrentUser(); err != nil {
		return err
	}
	a.state.ResetStores()
	a.state.Mu.Lock()
	a.state.UserID = ""
	a.state.Mu.Unlock()
	a.state.EmitEvent("session:changed", "")
	return nil
}

// ClearSavedFilters deletes every persisted snapshot of the current user and
// reopens the stores from defaults. It returns how many snapshots were removed.
func (a *App) ClearSavedFilters() (int, error) {
	user, err := a.currentUser()
	if err != nil {
		return 0, err
	}
	n, err := a.storage.ClearUser(user)
	if err != nil {
		return 0, err
	}
	a.openStores(user)
	return n, nil
}

// =============================================================================
// Performance / Debug Methods
// =============================================================================

func (a *App) GetPerformanceMetrics() *PerformanceMetrics {
	return a.perf.GetMetrics()
}

func (a *App) SetDebugEnabled(enabled bool) {
	debug.SetEnabled(enabled)
}

func (a *App) IsDebugEnabled() bool {
	return debug.IsEnabled()
}
