// Package storage persists filter snapshots to a pluggable key/value backend.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/codec"
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/performance"
	"github.com/fleetyard/fleetdash/internal/session"
)

// State is the "state" member of a stored blob. Filter sets are
// kept as codec trees so dates survive the trip.
type State struct {
	PaginationModel filter.PaginationModel `json:"paginationModel"`
	ShowFilterBar   bool                   `json:"showFilterBar"`
	BaseFilters     any                    `json:"baseFilters"`
	ViewFilters     any                    `json:"viewFilters"`
	RecentFilters   any                    `json:"recentFilters"`
	PinnedFilters   []filter.PinnedFilter  `json:"pinnedFilters"`
}

// Envelope is one stored blob: the schema version and the state it was
// written with.
type Envelope struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

// Service loads and saves filter snapshots. It implements filter.Persister.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

var _ filter.Persister = (*Service)(nil)

// NewService creates a new storage service over backend.
func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger.Named("storage")}
}

// Backend returns the underlying backend.
func (s *Service) Backend() Backend {
	return s.backend
}

// Load returns the snapshot stored under key if it was written with version.
// Missing, unreadable and stale blobs all report false; the caller falls back
// to the domain defaults.
func (s *Service) Load(key string, version int) (*filter.Snapshot, bool) {
	domain := domainOf(key)
	env, err := s.Inspect(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			performance.RecordLoad(domain, performance.LoadAbsent)
			return nil, false
		}
		s.logger.Warn("discarding unreadable filter snapshot", zap.String("key", key), zap.Error(err))
		performance.RecordLoad(domain, performance.LoadCorrupt)
		return nil, false
	}
	if env.Version != version {
		s.logger.Info("discarding stale filter snapshot",
			zap.String("key", key), zap.Int("stored", env.Version), zap.Int("current", version))
		performance.RecordLoad(domain, performance.LoadStale)
		return nil, false
	}

	performance.RecordLoad(domain, performance.LoadHit)
	return env.Snapshot(), true
}

// Save writes snap under key tagged with version. Failures are logged and
// counted; the in-memory state stays authoritative for the session.
func (s *Service) Save(key string, version int, snap filter.Snapshot) {
	domain := domainOf(key)
	data, err := json.Marshal(NewEnvelope(version, snap))
	if err == nil {
		err = s.backend.Set(key, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist filter snapshot", zap.String("key", key), zap.Error(err))
		performance.RecordSave(domain, performance.SaveFailed)
		return
	}
	performance.RecordSave(domain, performance.SaveOK)
}

// Inspect reads and parses the blob under key without any version check.
func (s *Service) Inspect(key string) (*Envelope, error) {
	data, err := s.backend.Get(key)
	if err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", key, err)
	}
	return &env, nil
}

// Clear deletes the blob under key.
func (s *Service) Clear(key string) error {
	return s.backend.Delete(key)
}

// ClearUser deletes every blob of a user and returns how many were removed.
func (s *Service) ClearUser(userID string) (int, error) {
	keys, err := s.backend.Keys(session.UserPrefix(userID))
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := s.backend.Delete(k); err != nil {
			return 0, fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return len(keys), nil
}

// NewEnvelope encodes snap for storage.
func NewEnvelope(version int, snap filter.Snapshot) Envelope {
	pinned := snap.PinnedFilters
	if pinned == nil {
		pinned = []filter.PinnedFilter{}
	}
	return Envelope{
		Version: version,
		State: State{
			PaginationModel: snap.PaginationModel,
			ShowFilterBar:   snap.ShowFilterBar,
			BaseFilters:     codec.EncodeValue(snap.BaseFilters.Value()),
			ViewFilters:     codec.EncodeValue(snap.ViewFilters.Value()),
			RecentFilters:   codec.EncodeValue(snap.RecentFilters.Value()),
			PinnedFilters:   pinned,
		},
	}
}

// Snapshot decodes the stored state.
func (e *Envelope) Snapshot() *filter.Snapshot {
	return &filter.Snapshot{
		PaginationModel: e.State.PaginationModel,
		ShowFilterBar:   e.State.ShowFilterBar,
		BaseFilters:     filter.FromValue(codec.DecodeValue(e.State.BaseFilters)),
		ViewFilters:     filter.FromValue(codec.DecodeValue(e.State.ViewFilters)),
		RecentFilters:   filter.FromValue(codec.DecodeValue(e.State.RecentFilters)),
		PinnedFilters:   e.State.PinnedFilters,
	}
}

func domainOf(key string) string {
	if _, domain, ok := session.ParseStorageKey(key); ok {
		return domain
	}
	return "unknown"
}
