package filter

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fleetyard/fleetdash/internal/value"
)

// MaxRecent bounds every recent-values list.
const MaxRecent = 5

// ChangedEvent is emitted after every mutating action.
const ChangedEvent = "filters:changed"

// PaginationModel is the table page the committed filters are shown on.
type PaginationModel struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// PinnedFilter is a field promoted to the filter bar.
type PinnedFilter struct {
	Group      string `json:"group"`
	FilterType string `json:"filterType"`
}

// Snapshot is the full persisted state of one store.
type Snapshot struct {
	PaginationModel PaginationModel
	ShowFilterBar   bool
	BaseFilters     FilterSet
	ViewFilters     FilterSet
	RecentFilters   FilterSet
	PinnedFilters   []PinnedFilter
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.BaseFilters = s.BaseFilters.Clone()
	out.ViewFilters = s.ViewFilters.Clone()
	out.RecentFilters = s.RecentFilters.Clone()
	out.PinnedFilters = append([]PinnedFilter(nil), s.PinnedFilters...)
	return out
}

// Persister loads and saves snapshots under a storage key. Load reports false
// when nothing usable is stored for that version; Save never fails loudly.
type Persister interface {
	Load(key string, version int) (*Snapshot, bool)
	Save(key string, version int, snap Snapshot)
}

// Emitter notifies the UI of state changes.
type Emitter interface {
	Emit(eventName string, data interface{})
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	logger  *zap.Logger
	emitter Emitter
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEmitter sets the change notifier.
func WithEmitter(e Emitter) Option {
	return func(o *storeOptions) { o.emitter = e }
}

// Store is the filter state of one domain for one user.
type Store[D any] struct {
	schema    *Schema[D]
	key       string
	defaults  FilterSet
	persister Persister
	emitter   Emitter
	logger    *zap.Logger

	mu    sync.Mutex
	state Snapshot
}

// NewStore builds a store for schema under storageKey and hydrates it from
// persister. A nil persister keeps the state in memory only.
func NewStore[D any](schema *Schema[D], storageKey string, persister Persister, opts ...Option) *Store[D] {
	o := storeOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[D]{
		schema:    schema,
		key:       storageKey,
		defaults:  schema.Defaults(),
		persister: persister,
		emitter:   o.emitter,
		logger:    o.logger.With(zap.String("domain", schema.Name()), zap.String("key", storageKey)),
	}
	s.state = s.initialState()
	s.hydrate()
	return s
}

func (s *Store[D]) initialState() Snapshot {
	pinned := make([]PinnedFilter, 0, len(s.schema.prePinned))
	for _, k := range s.schema.prePinned {
		pinned = appendPinned(pinned, PinnedFilter{Group: k.group, FilterType: k.field})
	}
	return Snapshot{
		PaginationModel: PaginationModel{Page: 0, PageSize: s.schema.pageSize},
		BaseFilters:     s.defaults.Clone(),
		ViewFilters:     s.defaults.Clone(),
		RecentFilters:   FilterSet{},
		PinnedFilters:   pinned,
	}
}

func (s *Store[D]) hydrate() {
	if s.persister == nil {
		return
	}
	loaded, ok := s.persister.Load(s.key, s.schema.Version())
	if !ok || loaded == nil {
		s.logger.Debug("no persisted filters, using defaults")
		return
	}

	s.state.ShowFilterBar = loaded.ShowFilterBar
	if loaded.PaginationModel.PageSize > 0 {
		s.state.PaginationModel = loaded.PaginationModel
	}
	if loaded.BaseFilters != nil {
		s.state.BaseFilters = conform(loaded.BaseFilters, s.defaults)
	}
	if loaded.ViewFilters != nil {
		s.state.ViewFilters = conform(loaded.ViewFilters, s.defaults)
	}
	s.state.RecentFilters = s.conformRecent(loaded.RecentFilters)
	if loaded.PinnedFilters != nil {
		pinned := make([]PinnedFilter, 0, len(loaded.PinnedFilters))
		for _, p := range loaded.PinnedFilters {
			if _, ok := s.schema.Lookup(p.Group, p.FilterType); ok {
				pinned = appendPinned(pinned, p)
			}
		}
		s.state.PinnedFilters = pinned
	}
	s.logger.Debug("hydrated persisted filters")
}

// conformRecent keeps only declared fields and caps every list.
func (s *Store[D]) conformRecent(recent FilterSet) FilterSet {
	out := FilterSet{}
	for g, fields := range recent {
		for f, v := range fields {
			if _, ok := s.schema.Lookup(g, f); !ok {
				continue
			}
			arr, ok := v.(value.Array)
			if !ok {
				continue
			}
			if len(arr) > MaxRecent {
				arr = arr[:MaxRecent]
			}
			if out[g] == nil {
				out[g] = Group{}
			}
			out[g][f] = value.Clone(arr)
		}
	}
	return out
}

// commit persists the current state and notifies listeners. Callers hold mu.
func (s *Store[D]) commit(action string) {
	if s.persister != nil {
		s.persister.Save(s.key, s.schema.Version(), s.state.Clone())
	}
	if s.emitter != nil {
		s.emitter.Emit(ChangedEvent, map[string]interface{}{
			"domain": s.schema.Name(),
			"action": action,
		})
	}
	s.logger.Debug("filter action", zap.String("action", action))
}

// Domain returns the domain name.
func (s *Store[D]) Domain() string { return s.schema.Name() }

// Version returns the schema version.
func (s *Store[D]) Version() int { return s.schema.Version() }

// StorageKey returns the key the store persists under.
func (s *Store[D]) StorageKey() string { return s.key }

// Schema returns the domain schema.
func (s *Store[D]) Schema() *Schema[D] { return s.schema }

// Defaults returns a copy of the domain defaults.
func (s *Store[D]) Defaults() FilterSet { return s.defaults.Clone() }

// Snapshot returns a copy of the whole state.
func (s *Store[D]) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ShowFilterBar reports whether the filter bar is visible.
func (s *Store[D]) ShowFilterBar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ShowFilterBar
}

// Filters returns a copy of the staged set when selectFromView is true, the
// committed set otherwise.
func (s *Store[D]) Filters(selectFromView bool) FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.side(selectFromView).Clone()
}

// Filter returns one field of the staged or committed set.
func (s *Store[D]) Filter(k Key[D], selectFromView bool) value.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return value.Clone(s.side(selectFromView).Get(k.group, k.field))
}

// RecentFilters returns the recently used values of k, newest first.
func (s *Store[D]) RecentFilters(k Key[D]) value.Array {
	s.mu.Lock()
	defer s.mu.Unlock()
	arr, _ := s.state.RecentFilters.Get(k.group, k.field).(value.Array)
	return value.Clone(arr).(value.Array)
}

// PinnedFilters returns the pinned fields in pin order.
func (s *Store[D]) PinnedFilters() []PinnedFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PinnedFilter(nil), s.state.PinnedFilters...)
}

// PaginationModel returns the current page.
func (s *Store[D]) PaginationModel() PaginationModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PaginationModel
}

func (s *Store[D]) side(selectFromView bool) FilterSet {
	if selectFromView {
		return s.state.ViewFilters
	}
	return s.state.BaseFilters
}

// ToggleFilterBar flips the filter bar visibility.
func (s *Store[D]) ToggleFilterBar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowFilterBar = !s.state.ShowFilterBar
	s.commit("toggleFilterBar")
}

// SetBaseFilter sets one committed field, leaving the rest untouched.
func (s *Store[D]) SetBaseFilter(k Key[D], v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setField(s.state.BaseFilters, k.group, k.field, v)
	s.commit("setBaseFilter")
}

// SetViewFilter sets one staged field and returns to the first page.
func (s *Store[D]) SetViewFilter(k Key[D], v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setField(s.state.ViewFilters, k.group, k.field, v)
	s.state.PaginationModel.Page = 0
	s.commit("setViewFilter")
}

func setField(fs FilterSet, group, field string, v value.Value) {
	if fs[group] == nil {
		fs[group] = Group{}
	}
	fs[group][field] = value.Clone(v)
}

// SaveBaseFilters commits the staged set.
func (s *Store[D]) SaveBaseFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.BaseFilters = s.state.ViewFilters.Clone()
	s.commit("saveBaseFilters")
}

// SetRecentFilter records v (or each element of v when it is an array) as the
// most recent value of k. Lists keep the newest MaxRecent entries.
func (s *Store[D]) SetRecentFilter(k Key[D], v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added value.Array
	if arr, ok := v.(value.Array); ok {
		added = value.Clone(arr).(value.Array)
	} else {
		added = value.Array{value.Clone(v)}
	}
	prev, _ := s.state.RecentFilters.Get(k.group, k.field).(value.Array)
	next := append(added, prev...)
	if len(next) > MaxRecent {
		next = next[:MaxRecent]
	}
	setField(s.state.RecentFilters, k.group, k.field, next)
	s.commit("setRecentFilter")
}

// ResetBaseFilters replaces the committed set. nil means the defaults.
func (s *Store[D]) ResetBaseFilters(fs FilterSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fs == nil {
		fs = s.defaults
	}
	s.state.BaseFilters = conform(fs, s.defaults)
	s.commit("resetBaseFilters")
}

// ResetViewFilters discards staged edits, back to the defaults when
// useInitial is set or to the committed set otherwise.
func (s *Store[D]) ResetViewFilters(useInitial bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if useInitial {
		s.state.ViewFilters = s.defaults.Clone()
	} else {
		s.state.ViewFilters = s.state.BaseFilters.Clone()
	}
	s.state.PaginationModel.Page = 0
	s.commit("resetViewFilters")
}

// EmptyViewFilters clears every staged field: arrays to [] and everything
// else to null.
func (s *Store[D]) EmptyViewFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ViewFilters = emptied(s.defaults)
	s.commit("emptyViewFilters")
}

// FillViewFilters replaces the staged set. nil means the defaults.
func (s *Store[D]) FillViewFilters(fs FilterSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fs == nil {
		fs = s.defaults
	}
	s.state.ViewFilters = conform(fs, s.defaults)
	s.commit("fillViewFilters")
}

// SetPinnedFilter pins or unpins k. Pinning twice is a no-op.
func (s *Store[D]) SetPinnedFilter(k Key[D], pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := PinnedFilter{Group: k.group, FilterType: k.field}
	if pinned {
		s.state.PinnedFilters = appendPinned(s.state.PinnedFilters, p)
	} else {
		out := s.state.PinnedFilters[:0:0]
		for _, existing := range s.state.PinnedFilters {
			if existing != p {
				out = append(out, existing)
			}
		}
		s.state.PinnedFilters = out
	}
	s.commit("setPinnedFilter")
}

func appendPinned(list []PinnedFilter, p PinnedFilter) []PinnedFilter {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}

// IsFilterPinned reports whether k is on the filter bar.
func (s *Store[D]) IsFilterPinned(k Key[D]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := PinnedFilter{Group: k.group, FilterType: k.field}
	for _, existing := range s.state.PinnedFilters {
		if existing == p {
			return true
		}
	}
	return false
}

// FiltersPinnedCount returns how many fields are pinned.
func (s *Store[D]) FiltersPinnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.PinnedFilters)
}

// SetPaginationModel replaces the pagination model.
func (s *Store[D]) SetPaginationModel(m PaginationModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PaginationModel = m
	s.commit("setPaginationModel")
}

// FilterCounts counts the active filters of the staged or committed set.
func (s *Store[D]) FilterCounts(selectFromView bool) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countFilters(s.side(selectFromView), s.defaults, s.schema.combined)
}

// ActiveFiltersCount is the badge count of one staged field: the number of
// selected elements for arrays, 0 or 1 otherwise.
func (s *Store[D]) ActiveFiltersCount(k Key[D]) int {
	return s.activeCount(k, true)
}

func (s *Store[D]) activeCount(k Key[D], selectFromView bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, declared := s.defaults[k.group][k.field]
	if !declared {
		return 0
	}
	return fieldCount(s.side(selectFromView).Get(k.group, k.field), def)
}
