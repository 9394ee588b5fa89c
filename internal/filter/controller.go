package filter

import (
	"fmt"

	"github.com/fleetyard/fleetdash/internal/value"
)

// UnknownFilterError is returned by lookups of fields a domain does not declare.
type UnknownFilterError struct {
	Domain string
	Group  string
	Field  string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %s.%s in domain %s", e.Group, e.Field, e.Domain)
}

// Controller is the string-keyed view of a store used where the domain type is
// not known statically: the UI bindings, saved reports and the admin CLI.
//
// Undeclared fields never fail. Reads return nil and writes are stored but
// not counted, since there is no default to compare against.
type Controller interface {
	Domain() string
	Version() int
	StorageKey() string
	Defaults() FilterSet
	Snapshot() Snapshot
	Filters(selectFromView bool) FilterSet
	Declared(group, field string) bool

	ToggleFilterBar()
	SetFilter(selectFromView bool, group, field string, v value.Value)
	SaveBaseFilters()
	SetRecent(group, field string, v value.Value)
	ResetBaseFilters(fs FilterSet)
	ResetViewFilters(useInitial bool)
	EmptyViewFilters()
	FillViewFilters(fs FilterSet)
	SetPinned(group, field string, pinned bool)
	IsPinned(group, field string) bool
	FiltersPinnedCount() int
	SetPaginationModel(m PaginationModel)
	PaginationModel() PaginationModel

	FilterCounts(selectFromView bool) Counts
	ActiveCount(selectFromView bool, group, field string) int
}

var _ Controller = (*Store[struct{}])(nil)

// Declared reports whether group.field is part of the domain.
func (s *Store[D]) Declared(group, field string) bool {
	_, ok := s.schema.Lookup(group, field)
	return ok
}

// SetFilter sets a field by name on the staged or committed set.
func (s *Store[D]) SetFilter(selectFromView bool, group, field string, v value.Value) {
	k := s.schema.rawKey(group, field)
	if selectFromView {
		s.SetViewFilter(k, v)
		return
	}
	s.SetBaseFilter(k, v)
}

// SetRecent records a recently used value by field name.
func (s *Store[D]) SetRecent(group, field string, v value.Value) {
	s.SetRecentFilter(s.schema.rawKey(group, field), v)
}

// SetPinned pins or unpins a field by name.
func (s *Store[D]) SetPinned(group, field string, pinned bool) {
	s.SetPinnedFilter(s.schema.rawKey(group, field), pinned)
}

// IsPinned reports whether a field is pinned.
func (s *Store[D]) IsPinned(group, field string) bool {
	return s.IsFilterPinned(s.schema.rawKey(group, field))
}

// ActiveCount is the badge count of a field on the chosen side.
func (s *Store[D]) ActiveCount(selectFromView bool, group, field string) int {
	return s.activeCount(s.schema.rawKey(group, field), selectFromView)
}
