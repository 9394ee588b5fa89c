package filter

import "github.com/fleetyard/fleetdash/internal/value"

// Actions is the action set bound to one side of a store: the staged set when
// built with selectFromView, the committed set otherwise.
type Actions[D any] struct {
	store    *Store[D]
	fromView bool
}

// Actions returns the action set for the chosen side.
func (s *Store[D]) Actions(selectFromView bool) Actions[D] {
	return Actions[D]{store: s, fromView: selectFromView}
}

// SetFilter sets k on the bound side.
func (a Actions[D]) SetFilter(k Key[D], v value.Value) {
	if a.fromView {
		a.store.SetViewFilter(k, v)
		return
	}
	a.store.SetBaseFilter(k, v)
}

// Reset discards staged edits on the view side and restores the defaults on
// the committed side.
func (a Actions[D]) Reset() {
	if a.fromView {
		a.store.ResetViewFilters(false)
		return
	}
	a.store.ResetBaseFilters(nil)
}

// Fill replaces the bound side wholesale.
func (a Actions[D]) Fill(fs FilterSet) {
	if a.fromView {
		a.store.FillViewFilters(fs)
		return
	}
	a.store.ResetBaseFilters(fs)
}

// Save commits staged edits.
func (a Actions[D]) Save() { a.store.SaveBaseFilters() }

// SetRecentFilter records a recently used value.
func (a Actions[D]) SetRecentFilter(k Key[D], v value.Value) { a.store.SetRecentFilter(k, v) }

// SetPinnedFilter pins or unpins k.
func (a Actions[D]) SetPinnedFilter(k Key[D], pinned bool) { a.store.SetPinnedFilter(k, pinned) }

// ToggleFilterBar flips the filter bar.
func (a Actions[D]) ToggleFilterBar() { a.store.ToggleFilterBar() }

// SetPaginationModel replaces the pagination model.
func (a Actions[D]) SetPaginationModel(m PaginationModel) { a.store.SetPaginationModel(m) }

// CountsView is a counts result bound to one side of a store.
type CountsView[D any] struct {
	Counts
	store    *Store[D]
	fromView bool
}

// FiltersCounts counts the chosen side and keeps it for per-field lookups.
func (s *Store[D]) FiltersCounts(selectFromView bool) CountsView[D] {
	return CountsView[D]{
		Counts:   s.FilterCounts(selectFromView),
		store:    s,
		fromView: selectFromView,
	}
}

// ActiveFiltersCount is the badge count of k on the bound side.
func (c CountsView[D]) ActiveFiltersCount(k Key[D]) int {
	return c.store.activeCount(k, c.fromView)
}

// Group returns the count of one group.
func (c CountsView[D]) Group(group string) int {
	return c.Groups[group]
}
