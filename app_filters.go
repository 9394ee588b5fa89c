package main

import (
	"github.com/fleetyard/fleetdash/internal/codec"
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/storage"
)

// =============================================================================
// Filter Methods — string-keyed access to the domain stores
// =============================================================================
//
// Values cross the binding as plain JSON with dates tagged by the codec.

func (a *App) store(domain string) (filter.Controller, error) {
	return a.state.GetStore(domain)
}

// declared rejects fields the domain does not know about.
func declared(ctl filter.Controller, group, field string) error {
	if !ctl.Declared(group, field) {
		return &filter.UnknownFilterError{Domain: ctl.Domain(), Group: group, Field: field}
	}
	return nil
}

// filterSet decodes a filter set from the frontend. A null argument means
// "use the defaults" and decodes to nil.
func filterSet(raw interface{}) filter.FilterSet {
	if raw == nil {
		return nil
	}
	return filter.FromValue(codec.DecodeValue(raw))
}

// ListDomains returns the domains with an open store.
func (a *App) ListDomains() []string {
	return a.state.Domains()
}

// GetFilterState returns the whole state of a domain store.
func (a *App) GetFilterState(domain string) (FilterState, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return FilterState{}, err
	}
	env := storage.NewEnvelope(ctl.Version(), ctl.Snapshot())
	return FilterState{
		Domain:     ctl.Domain(),
		Version:    env.Version,
		State:      env.State,
		Counts:     ctl.FilterCounts(false),
		ViewCounts: ctl.FilterCounts(true),
	}, nil
}

// GetFilters returns the committed or staged filter set.
func (a *App) GetFilters(domain string, selectFromView bool) (interface{}, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return nil, err
	}
	return codec.EncodeValue(ctl.Filters(selectFromView).Value()), nil
}

// GetFilter returns one field. Undeclared fields read as null.
func (a *App) GetFilter(domain string, selectFromView bool, group, field string) (interface{}, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return nil, err
	}
	return codec.EncodeValue(ctl.Filters(selectFromView).Get(group, field)), nil
}

// SetFilter sets one field on the staged or committed set. Writes to fields
// the domain does not declare are kept but never counted.
func (a *App) SetFilter(domain string, selectFromView bool, group, field string, raw interface{}) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.SetFilter(selectFromView, group, field, codec.DecodeValue(raw))
	return nil
}

func (a *App) SaveBaseFilters(domain string) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.SaveBaseFilters()
	return nil
}

// ResetBaseFilters replaces the committed set; null restores the defaults.
func (a *App) ResetBaseFilters(domain string, raw interface{}) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.ResetBaseFilters(filterSet(raw))
	return nil
}

func (a *App) ResetViewFilters(domain string, useInitial bool) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.ResetViewFilters(useInitial)
	return nil
}

func (a *App) EmptyViewFilters(domain string) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.EmptyViewFilters()
	return nil
}

// FillViewFilters replaces the staged set; null restores the defaults.
func (a *App) FillViewFilters(domain string, raw interface{}) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.FillViewFilters(filterSet(raw))
	return nil
}

func (a *App) SetRecentFilter(domain, group, field string, raw interface{}) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.SetRecent(group, field, codec.DecodeValue(raw))
	return nil
}

// GetRecentFilters returns the recent values of one field, newest first.
func (a *App) GetRecentFilters(domain, group, field string) (interface{}, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return nil, err
	}
	return codec.EncodeValue(ctl.Snapshot().RecentFilters.Get(group, field)), nil
}

// SetPinnedFilter pins or unpins a declared field.
func (a *App) SetPinnedFilter(domain, group, field string, pinned bool) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	if err := declared(ctl, group, field); err != nil {
		return err
	}
	ctl.SetPinned(group, field, pinned)
	return nil
}

func (a *App) IsFilterPinned(domain, group, field string) (bool, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return false, err
	}
	return ctl.IsPinned(group, field), nil
}

func (a *App) GetFiltersPinnedCount(domain string) (int, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return 0, err
	}
	return ctl.FiltersPinnedCount(), nil
}

func (a *App) ToggleFilterBar(domain string) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.ToggleFilterBar()
	return nil
}

func (a *App) SetPaginationModel(domain string, model PaginationModel) error {
	ctl, err := a.store(domain)
	if err != nil {
		return err
	}
	ctl.SetPaginationModel(model)
	return nil
}

func (a *App) GetFilterCounts(domain string, selectFromView bool) (FilterCounts, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return FilterCounts{}, err
	}
	return ctl.FilterCounts(selectFromView), nil
}

// GetActiveFiltersCount is the badge count of one field: the number of
// selected elements for arrays, 0 or 1 otherwise.
func (a *App) GetActiveFiltersCount(domain string, selectFromView bool, group, field string) (int, error) {
	ctl, err := a.store(domain)
	if err != nil {
		return 0, err
	}
	return ctl.ActiveCount(selectFromView, group, field), nil
}
