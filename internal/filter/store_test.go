package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetyard/fleetdash/internal/value"
)

type testDomain struct{}

type testKeys struct {
	schema             *Schema[testDomain]
	assetIDs           Key[testDomain]
	zipCode            Key[testDomain]
	states             Key[testDomain]
	cargoStatuses      Key[testDomain]
	volumetricStatuses Key[testDomain]
	lastReported       Key[testDomain]
	inMotion           Key[testDomain]
	reportedRange      Key[testDomain]
	sort               Key[testDomain]
}

func newTestKeys(version int) testKeys {
	s := NewSchema[testDomain]("test", version)
	k := testKeys{
		schema:             s,
		assetIDs:           s.Field("asset", "ids", value.Array{}),
		zipCode:            s.Field("location", "zipCode", value.String("")),
		states:             s.Field("location", "states", value.Array{}),
		cargoStatuses:      s.Field("sensor", "cargoStatuses", value.Array{}),
		volumetricStatuses: s.Field("sensor", "volumetricStatuses", value.Array{}),
		lastReported:       s.Field("operational", "lastReported", value.Number(28)),
		inMotion:           s.Field("operational", "inMotion", nil),
		reportedRange:      s.Field("operational", "reportedRange", value.Object{}),
		sort:               s.Field(DisplayGroup, "sort", value.String("lastReported")),
	}
	s.CombineCount(k.cargoStatuses, k.volumetricStatuses)
	return k
}

// memPersister keeps snapshots in a map, like a storage backend would.
type memPersister struct {
	version map[string]int
	snaps   map[string]Snapshot
	saves   int
}

func newMemPersister() *memPersister {
	return &memPersister{version: map[string]int{}, snaps: map[string]Snapshot{}}
}

func (p *memPersister) Load(key string, version int) (*Snapshot, bool) {
	snap, ok := p.snaps[key]
	if !ok || p.version[key] != version {
		return nil, false
	}
	cp := snap.Clone()
	return &cp, true
}

func (p *memPersister) Save(key string, version int, snap Snapshot) {
	p.version[key] = version
	p.snaps[key] = snap.Clone()
	p.saves++
}

type recordingEmitter struct {
	events []string
}

func (e *recordingEmitter) Emit(eventName string, data interface{}) {
	e.events = append(e.events, eventName)
}

func newTestStore(t *testing.T) (*Store[testDomain], testKeys, *memPersister) {
	t.Helper()
	k := newTestKeys(1)
	p := newMemPersister()
	return NewStore(k.schema, "42:test-filters", p), k, p
}

func TestNewStoreStartsFromDefaults(t *testing.T) {
	s, k, _ := newTestStore(t)

	snap := s.Snapshot()
	assert.True(t, snap.BaseFilters.Equal(k.schema.Defaults()))
	assert.True(t, snap.ViewFilters.Equal(k.schema.Defaults()))
	assert.Empty(t, snap.RecentFilters)
	assert.Empty(t, snap.PinnedFilters)
	assert.False(t, snap.ShowFilterBar)
	assert.Equal(t, PaginationModel{Page: 0, PageSize: DefaultPageSize}, snap.PaginationModel)
}

func TestPrePinnedFields(t *testing.T) {
	k := newTestKeys(1)
	k.schema.PrePin(k.assetIDs, k.assetIDs, k.zipCode)

	s := NewStore(k.schema, "42:test-filters", nil)
	assert.Equal(t, 2, s.FiltersPinnedCount())
	assert.True(t, s.IsFilterPinned(k.assetIDs))
}

func TestCommitSemantics(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetViewFilter(k.zipCode, value.String("99501"))
	s.SaveBaseFilters()

	s.SetViewFilter(k.assetIDs, value.IDs(7))
	assert.Equal(t, value.Array{}, s.Filter(k.assetIDs, false), "staged edit leaks into committed set")

	s.SaveBaseFilters()
	assert.Equal(t, value.IDs(7), s.Filter(k.assetIDs, false))
	assert.Equal(t, value.String("99501"), s.Filter(k.zipCode, false))
	assert.Equal(t, value.Array{}, s.Filter(k.states, false))
}

func TestSaveBaseFiltersCopiesDeep(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetViewFilter(k.assetIDs, value.IDs(1))
	s.SaveBaseFilters()
	s.SetViewFilter(k.assetIDs, value.IDs(1, 2))

	assert.Equal(t, value.IDs(1), s.Filter(k.assetIDs, false))
}

func TestSetBaseFilterLeavesOtherGroups(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetPaginationModel(PaginationModel{Page: 2, PageSize: 50})
	s.SetBaseFilter(k.states, value.Strings("AK"))

	base := s.Filters(false)
	assert.Equal(t, value.Strings("AK"), base.Get("location", "states"))
	assert.Equal(t, value.String(""), base.Get("location", "zipCode"))
	assert.Equal(t, value.Array{}, base.Get("asset", "ids"))
	assert.Equal(t, 2, s.PaginationModel().Page, "base edits keep the page")
}

func TestSetViewFilterResetsPage(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetPaginationModel(PaginationModel{Page: 3, PageSize: 25})

	s.SetViewFilter(k.zipCode, value.String("10001"))

	assert.Equal(t, PaginationModel{Page: 0, PageSize: 25}, s.PaginationModel())
}

func TestResetViewFilters(t *testing.T) {
	t.Run("UseInitial", func(t *testing.T) {
		s, k, _ := newTestStore(t)
		s.SetViewFilter(k.assetIDs, value.IDs(1, 2))
		s.SetViewFilter(k.lastReported, value.Number(7))
		s.SaveBaseFilters()
		s.SetViewFilter(k.zipCode, value.String("99501"))

		s.ResetViewFilters(true)
		assert.True(t, s.Filters(true).Equal(k.schema.Defaults()))
	})

	t.Run("DiscardEdits", func(t *testing.T) {
		s, k, _ := newTestStore(t)
		s.SetViewFilter(k.lastReported, value.Number(7))
		s.SaveBaseFilters()
		s.SetViewFilter(k.lastReported, value.Number(3))
		s.SetPaginationModel(PaginationModel{Page: 4, PageSize: 10})

		s.ResetViewFilters(false)
		assert.Equal(t, value.Number(7), s.Filter(k.lastReported, true))
		assert.Equal(t, 0, s.PaginationModel().Page)
		assert.Equal(t, 10, s.PaginationModel().PageSize)
	})
}

func TestResetBaseFilters(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetBaseFilter(k.states, value.Strings("WA"))

	s.ResetBaseFilters(nil)
	assert.True(t, s.Filters(false).Equal(k.schema.Defaults()))

	s.ResetBaseFilters(FilterSet{"location": {"states": value.Strings("OR")}})
	base := s.Filters(false)
	assert.Equal(t, value.Strings("OR"), base.Get("location", "states"))
	assert.Equal(t, value.Number(28), base.Get("operational", "lastReported"), "missing fields take defaults")
}

func TestEmptyThenFillViewFilters(t *testing.T) {
	s, k, _ := newTestStore(t)

	s.EmptyViewFilters()
	view := s.Filters(true)
	assert.Equal(t, value.Array{}, view.Get("asset", "ids"))
	assert.Equal(t, value.Null{}, view.Get("location", "zipCode"))
	assert.Equal(t, value.Null{}, view.Get("operational", "lastReported"))
	assert.Equal(t, value.Null{}, view.Get("operational", "inMotion"))
	assert.Equal(t, 0, s.FilterCounts(true).Total)

	report := FilterSet{
		"asset":       {"ids": value.IDs(3)},
		"operational": {"lastReported": value.Number(14)},
		"bogus":       {"field": value.Bool(true)},
	}
	s.FillViewFilters(report)
	view = s.Filters(true)
	assert.Equal(t, value.IDs(3), view.Get("asset", "ids"))
	assert.Equal(t, value.Number(14), view.Get("operational", "lastReported"))
	assert.NotContains(t, view, "bogus")
	assert.Equal(t, value.Array{}, s.Filter(k.assetIDs, false), "fill does not commit")

	s.FillViewFilters(nil)
	assert.True(t, s.Filters(true).Equal(k.schema.Defaults()))
}

func TestPinnedFilters(t *testing.T) {
	s, k, _ := newTestStore(t)

	s.SetPinnedFilter(k.zipCode, true)
	s.SetPinnedFilter(k.zipCode, true)
	assert.Equal(t, 1, s.FiltersPinnedCount())
	assert.True(t, s.IsFilterPinned(k.zipCode))

	s.SetPinnedFilter(k.states, true)
	assert.Equal(t, []PinnedFilter{
		{Group: "location", FilterType: "zipCode"},
		{Group: "location", FilterType: "states"},
	}, s.PinnedFilters())

	s.SetPinnedFilter(k.zipCode, false)
	s.SetPinnedFilter(k.zipCode, false)
	assert.False(t, s.IsFilterPinned(k.zipCode))
	assert.Equal(t, 1, s.FiltersPinnedCount())
}

func TestRecentFilterCap(t *testing.T) {
	s, k, _ := newTestStore(t)
	for id := 1; id <= 6; id++ {
		s.SetRecentFilter(k.assetIDs, value.IDs(id))
	}

	recent := s.RecentFilters(k.assetIDs)
	require.Len(t, recent, MaxRecent)
	assert.Equal(t, value.IDs(6, 5, 4, 3, 2), recent)
}

func TestRecentFilterScalarAndArray(t *testing.T) {
	s, k, _ := newTestStore(t)
	s.SetRecentFilter(k.zipCode, value.String("99501"))
	s.SetRecentFilter(k.zipCode, value.String("99501"))
	assert.Equal(t, value.Strings("99501", "99501"), s.RecentFilters(k.zipCode), "no de-duplication")

	s.SetRecentFilter(k.states, value.Strings("AK", "WA"))
	s.SetRecentFilter(k.states, value.Strings("OR"))
	assert.Equal(t, value.Strings("OR", "AK", "WA"), s.RecentFilters(k.states))
}

func TestToggleFilterBar(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.ToggleFilterBar()
	assert.True(t, s.ShowFilterBar())
	s.ToggleFilterBar()
	assert.False(t, s.ShowFilterBar())
}

func TestEveryActionPersistsAndEmits(t *testing.T) {
	k := newTestKeys(1)
	p := newMemPersister()
	em := &recordingEmitter{}
	s := NewStore(k.schema, "42:test-filters", p, WithEmitter(em))

	s.ToggleFilterBar()
	s.SetBaseFilter(k.zipCode, value.String("1"))
	s.SetViewFilter(k.zipCode, value.String("2"))
	s.SaveBaseFilters()
	s.SetRecentFilter(k.zipCode, value.String("2"))
	s.ResetBaseFilters(nil)
	s.ResetViewFilters(false)
	s.EmptyViewFilters()
	s.FillViewFilters(nil)
	s.SetPinnedFilter(k.zipCode, true)
	s.SetPaginationModel(PaginationModel{Page: 1, PageSize: 25})

	assert.Equal(t, 11, p.saves)
	assert.Len(t, em.events, 11)
	assert.Equal(t, ChangedEvent, em.events[0])
}

func TestHydrateFromPersisted(t *testing.T) {
	k := newTestKeys(3)
	p := newMemPersister()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first := NewStore(k.schema, "42:test-filters", p)
	first.SetViewFilter(k.reportedRange, value.Range(from, from.AddDate(0, 1, 0)))
	first.SaveBaseFilters()
	first.SetPinnedFilter(k.states, true)
	first.SetRecentFilter(k.assetIDs, value.IDs(9))
	first.ToggleFilterBar()
	first.SetPaginationModel(PaginationModel{Page: 2, PageSize: 100})

	second := NewStore(k.schema, "42:test-filters", p)
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestHydrateDropsUnknownFields(t *testing.T) {
	k := newTestKeys(1)
	p := newMemPersister()
	p.Save("42:test-filters", 1, Snapshot{
		PaginationModel: PaginationModel{Page: 1, PageSize: 10},
		BaseFilters:     FilterSet{"asset": {"ids": value.IDs(1), "retired": value.Bool(true)}},
		ViewFilters:     FilterSet{"gone": {"x": value.Number(1)}},
		RecentFilters: FilterSet{"asset": {"ids": value.IDs(1, 2, 3, 4, 5, 6, 7)},
			"gone": {"x": value.Array{value.Number(1)}}},
		PinnedFilters: []PinnedFilter{{Group: "gone", FilterType: "x"}, {Group: "location", FilterType: "zipCode"}},
	})

	s := NewStore(k.schema, "42:test-filters", p)
	snap := s.Snapshot()
	assert.Equal(t, value.IDs(1), snap.BaseFilters.Get("asset", "ids"))
	assert.NotContains(t, snap.BaseFilters["asset"], "retired")
	assert.True(t, snap.ViewFilters.Equal(k.schema.Defaults()))
	assert.Len(t, snap.RecentFilters.Get("asset", "ids"), MaxRecent)
	assert.NotContains(t, snap.RecentFilters, "gone")
	assert.Equal(t, []PinnedFilter{{Group: "location", FilterType: "zipCode"}}, snap.PinnedFilters)
}

func TestVersionGate(t *testing.T) {
	p := newMemPersister()
	old := newTestKeys(1)
	s := NewStore(old.schema, "42:test-filters", p)
	s.SetViewFilter(old.assetIDs, value.IDs(1))
	s.SaveBaseFilters()
	s.SetPinnedFilter(old.zipCode, true)

	bumped := newTestKeys(2)
	fresh := NewStore(bumped.schema, "42:test-filters", p)
	snap := fresh.Snapshot()
	assert.True(t, snap.BaseFilters.Equal(bumped.schema.Defaults()))
	assert.True(t, snap.ViewFilters.Equal(bumped.schema.Defaults()))
	assert.Empty(t, snap.PinnedFilters)
}

func TestStoresAreIsolated(t *testing.T) {
	k := newTestKeys(1)
	p := newMemPersister()
	a := NewStore(k.schema, "1:test-filters", p)
	b := NewStore(k.schema, "2:test-filters", p)

	a.SetBaseFilter(k.zipCode, value.String("99501"))
	assert.Equal(t, value.String(""), b.Filter(k.zipCode, false))
}

func TestControllerUndeclaredFields(t *testing.T) {
	s, _, _ := newTestStore(t)
	var ctl Controller = s

	assert.Nil(t, ctl.Filters(true).Get("asset", "nope"))
	assert.False(t, ctl.Declared("asset", "nope"))

	assert.NotPanics(t, func() { ctl.SetFilter(true, "asset", "nope", value.Bool(true)) })
	assert.Equal(t, value.Bool(true), ctl.Filters(true).Get("asset", "nope"))
	assert.Equal(t, 0, ctl.FilterCounts(true).Total)
	assert.Equal(t, 0, ctl.ActiveCount(true, "asset", "nope"))

	ctl.ResetViewFilters(true)
	assert.Nil(t, ctl.Filters(true).Get("asset", "nope"))
}

func TestActionsBoundToSide(t *testing.T) {
	s, k, _ := newTestStore(t)

	s.Actions(true).SetFilter(k.zipCode, value.String("view"))
	s.Actions(false).SetFilter(k.zipCode, value.String("base"))
	assert.Equal(t, value.String("view"), s.Filter(k.zipCode, true))
	assert.Equal(t, value.String("base"), s.Filter(k.zipCode, false))

	s.Actions(true).Reset()
	assert.Equal(t, value.String("base"), s.Filter(k.zipCode, true))

	s.Actions(false).Reset()
	assert.Equal(t, value.String(""), s.Filter(k.zipCode, false))

	s.Actions(false).Fill(FilterSet{"location": {"zipCode": value.String("fill")}})
	assert.Equal(t, value.String("fill"), s.Filter(k.zipCode, false))
}
