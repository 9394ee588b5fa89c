package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

type trips struct{}

type tripKeys struct {
	schema  *filter.Schema[trips]
	drivers filter.Key[trips]
	since   filter.Key[trips]
	zipCode filter.Key[trips]
}

func newTripKeys(version int) tripKeys {
	s := filter.NewSchema[trips]("trips", version)
	return tripKeys{
		schema:  s,
		drivers: s.Field("driver", "ids", value.Array{}),
		since:   s.Field("operational", "since", value.Null{}),
		zipCode: s.Field("location", "zipCode", value.String("")),
	}
}

func newTestService(t *testing.T) (*Service, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewService(backend, nil), backend
}

func TestService_RoundTripThroughStore(t *testing.T) {
	svc, _ := newTestService(t)
	k := newTripKeys(2)
	key := session.StorageKey(42, "trips")
	since := time.Date(2024, 3, 1, 8, 30, 0, 123456789, time.UTC)

	store := filter.NewStore(k.schema, key, svc)
	store.SetViewFilter(k.drivers, value.IDs(7, 9))
	store.SetViewFilter(k.since, value.NewDate(since))
	store.SaveBaseFilters()
	store.SetPinnedFilter(k.zipCode, true)
	store.SetPaginationModel(filter.PaginationModel{Page: 3, PageSize: 50})

	reloaded := filter.NewStore(k.schema, key, svc)
	assert.True(t, value.Equal(value.IDs(7, 9), reloaded.Filter(k.drivers, false)))
	got, ok := reloaded.Filter(k.since, false).(value.Date)
	require.True(t, ok, "date should survive as a date")
	assert.True(t, got.Time.Equal(since))
	assert.True(t, reloaded.IsFilterPinned(k.zipCode))
	assert.Equal(t, filter.PaginationModel{Page: 3, PageSize: 50}, reloaded.PaginationModel())
}

func TestService_BlobLayout(t *testing.T) {
	svc, backend := newTestService(t)
	k := newTripKeys(4)
	key := session.StorageKey("u1", "trips")

	store := filter.NewStore(k.schema, key, svc)
	store.SetViewFilter(k.since, value.NewDate(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))

	data, err := backend.Get(key)
	require.NoError(t, err)

	var blob map[string]any
	require.NoError(t, json.Unmarshal(data, &blob))
	assert.Equal(t, float64(4), blob["version"])

	state, ok := blob["state"].(map[string]any)
	require.True(t, ok)
	for _, member := range []string{"paginationModel", "showFilterBar", "baseFilters", "viewFilters", "recentFilters", "pinnedFilters"} {
		assert.Contains(t, state, member)
	}

	view := state["viewFilters"].(map[string]any)
	op := view["operational"].(map[string]any)
	assert.Equal(t, map[string]any{"_type": "date", "value": "2024-01-02T03:04:05Z"}, op["since"])
	assert.Equal(t, []any{}, state["pinnedFilters"])
}

func TestService_LoadVersionMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	key := session.StorageKey(1, "trips")

	old := newTripKeys(1)
	store := filter.NewStore(old.schema, key, svc)
	store.SetViewFilter(old.zipCode, value.String("60601"))

	_, ok := svc.Load(key, 1)
	assert.True(t, ok)
	_, ok = svc.Load(key, 2)
	assert.False(t, ok)

	current := newTripKeys(2)
	fresh := filter.NewStore(current.schema, key, svc)
	assert.Equal(t, value.String(""), fresh.Filter(current.zipCode, true))
}

func TestService_LoadAbsentAndCorrupt(t *testing.T) {
	svc, backend := newTestService(t)

	_, ok := svc.Load("nobody:trips-filters", 1)
	assert.False(t, ok)

	require.NoError(t, backend.Set("u:trips-filters", []byte("{not json")))
	_, ok = svc.Load("u:trips-filters", 1)
	assert.False(t, ok)

	_, err := svc.Inspect("nobody:trips-filters")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ClearUser(t *testing.T) {
	svc, backend := newTestService(t)
	for _, key := range []string{"7:trips-filters", "7:assets-filters", "70:trips-filters"} {
		require.NoError(t, backend.Set(key, []byte(`{}`)))
	}

	n, err := svc.ClearUser("7")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := backend.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"70:trips-filters"}, keys)
}

func TestEnvelope_SnapshotDecodesSets(t *testing.T) {
	snap := filter.Snapshot{
		PaginationModel: filter.PaginationModel{PageSize: 25},
		BaseFilters:     filter.FilterSet{"location": {"zipCode": value.String("10001")}},
		ViewFilters:     filter.FilterSet{"location": {"zipCode": value.String("10001")}},
		RecentFilters:   filter.FilterSet{"location": {"zipCode": value.Array{value.String("10001")}}},
	}
	data, err := json.Marshal(NewEnvelope(3, snap))
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 3, env.Version)

	got := env.Snapshot()
	assert.True(t, snap.BaseFilters.Equal(got.BaseFilters))
	assert.True(t, snap.RecentFilters.Equal(got.RecentFilters))
	assert.Equal(t, snap.PaginationModel, got.PaginationModel)
}
