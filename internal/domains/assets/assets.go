// Package assets declares the filters of the generic asset list, the
// broadest domain: every asset attribute the list can be narrowed by.
package assets

import (
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	Name    = "assets"
	Version = 5
)

// Domain tags generic asset keys and stores.
type Domain struct{}

type (
	Store = filter.Store[Domain]
	Key   = filter.Key[Domain]
)

var schema = filter.NewSchema[Domain](Name, Version)

var (
	AssetIDs    = schema.Field("asset", "ids", value.Array{})
	AssetTypes  = schema.Field("asset", "types", value.Array{})
	AssetMakes  = schema.Field("asset", "makes", value.Array{})
	AssetModels = schema.Field("asset", "models", value.Array{})
	AssetYears  = schema.Field("asset", "years", value.Array{})

	ZipCode = schema.Field("location", "zipCode", value.String(""))
	States  = schema.Field("location", "states", value.Array{})
	Cities  = schema.Field("location", "cities", value.Array{})

	CargoStatuses      = schema.Field("sensor", "cargoStatuses", value.Array{})
	VolumetricStatuses = schema.Field("sensor", "volumetricStatuses", value.Array{})
	BatteryStatuses    = schema.Field("sensor", "batteryStatuses", value.Array{})

	LastReported = schema.Field("operational", "lastReported", value.Null{})
	// InstalledOn is a {from, to} date range.
	InstalledOn = schema.Field("operational", "installedOn", value.Object{})
	HasAlerts   = schema.Field("operational", "hasAlerts", value.Null{})

	Sort    = schema.Field(filter.DisplayGroup, "sort", value.String("assetId"))
	Columns = schema.Field(filter.DisplayGroup, "columns", value.Array{})
)

func init() {
	schema.CombineCount(CargoStatuses, VolumetricStatuses)
	schema.PrePin(AssetIDs, ZipCode)
}

// Schema returns the asset list schema.
func Schema() *filter.Schema[Domain] { return schema }

// New creates the asset list store of a user.
func New(userID any, persister filter.Persister, opts ...filter.Option) *Store {
	return filter.NewStore(schema, session.StorageKey(userID, Name), persister, opts...)
}

// Lookup resolves a key by name.
func Lookup(group, field string) (Key, bool) { return schema.Lookup(group, field) }

// Filters returns the committed or staged filters.
func Filters(s *Store, selectFromView bool) filter.FilterSet { return s.Filters(selectFromView) }

// Actions binds the mutating actions to one side of the store.
func Actions(s *Store, selectFromView bool) filter.Actions[Domain] {
	return s.Actions(selectFromView)
}

// FiltersCounts returns the active filter counts of one side.
func FiltersCounts(s *Store, selectFromView bool) filter.CountsView[Domain] {
	return s.FiltersCounts(selectFromView)
}

// PaginationModel returns the current table page.
func PaginationModel(s *Store) filter.PaginationModel { return s.PaginationModel() }
