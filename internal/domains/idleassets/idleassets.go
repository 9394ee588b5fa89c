// Package idleassets declares the filters of the idle assets page.
package idleassets

import (
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	Name    = "idleAssets"
	Version = 4
)

// DefaultIdleDays is the minimum idle time listed by default.
const DefaultIdleDays = 3

type Domain struct{}

type (
	Store = filter.Store[Domain]
	Key   = filter.Key[Domain]
)

var schema = filter.NewSchema[Domain](Name, Version)

var (
	AssetIDs   = schema.Field("asset", "ids", value.Array{})
	AssetTypes = schema.Field("asset", "types", value.Array{})

	Geofences = schema.Field("location", "geofences", value.Array{})
	ZipCode   = schema.Field("location", "zipCode", value.String(""))

	CargoStatuses      = schema.Field("sensor", "cargoStatuses", value.Array{})
	VolumetricStatuses = schema.Field("sensor", "volumetricStatuses", value.Array{})

	IdleDays     = schema.Field("operational", "idleDays", value.Number(DefaultIdleDays))
	LastReported = schema.Field("operational", "lastReported", value.Number(28))

	Sort = schema.Field(filter.DisplayGroup, "sort", value.String("idleDays"))
)

func init() {
	schema.CombineCount(CargoStatuses, VolumetricStatuses)
}

func Schema() *filter.Schema[Domain] { return schema }

// New creates the idle assets store of a user.
func New(userID any, persister filter.Persister, opts ...filter.Option) *Store {
	return filter.NewStore(schema, session.StorageKey(userID, Name), persister, opts...)
}

func Lookup(group, field string) (Key, bool) { return schema.Lookup(group, field) }

func Filters(s *Store, selectFromView bool) filter.FilterSet { return s.Filters(selectFromView) }

func Actions(s *Store, selectFromView bool) filter.Actions[Domain] {
	return s.Actions(selectFromView)
}

func FiltersCounts(s *Store, selectFromView bool) filter.CountsView[Domain] {
	return s.FiltersCounts(selectFromView)
}

func PaginationModel(s *Store) filter.PaginationModel { return s.PaginationModel() }
