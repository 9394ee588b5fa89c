// Package yardcheck declares the filters of the yard-check page: which
// trailers are sitting in which yard, and in what state.
package yardcheck

import (
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	Name    = "yardCheck"
	Version = 8
)

// DefaultLastReportedDays is the reporting window shown when nothing is set.
const DefaultLastReportedDays = 28

// Domain tags yard-check keys and stores.
type Domain struct{}

type (
	Store = filter.Store[Domain]
	Key   = filter.Key[Domain]
)

var schema = filter.NewSchema[Domain](Name, Version)

var (
	AssetIDs   = schema.Field("asset", "ids", value.Array{})
	AssetTypes = schema.Field("asset", "types", value.Array{})
	AssetMakes = schema.Field("asset", "makes", value.Array{})

	Yards   = schema.Field("location", "yards", value.Array{})
	ZipCode = schema.Field("location", "zipCode", value.String(""))
	States  = schema.Field("location", "states", value.Array{})

	CargoStatuses      = schema.Field("sensor", "cargoStatuses", value.Array{})
	VolumetricStatuses = schema.Field("sensor", "volumetricStatuses", value.Array{})
	DoorStatuses       = schema.Field("sensor", "doorStatuses", value.Array{})

	LastReported = schema.Field("operational", "lastReported", value.Number(DefaultLastReportedDays))
	DwellDays    = schema.Field("operational", "dwellDays", value.Number(0))
	InMotion     = schema.Field("operational", "inMotion", value.Null{})

	Sort  = schema.Field(filter.DisplayGroup, "sort", value.String("lastReported"))
	Order = schema.Field(filter.DisplayGroup, "order", value.String("desc"))
)

func init() {
	schema.CombineCount(CargoStatuses, VolumetricStatuses)
	schema.PrePin(Yards, AssetIDs)
}

// Schema returns the yard-check schema.
func Schema() *filter.Schema[Domain] { return schema }

// New creates the yard-check store of a user.
func New(userID any, persister filter.Persister, opts ...filter.Option) *Store {
	return filter.NewStore(schema, session.StorageKey(userID, Name), persister, opts...)
}

// Lookup resolves a key by name.
func Lookup(group, field string) (Key, bool) { return schema.Lookup(group, field) }

func Filters(s *Store, selectFromView bool) filter.FilterSet { return s.Filters(selectFromView) }

func Actions(s *Store, selectFromView bool) filter.Actions[Domain] {
	return s.Actions(selectFromView)
}

func FiltersCounts(s *Store, selectFromView bool) filter.CountsView[Domain] {
	return s.FiltersCounts(selectFromView)
}

func PaginationModel(s *Store) filter.PaginationModel { return s.PaginationModel() }
