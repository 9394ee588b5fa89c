// Package movingassets declares the filters of the moving assets map.
package movingassets

import (
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	Name    = "movingAssets"
	Version = 1
)

type Domain struct{}

type (
	Store = filter.Store[Domain]
	Key   = filter.Key[Domain]
)

var schema = filter.NewSchema[Domain](Name, Version)

var (
	AssetIDs = schema.Field("asset", "ids", value.Array{})

	States      = schema.Field("location", "states", value.Array{})
	Destination = schema.Field("location", "destination", value.String(""))

	MinSpeed     = schema.Field("operational", "minSpeed", value.Number(0))
	LastReported = schema.Field("operational", "lastReported", value.Number(1))

	Sort = schema.Field(filter.DisplayGroup, "sort", value.String("speed"))
)

func init() {
	schema.PrePin(AssetIDs)
}

func Schema() *filter.Schema[Domain] { return schema }

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
