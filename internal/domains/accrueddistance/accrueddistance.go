// Package accrueddistance declares the filters of the accrued-distance
// report.
package accrueddistance

import (
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/value"
)

const (
	Name    = "accruedDistance"
	Version = 3
)

type Domain struct{}

type (
	Store = filter.Store[Domain]
	Key   = filter.Key[Domain]
)

var schema = filter.NewSchema[Domain](Name, Version).WithPageSize(50)

var (
	AssetIDs    = schema.Field("asset", "ids", value.Array{})
	AssetGroups = schema.Field("asset", "groups", value.Array{})

	States = schema.Field("location", "states", value.Array{})

	// DateRange is a {from, to} object of dates. Empty means all time.
	DateRange   = schema.Field("operational", "dateRange", value.Object{})
	MinDistance = schema.Field("operational", "minDistance", value.Number(0))

	Sort = schema.Field(filter.DisplayGroup, "sort", value.String("distance"))
	Unit = schema.Field(filter.DisplayGroup, "unit", value.String("mi"))
)

func init() {
	schema.PrePin(DateRange)
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
