package analysis

import (
	"waste-cost/core/types"
)

// monthLayout labels month groups
const monthLayout = "2006-01"

// ByMaterial sums waste cost per material, highest first.
// Materials with equal totals keep the order they first appear in.
func ByMaterial(table *types.Table) *types.Series {
	s := groupBy(table, types.DimensionMaterial, func(r types.Record) (types.Point, bool) {
		return types.Point{Key: r.Material}, r.Material != ""
	})
	s.SortBy(func(a, b types.Point) bool {
		return a.Value.GreaterThan(b.Value)
	})
	return s
}

// BySector sums waste cost per sector in first-appearance order
func BySector(table *types.Table) *types.Series {
	return groupBy(table, types.DimensionSector, func(r types.Record) (types.Point, bool) {
		return types.Point{Key: r.Sector}, r.Sector != ""
	})
}

// ByMonth sums waste cost per calendar month in chronological order
func ByMonth(table *types.Table) *types.Series {
	s := groupBy(table, types.DimensionMonth, func(r types.Record) (types.Point, bool) {
		month, ok := r.Month()
		return types.Point{Key: month.Format(monthLayout), Period: month}, ok
	})
	s.SortBy(func(a, b types.Point) bool {
		return a.Period.Before(b.Period)
	})
	return s
}

// groupBy accumulates WasteCost under the key returned by key.
// Records for which key reports false are left out of the series.
func groupBy(table *types.Table, dim types.Dimension, key func(types.Record) (types.Point, bool)) *types.Series {
	s := types.NewSeries(dim)
	table.Each(func(r types.Record) {
		p, ok := key(r)
		if !ok {
			return
		}
		p.Value = r.WasteCost
		s.Add(p)
	})
	return s
}
