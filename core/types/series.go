// Package types - Aggregation series
package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"waste-cost/core/determinism"
)

// Dimension names an aggregation view
type Dimension string

const (
	DimensionMaterial Dimension = "material"
	DimensionSector   Dimension = "sector"
	DimensionMonth    Dimension = "month"
)

// Label returns the column heading used in reports
func (d Dimension) Label() string {
	switch d {
	case DimensionMaterial:
		return "Material"
	case DimensionSector:
		return "Setor"
	case DimensionMonth:
		return "Mês"
	default:
		return string(d)
	}
}

// Point is one group of an aggregation view
type Point struct {
	// Key identifies the group (material name, sector name, YYYY-MM)
	Key string `json:"key"`

	// Period is the first day of the month for month views
	Period time.Time `json:"period"`

	// Value is the summed waste cost of the group
	Value decimal.Decimal `json:"value"`
}

// Series is an ordered mapping from group key to summed waste cost.
// New keys are appended in first-encounter order.
type Series struct {
	Dimension Dimension `json:"dimension"`
	points    []Point
	index     map[string]int
}

// NewSeries creates an empty series for a dimension
func NewSeries(dim Dimension) *Series {
	return &Series{
		Dimension: dim,
		index:     make(map[string]int),
	}
}

// Add accumulates value into the group identified by p.Key
func (s *Series) Add(p Point) {
	if i, ok := s.index[p.Key]; ok {
		s.points[i].Value = s.points[i].Value.Add(p.Value)
		return
	}
	s.index[p.Key] = len(s.points)
	s.points = append(s.points, p)
}

// Get returns the summed value of a group
func (s *Series) Get(key string) (decimal.Decimal, bool) {
	i, ok := s.index[key]
	if !ok {
		return decimal.Zero, false
	}
	return s.points[i].Value, true
}

// Len returns the number of groups
func (s *Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the groups in order
func (s *Series) Points() []Point {
	cp := make([]Point, len(s.points))
	copy(cp, s.points)
	return cp
}

// Keys returns the group keys in order
func (s *Series) Keys() []string {
	keys := make([]string, len(s.points))
	for i, p := range s.points {
		keys[i] = p.Key
	}
	return keys
}

// Floats returns the values as float64 for plotting only
func (s *Series) Floats() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value.InexactFloat64()
	}
	return out
}

// Total sums all group values
func (s *Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.points {
		total = total.Add(p.Value)
	}
	return total
}

// SortBy reorders the groups; equal groups keep their relative order
func (s *Series) SortBy(less func(a, b Point) bool) {
	determinism.SortSlice(s.points, less)
	for i, p := range s.points {
		s.index[p.Key] = i
	}
}

// Head returns a new series with the first n groups
func (s *Series) Head(n int) *Series {
	if n > len(s.points) {
		n = len(s.points)
	}
	if n < 0 {
		n = 0
	}
	head := NewSeries(s.Dimension)
	for _, p := range s.points[:n] {
		head.Add(p)
	}
	return head
}

// MarshalJSON encodes the series with its ordered groups
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dimension Dimension       `json:"dimension"`
		Points    []Point         `json:"points"`
		Total     decimal.Decimal `json:"total"`
	}{
		Dimension: s.Dimension,
		Points:    s.Points(),
		Total:     s.Total(),
	})
}
