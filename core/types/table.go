// Package types - Immutable record table
package types

import "github.com/shopspring/decimal"

// Table is an immutable collection of records.
// Every accessor hands out copies; transformations return a new Table.
type Table struct {
	records []Record
	source  Source
}

// NewTable creates a table owning a copy of records
func NewTable(records []Record, source Source) *Table {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Table{records: cp, source: source}
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// At returns the record at index i
func (t *Table) At(i int) Record {
	return t.records[i]
}

// Records returns a copy of all records
func (t *Table) Records() []Record {
	cp := make([]Record, len(t.records))
	copy(cp, t.records)
	return cp
}

// Source returns where the table was loaded from
func (t *Table) Source() Source {
	return t.source
}

// Map returns a new table with fn applied to every record
func (t *Table) Map(fn func(Record) Record) *Table {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = fn(r)
	}
	return &Table{records: out, source: t.source}
}

// Each calls fn for every record in order
func (t *Table) Each(fn func(Record)) {
	for _, r := range t.records {
		fn(r)
	}
}

// TotalWasteCost sums WasteCost over every record
func (t *Table) TotalWasteCost() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.records {
		total = total.Add(r.WasteCost)
	}
	return total
}
