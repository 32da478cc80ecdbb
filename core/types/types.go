// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the operational dataset
const (
	ColumnDate      = "data"
	ColumnMaterial  = "material"
	ColumnSector    = "setor"
	ColumnPurchased = "quantidade_comprada"
	ColumnDiscarded = "quantidade_descartada"
	ColumnUnitCost  = "custo_unitario"
)

// RequiredColumns lists the columns every input file must carry
var RequiredColumns = []string{
	ColumnDate,
	ColumnMaterial,
	ColumnSector,
	ColumnPurchased,
	ColumnDiscarded,
	ColumnUnitCost,
}

// Record is one row of the operational dataset
type Record struct {
	// Line is the 1-based source row (header excluded)
	Line int `json:"line"`

	// Date is when the purchase/discard was recorded; zero when HasDate is false
	Date    time.Time `json:"date"`
	HasDate bool      `json:"has_date"`

	// Material and Sector are grouping keys; empty means missing
	Material string `json:"material"`
	Sector   string `json:"sector"`

	QuantityPurchased decimal.Decimal `json:"quantity_purchased"`
	QuantityDiscarded decimal.Decimal `json:"quantity_discarded"`
	UnitCost          decimal.Decimal `json:"unit_cost"`

	// WasteRatio is discarded / purchased; invalid when nothing was purchased
	WasteRatio decimal.NullDecimal `json:"waste_ratio"`

	// WasteCost is discarded * unit cost
	WasteCost decimal.Decimal `json:"waste_cost"`
}

// Month returns the first instant of the record's month
func (r Record) Month() (time.Time, bool) {
	if !r.HasDate {
		return time.Time{}, false
	}
	return time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC), true
}

// Source describes where a table was loaded from
type Source struct {
	// Path is the input file path
	Path string `json:"path"`

	// Format is the input format (csv, xlsx)
	Format string `json:"format"`

	// Hash is the hex SHA-256 of the input bytes
	Hash string `json:"hash"`
}
