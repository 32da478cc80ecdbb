// Package analysis derives waste metrics from a loaded table, aggregates
// them by material, sector and month, and simulates waste reductions.
// Every function here is pure: inputs are never modified.
package analysis

import (
	"go.uber.org/zap"

	"waste-cost/core/types"
	"waste-cost/internal/logging"
)

// PrepareStats describes a preparation pass
type PrepareStats struct {
	// Records is the number of prepared records
	Records int `json:"records"`

	// UndefinedRatios counts records with nothing purchased
	UndefinedRatios int `json:"undefined_ratios"`
}

// Prepare returns a copy of table with WasteRatio and WasteCost derived
// on every record.
func Prepare(table *types.Table) *types.Table {
	prepared, _ := PrepareWithStats(table)
	return prepared
}

// PrepareWithStats is Prepare plus a summary of the pass.
// A record with zero purchased quantity gets an invalid WasteRatio; its
// WasteCost is still defined and still counts toward every total.
func PrepareWithStats(table *types.Table) (*types.Table, PrepareStats) {
	stats := PrepareStats{Records: table.Len()}

	prepared := table.Map(func(r types.Record) types.Record {
		r.WasteCost = r.QuantityDiscarded.Mul(r.UnitCost)
		if r.QuantityPurchased.IsZero() {
			r.WasteRatio.Valid = false
			stats.UndefinedRatios++
			return r
		}
		r.WasteRatio.Decimal = r.QuantityDiscarded.Div(r.QuantityPurchased)
		r.WasteRatio.Valid = true
		return r
	})

	if stats.UndefinedRatios > 0 {
		logging.Warn("waste ratio undefined for records without purchases",
			zap.Int("records", stats.UndefinedRatios),
		)
	}
	return prepared, stats
}
