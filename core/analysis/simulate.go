package analysis

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"waste-cost/core/determinism"
	"waste-cost/core/types"
	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// CriticalCount is how many of the costliest materials a simulation targets
const CriticalCount = 3

// DefaultReductionFraction is the waste cut applied when none is configured
var DefaultReductionFraction = decimal.NewFromFloat(0.3)

var hundred = decimal.NewFromInt(100)

// Simulation is the outcome of a reduction scenario
type Simulation struct {
	// Fraction is the share of waste removed on critical materials
	Fraction decimal.Decimal `json:"fraction"`

	// CriticalMaterials are the targeted materials, costliest first
	CriticalMaterials []string `json:"critical_materials"`

	// CurrentTotal is the waste cost of the table as loaded
	CurrentTotal decimal.Decimal `json:"current_total"`

	// SimulatedTotal is the waste cost after the reduction
	SimulatedTotal decimal.Decimal `json:"simulated_total"`

	// ReductionPct is (current - simulated) / current * 100
	ReductionPct decimal.Decimal `json:"reduction_pct"`
}

// SimulateReduction cuts the waste cost of the CriticalCount costliest
// materials by fraction and reports the resulting drop in total cost.
//
// The current total covers every record, including those without a
// material. A zero current total has no defined percentage and is an error.
func SimulateReduction(table *types.Table, fraction decimal.Decimal) (*Simulation, error) {
	if fraction.IsNegative() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errors.Input("reduction fraction must be between 0 and 1").
			WithContext("fraction", fraction.String())
	}
	if table.Len() == 0 {
		return nil, errors.DivisionAnomaly("cannot simulate a reduction on an empty table")
	}

	current := table.TotalWasteCost()
	if current.IsZero() {
		return nil, errors.DivisionAnomaly("total waste cost is zero; reduction percentage is undefined")
	}

	critical := ByMaterial(table).Head(CriticalCount).Keys()
	isCritical := determinism.IndexOf(critical)

	factor := decimal.NewFromInt(1).Sub(fraction)
	simulatedTable := table.Map(func(r types.Record) types.Record {
		if _, ok := isCritical[r.Material]; ok {
			r.WasteCost = r.WasteCost.Mul(factor)
		}
		return r
	})
	simulated := simulatedTable.TotalWasteCost()

	sim := &Simulation{
		Fraction:          fraction,
		CriticalMaterials: critical,
		CurrentTotal:      current,
		SimulatedTotal:    simulated,
		ReductionPct:      current.Sub(simulated).Div(current).Mul(hundred),
	}

	logging.Debug("reduction simulated",
		zap.Strings("critical", critical),
		zap.String("fraction", fraction.String()),
		zap.String("current", current.StringFixed(2)),
		zap.String("simulated", simulated.StringFixed(2)),
	)
	return sim, nil
}
