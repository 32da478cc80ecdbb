package output

import (
	"io"

	"github.com/shopspring/decimal"

	"waste-cost/core/types"
	"waste-cost/core/ui"
)

var hundred = decimal.NewFromInt(100)

// TableFormatter prints every view as an aligned table followed by a summary
type TableFormatter struct {
	NoColor bool
}

// Format returns FormatTable
func (TableFormatter) Format() Format { return FormatTable }

// Render writes the views and the headline figures
func (f TableFormatter) Render(w io.Writer, result *AnalysisResult) error {
	uw := ui.NewWriter(w, f.NoColor)
	uw.Header(ReportTitle)

	views := []struct {
		title  string
		series *types.Series
	}{
		{"Por material", result.ByMaterial},
		{"Por setor", result.BySector},
		{"Por mês", result.ByMonth},
	}
	for _, v := range views {
		if v.series == nil || v.series.Len() == 0 {
			continue
		}
		uw.Println("%s", v.title)
		seriesTable(uw, v.series, result.TotalWasteCost).Render()
		uw.Println("")
	}

	summary := uw.NewWasteSummary()
	summary.TotalCost = result.TotalWasteCost.StringFixed(2)
	summary.SimulatedCost = result.TotalWasteCost.StringFixed(2)
	summary.Reduction = decimal.Zero.StringFixed(2)
	if sim := result.Simulation; sim != nil {
		summary.SimulatedCost = sim.SimulatedTotal.StringFixed(2)
		summary.Reduction = sim.ReductionPct.StringFixed(2)
		summary.Critical = sim.CriticalMaterials
	}
	summary.Undefined = result.Preparation.UndefinedRatios
	summary.Render()

	return uw.Err()
}

func seriesTable(uw *ui.Writer, s *types.Series, total decimal.Decimal) *ui.Table {
	t := uw.NewTable(s.Dimension.Label(), "Custo (R$)", "Participação").AlignRight(1, 2)
	for _, p := range s.Points() {
		share := "-"
		if total.IsPositive() {
			share = p.Value.Div(total).Mul(hundred).StringFixed(1) + "%"
		}
		t.AddRow(p.Key, p.Value.StringFixed(2), share)
	}
	return t
}
