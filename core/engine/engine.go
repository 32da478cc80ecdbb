// Package engine - Waste analysis pipeline
// ENFORCES the execution flow:
// 1. Load the dataset
// 2. Prepare derived metrics
// 3. Aggregate by material, sector and month
// 4. Render charts
// 5. Simulate the reduction on critical materials
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"waste-cost/core/analysis"
	"waste-cost/core/loader"
	"waste-cost/core/output"
	"waste-cost/core/report"
	"waste-cost/core/types"
	"waste-cost/internal/config"
	"waste-cost/internal/logging"
)

// Phase represents execution phases
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoaded              // Dataset read
	PhasePrepared            // Derived metrics computed
	PhaseAggregated          // Views built
	PhaseRendered            // Charts written
	PhaseSimulated           // Reduction simulated
	PhaseComplete
)

// String returns the phase name
func (p Phase) String() string {
	names := []string{
		"uninitialized", "loaded", "prepared", "aggregated",
		"rendered", "simulated", "complete",
	}
	if int(p) >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// PhaseError is an error raised while running a phase
type PhaseError struct {
	Phase Phase
	Cause error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Cause)
}

// Unwrap returns the underlying error
func (e *PhaseError) Unwrap() error {
	return e.Cause
}

// ChartKind selects how a view is drawn
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
	ChartLine ChartKind = "line"
)

// ChartSpec binds an aggregation view to a chart
type ChartSpec struct {
	Kind      ChartKind
	Dimension types.Dimension
	Title     string
	File      string
}

// DefaultCharts are the charts produced by every run
var DefaultCharts = []ChartSpec{
	{Kind: ChartBar, Dimension: types.DimensionMaterial, Title: "Custo de Desperdício por Material", File: "desperdicio_por_material.png"},
	{Kind: ChartPie, Dimension: types.DimensionSector, Title: "Distribuição do Desperdício por Setor", File: "desperdicio_por_setor.png"},
	{Kind: ChartLine, Dimension: types.DimensionMonth, Title: "Evolução Mensal do Desperdício", File: "desperdicio_mensal.png"},
}

// Options configures an Engine
type Options struct {
	// OutputDir receives every artifact
	OutputDir string

	// Sheet selects the worksheet of xlsx inputs
	Sheet string

	// Fraction is the simulated waste cut on critical materials
	Fraction decimal.Decimal

	// Width and Height are the chart size in pixels
	Width  int
	Height int

	// Workbook enables the xlsx export
	Workbook bool

	// Version is reported in the run metadata
	Version string
}

// OptionsFromConfig maps the application configuration onto engine options
func OptionsFromConfig(cfg *config.Config, version string) Options {
	return Options{
		OutputDir: cfg.OutputDir,
		Sheet:     cfg.Sheet,
		Fraction:  decimal.NewFromFloat(cfg.Simulation.Fraction),
		Width:     cfg.Charts.Width,
		Height:    cfg.Charts.Height,
		Workbook:  cfg.Output.Workbook,
		Version:   version,
	}
}

// Engine runs the analysis pipeline once per call to Run
type Engine struct {
	loader   *loader.Loader
	renderer *report.Renderer
	fraction decimal.Decimal
	workbook bool
	version  string
	charts   []ChartSpec
	now      func() time.Time
}

// New creates an engine
func New(opts Options) *Engine {
	return &Engine{
		loader:   loader.New(loader.WithSheet(opts.Sheet)),
		renderer: report.NewRenderer(opts.OutputDir, report.WithSize(opts.Width, opts.Height)),
		fraction: opts.Fraction,
		workbook: opts.Workbook,
		version:  opts.Version,
		charts:   DefaultCharts,
		now:      time.Now,
	}
}

// run carries the state of one pipeline execution
type run struct {
	phase  Phase
	log    *zap.Logger
	result *output.AnalysisResult
}

func (r *run) advance(p Phase) {
	r.phase = p
	r.log.Debug("phase complete", zap.Stringer("phase", p))
}

func (r *run) fail(err error) error {
	failed := r.phase + 1
	r.log.Error("analysis aborted", zap.Stringer("phase", failed), zap.Error(err))
	return &PhaseError{Phase: failed, Cause: err}
}

// Run analyses the dataset at path and writes the artifacts.
// Artifacts written before a failure are left in place.
func (e *Engine) Run(ctx context.Context, path string) (*output.AnalysisResult, error) {
	start := e.now()
	runID := uuid.NewString()
	r := &run{
		log: logging.With(zap.String("run_id", runID)),
		result: &output.AnalysisResult{
			Metadata: output.RunMetadata{
				RunID:     runID,
				Timestamp: start.Format(time.RFC3339),
				Version:   e.version,
			},
		},
	}
	r.log.Info("starting waste analysis", zap.String("path", path))

	table, err := e.loader.Load(path)
	if err != nil {
		return nil, r.fail(err)
	}
	r.result.Metadata.Source = table.Source()
	r.advance(PhaseLoaded)

	prepared, stats := analysis.PrepareWithStats(table)
	r.result.Preparation = stats
	r.result.TotalWasteCost = prepared.TotalWasteCost()
	r.advance(PhasePrepared)

	views := map[types.Dimension]*types.Series{
		types.DimensionMaterial: analysis.ByMaterial(prepared),
		types.DimensionSector:   analysis.BySector(prepared),
		types.DimensionMonth:    analysis.ByMonth(prepared),
	}
	r.result.ByMaterial = views[types.DimensionMaterial]
	r.result.BySector = views[types.DimensionSector]
	r.result.ByMonth = views[types.DimensionMonth]
	r.advance(PhaseAggregated)

	for _, spec := range e.charts {
		if err := ctx.Err(); err != nil {
			return nil, r.fail(err)
		}
		written, err := e.render(spec, views[spec.Dimension])
		if err != nil {
			return nil, r.fail(err)
		}
		r.result.Artifacts = append(r.result.Artifacts, written)
	}
	r.advance(PhaseRendered)

	sim, err := analysis.SimulateReduction(prepared, e.fraction)
	if err != nil {
		return nil, r.fail(err)
	}
	r.result.Simulation = sim
	r.advance(PhaseSimulated)

	if e.workbook {
		written, err := e.renderer.Workbook(report.WorkbookFile, summaryRows(r.result), e.sheets(views)...)
		if err != nil {
			return nil, r.fail(err)
		}
		r.result.Artifacts = append(r.result.Artifacts, written)
	}

	r.result.Metadata.Duration = e.now().Sub(start).String()
	r.advance(PhaseComplete)
	r.log.Info("waste analysis complete",
		zap.String("total", r.result.TotalWasteCost.StringFixed(2)),
		zap.String("reduction_pct", sim.ReductionPct.StringFixed(2)),
		zap.Int("artifacts", len(r.result.Artifacts)),
	)
	return r.result, nil
}

func (e *Engine) render(spec ChartSpec, s *types.Series) (string, error) {
	switch spec.Kind {
	case ChartPie:
		return e.renderer.Pie(s, spec.Title, spec.File)
	case ChartLine:
		return e.renderer.Line(s, spec.Title, spec.File)
	default:
		return e.renderer.Bar(s, spec.Title, spec.File)
	}
}

func (e *Engine) sheets(views map[types.Dimension]*types.Series) []report.SheetTable {
	return []report.SheetTable{
		{Name: "Material", Header: "Material", Series: views[types.DimensionMaterial]},
		{Name: "Setor", Header: "Setor", Series: views[types.DimensionSector]},
		{Name: "Mensal", Header: "Mês", Series: views[types.DimensionMonth]},
	}
}

func summaryRows(result *output.AnalysisResult) []report.SummaryRow {
	sim := result.Simulation
	return []report.SummaryRow{
		{Label: "Custo total desperdiçado (R$)", Value: result.TotalWasteCost.InexactFloat64()},
		{Label: "Redução simulada", Value: sim.Fraction.InexactFloat64()},
		{Label: "Materiais críticos", Value: fmt.Sprint(sim.CriticalMaterials)},
		{Label: "Custo simulado (R$)", Value: sim.SimulatedTotal.InexactFloat64()},
		{Label: "Redução estimada (%)", Value: sim.ReductionPct.Round(2).InexactFloat64()},
	}
}
