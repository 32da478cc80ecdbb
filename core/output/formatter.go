// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"waste-cost/core/analysis"
	"waste-cost/core/types"
	"waste-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is the plain-text report
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatTable is the colored table report
	FormatTable Format = "table"
)

// ReportTitle heads the plain-text report
const ReportTitle = "=== Relatório de Análise de Desperdício ==="

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *AnalysisResult) error
}

// AnalysisResult contains the complete analysis output
type AnalysisResult struct {
	// TotalWasteCost is the waste cost summed over every record
	TotalWasteCost decimal.Decimal `json:"total_waste_cost"`

	// ByMaterial, BySector and ByMonth are the aggregation views
	ByMaterial *types.Series `json:"by_material"`
	BySector   *types.Series `json:"by_sector"`
	ByMonth    *types.Series `json:"by_month"`

	// Simulation is the reduction scenario outcome
	Simulation *analysis.Simulation `json:"simulation"`

	// Preparation summarizes derived metric computation
	Preparation analysis.PrepareStats `json:"preparation"`

	// Artifacts lists the files written during the run
	Artifacts []string `json:"artifacts"`

	// Metadata contains execution context
	Metadata RunMetadata `json:"metadata"`
}

// RunMetadata contains execution context
type RunMetadata struct {
	// RunID identifies the run in logs
	RunID string `json:"run_id"`

	// Timestamp is when the analysis started
	Timestamp string `json:"timestamp"`

	// Duration is how long the analysis took
	Duration string `json:"duration"`

	// Source is the analysed input
	Source types.Source `json:"source"`

	// Version is the tool version
	Version string `json:"version"`
}

// New returns the formatter for a format
func New(format Format) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return CLIFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{Indent: "  "}, nil
	case FormatTable:
		return TableFormatter{}, nil
	default:
		return nil, errors.Input("unknown output format " + string(format))
	}
}

// CLIFormatter prints the three-line report
type CLIFormatter struct{}

// Format returns FormatCLI
func (CLIFormatter) Format() Format { return FormatCLI }

// Render writes the title, the total waste cost and the simulated reduction
func (CLIFormatter) Render(w io.Writer, result *AnalysisResult) error {
	reduction := decimal.Zero
	if result.Simulation != nil {
		reduction = result.Simulation.ReductionPct
	}
	_, err := fmt.Fprintf(w, "%s\nCusto total desperdiçado: R$ %s\nRedução estimada após otimizações: %s%%\n",
		ReportTitle,
		result.TotalWasteCost.StringFixed(2),
		reduction.StringFixed(2),
	)
	return err
}

// JSONFormatter encodes the full result
type JSONFormatter struct {
	Indent string
}

// Format returns FormatJSON
func (JSONFormatter) Format() Format { return FormatJSON }

// Render writes result as JSON
func (f JSONFormatter) Render(w io.Writer, result *AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(result)
}
