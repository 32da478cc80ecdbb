package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"waste-cost/core/analysis"
	"waste-cost/core/types"
)

func sampleResult() *AnalysisResult {
	materials := types.NewSeries(types.DimensionMaterial)
	materials.Add(types.Point{Key: "A", Value: decimal.NewFromInt(20)})
	materials.Add(types.Point{Key: "B", Value: decimal.NewFromInt(20)})

	return &AnalysisResult{
		TotalWasteCost: decimal.NewFromInt(40),
		ByMaterial:     materials,
		BySector:       types.NewSeries(types.DimensionSector),
		ByMonth:        types.NewSeries(types.DimensionMonth),
		Simulation: &analysis.Simulation{
			Fraction:          decimal.RequireFromString("0.3"),
			CriticalMaterials: []string{"A", "B"},
			CurrentTotal:      decimal.NewFromInt(40),
			SimulatedTotal:    decimal.NewFromInt(28),
			ReductionPct:      decimal.NewFromInt(30),
		},
		Metadata: RunMetadata{RunID: "run-1"},
	}
}

func TestCLIFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (CLIFormatter{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "=== Relatório de Análise de Desperdício ===\n" +
		"Custo total desperdiçado: R$ 40.00\n" +
		"Redução estimada após otimizações: 30.00%\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestCLIFormatterRounding(t *testing.T) {
	result := sampleResult()
	result.TotalWasteCost = decimal.RequireFromString("1234.5678")
	result.Simulation.ReductionPct = decimal.RequireFromString("18.3333333333")

	var buf bytes.Buffer
	if err := (CLIFormatter{}).Render(&buf, result); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("R$ 1234.57\n")) {
		t.Errorf("expected total rounded to 2 decimals, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(": 18.33%\n")) {
		t.Errorf("expected reduction rounded to 2 decimals, got %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONFormatter{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		TotalWasteCost string `json:"total_waste_cost"`
		ByMaterial     struct {
			Points []struct {
				Key string `json:"key"`
			} `json:"points"`
		} `json:"by_material"`
		Metadata struct {
			RunID string `json:"run_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.TotalWasteCost != "40" {
		t.Errorf("expected total 40, got %q", decoded.TotalWasteCost)
	}
	if len(decoded.ByMaterial.Points) != 2 || decoded.ByMaterial.Points[0].Key != "A" {
		t.Errorf("expected ordered material points, got %+v", decoded.ByMaterial.Points)
	}
	if decoded.Metadata.RunID != "run-1" {
		t.Errorf("expected run id, got %q", decoded.Metadata.RunID)
	}
}

func TestNewFormatter(t *testing.T) {
	if f, err := New(FormatJSON); err != nil || f.Format() != FormatJSON {
		t.Errorf("expected JSON formatter, got %v, %v", f, err)
	}
	if f, err := New(""); err != nil || f.Format() != FormatCLI {
		t.Errorf("expected CLI formatter by default, got %v, %v", f, err)
	}
	if f, err := New(FormatTable); err != nil || f.Format() != FormatTable {
		t.Errorf("expected table formatter, got %v, %v", f, err)
	}
	if _, err := New("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (TableFormatter{NoColor: true}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		ReportTitle,
		"Por material",
		"A        │      20.00 │        50.0%",
		"Desperdício atual: R$ 40.00",
		"Após otimização:  R$ 28.00",
		"Redução estimada: 30.00%",
		"Materiais críticos: A, B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Por setor") {
		t.Error("empty views should be skipped")
	}
	if strings.Contains(out, "\033[") {
		t.Error("expected no escape codes with NoColor")
	}
}
