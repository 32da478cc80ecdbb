package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func series(dim types.Dimension, kv ...interface{}) *types.Series {
	s := types.NewSeries(dim)
	for i := 0; i < len(kv); i += 2 {
		s.Add(types.Point{Key: kv[i].(string), Value: decimal.NewFromFloat(kv[i+1].(float64))})
	}
	return s
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("%s is not a PNG image", path)
	}
}

func TestChartsCreateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "charts")
	r := NewRenderer(dir, WithSize(400, 300))

	materials := series(types.DimensionMaterial, "Carne", 201.7, "Arroz", 99.0, "Feijao", 58.0)
	sectors := series(types.DimensionSector, "Cozinha", 300.0, "Padaria", 24.6)

	months := types.NewSeries(types.DimensionMonth)
	for i, v := range []float64{120, 80.5, 160} {
		period := time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		months.Add(types.Point{Key: period.Format("2006-01"), Period: period, Value: decimal.NewFromFloat(v)})
	}

	tests := []struct {
		name   string
		render func() (string, error)
		file   string
	}{
		{"bar", func() (string, error) { return r.Bar(materials, "Custo por Material", "bar.png") }, "bar.png"},
		{"pie", func() (string, error) { return r.Pie(sectors, "Desperdicio por Setor", "pie.png") }, "pie.png"},
		{"line", func() (string, error) { return r.Line(months, "Evolucao Mensal", "line.png") }, "line.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := tt.render()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := filepath.Join(dir, tt.file); path != want {
				t.Errorf("expected path %s, got %s", want, path)
			}
			assertPNG(t, path)
		})
	}
}

func TestChartOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bar.png")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(dir)
	if _, err := r.Bar(series(types.DimensionMaterial, "A", 20.0), "t", "bar.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPNG(t, path)
}

func TestEmptySeriesRejected(t *testing.T) {
	r := NewRenderer(t.TempDir())
	empty := types.NewSeries(types.DimensionSector)

	if _, err := r.Bar(empty, "t", "a.png"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("bar: expected input error, got %v", err)
	}
	if _, err := r.Pie(empty, "t", "b.png"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("pie: expected input error, got %v", err)
	}
	if _, err := r.Line(empty, "t", "c.png"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("line: expected input error, got %v", err)
	}
}

func TestUnwritableOutputDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(filepath.Join(blocker, "output"))
	_, err := r.Bar(series(types.DimensionMaterial, "A", 1.0), "t", "a.png")
	if !errors.IsType(err, errors.TypeOutputWrite) {
		t.Fatalf("expected output write error, got %v", err)
	}
}

func TestPieLabel(t *testing.T) {
	tests := []struct {
		key   string
		share float64
		want  string
	}{
		{"Cozinha", 66.666, "Cozinha (66.7%)"},
		{"Padaria", 5, "Padaria (5.0%)"},
		{"Salao", 0.04, "Salao (0.0%)"},
	}
	for _, tt := range tests {
		if got := PieLabel(tt.key, tt.share); got != tt.want {
			t.Errorf("PieLabel(%q, %v) = %q, want %q", tt.key, tt.share, got, tt.want)
		}
	}
}

func TestWorkbook(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	materials := series(types.DimensionMaterial, "Carne", 201.7, "Arroz", 99.0)
	path, err := r.Workbook(WorkbookFile,
		[]SummaryRow{{Label: "Custo total", Value: 300.7}},
		SheetTable{Name: "Material", Header: "Material", Series: materials},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Resumo", "A1"); got != "Custo total" {
		t.Errorf("expected summary label, got %q", got)
	}
	rows, err := f.GetRows("Material")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Carne" || rows[2][0] != "Arroz" {
		t.Errorf("expected series order preserved, got %v", rows)
	}
}
