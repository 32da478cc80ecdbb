package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"waste-cost/internal/errors"
)

const header = "data,material,setor,quantidade_comprada,quantidade_descartada,custo_unitario\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "desperdicio.csv", header+
		"2024-01-01,A,X,100,10,2\n"+
		"2024-02-01,B,Y,50,5,4.5\n")

	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", table.Len())
	}

	first := table.At(0)
	if first.Material != "A" || first.Sector != "X" {
		t.Errorf("unexpected keys: %q %q", first.Material, first.Sector)
	}
	if !first.HasDate || !first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date: %v (has=%v)", first.Date, first.HasDate)
	}
	if !first.QuantityPurchased.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected purchased 100, got %s", first.QuantityPurchased)
	}
	if !table.At(1).UnitCost.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("expected unit cost 4.5, got %s", table.At(1).UnitCost)
	}

	src := table.Source()
	if src.Format != FormatCSV || src.Path != path || len(src.Hash) != 64 {
		t.Errorf("unexpected source: %+v", src)
	}
}

func TestLoadCSVColumnOrderAndExtras(t *testing.T) {
	path := writeFile(t, "reordered.csv",
		"custo_unitario,observacao,setor,material,quantidade_descartada,data,quantidade_comprada\n"+
			"3,ok,Cozinha,Arroz,2,03/15/2024,20\n")

	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := table.At(0)
	if r.Material != "Arroz" || r.Sector != "Cozinha" {
		t.Errorf("columns mapped by position instead of name: %+v", r)
	}
	if r.Date.Month() != time.March || r.Date.Day() != 15 {
		t.Errorf("expected 2024-03-15, got %v", r.Date)
	}
	if !r.UnitCost.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected unit cost 3, got %s", r.UnitCost)
	}
}

func TestLoadCSVMissingCells(t *testing.T) {
	path := writeFile(t, "gaps.csv", header+
		",A,,100,10,2\n"+
		"2024-02-01,,Y,,,\n")

	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := table.At(0)
	if first.HasDate {
		t.Error("expected empty date to load as missing")
	}
	if first.Sector != "" {
		t.Errorf("expected missing sector, got %q", first.Sector)
	}

	second := table.At(1)
	if second.Material != "" {
		t.Errorf("expected missing material, got %q", second.Material)
	}
	if !second.QuantityPurchased.IsZero() || !second.UnitCost.IsZero() {
		t.Error("expected empty numeric cells to load as zero")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType errors.Type
	}{
		{
			name:     "missing column",
			content:  "data,material,quantidade_comprada,quantidade_descartada,custo_unitario\n2024-01-01,A,1,1,1\n",
			wantType: errors.TypeDataFormat,
		},
		{
			name:     "unparseable date",
			content:  header + "not a date,A,X,1,1,1\n",
			wantType: errors.TypeDataFormat,
		},
		{
			name:     "non-numeric quantity",
			content:  header + "2024-01-01,A,X,many,1,1\n",
			wantType: errors.TypeDataFormat,
		},
		{
			name:     "empty file",
			content:  "",
			wantType: errors.TypeDataFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.csv", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.IsType(err, tt.wantType) {
				t.Errorf("expected %s, got %v", tt.wantType, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.IsType(err, errors.TypeMissingFile) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desperdicio.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"data", "material", "setor", "quantidade_comprada", "quantidade_descartada", "custo_unitario"},
		{"2024-01-01", "A", "X", 100, 10, 2},
		{},
		{"2024-02-01", "B", "Y", 50, 5, 4},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	table, err := New(WithSheet(sheet)).Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected blank row skipped and 2 records, got %d", table.Len())
	}
	if table.Source().Format != FormatXLSX {
		t.Errorf("expected xlsx format, got %s", table.Source().Format)
	}
	if got := table.At(1); got.Material != "B" || !got.QuantityDiscarded.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unexpected second record: %+v", got)
	}
}

func TestLoadXLSXUnknownSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.xlsx")
	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err := New(WithSheet("Nope")).Load(path)
	if !errors.IsType(err, errors.TypeDataFormat) {
		t.Fatalf("expected data format error, got %v", err)
	}
}
