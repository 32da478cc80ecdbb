package report

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// WorkbookFile is the name of the exported workbook
const WorkbookFile = "relatorio_desperdicio.xlsx"

// SheetTable is one worksheet of the exported workbook
type SheetTable struct {
	Name   string
	Header string
	Series *types.Series
}

// SummaryRow is one label/value line of the summary worksheet
type SummaryRow struct {
	Label string
	Value interface{}
}

// Workbook writes series and a summary sheet into an xlsx file
func (r *Renderer) Workbook(file string, summary []SummaryRow, sheets ...SheetTable) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return "", errors.Internal("cannot create header style", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return "", errors.Internal("cannot create number style", err)
	}

	const summarySheet = "Resumo"
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return "", errors.Internal("cannot name summary sheet", err)
	}
	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, cellName(1, i+1), &[]interface{}{row.Label, row.Value}); err != nil {
			return "", errors.Internal("cannot write summary", err)
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 40)

	for _, st := range sheets {
		if _, err := f.NewSheet(st.Name); err != nil {
			return "", errors.Internal("cannot create sheet "+st.Name, err)
		}
		if err := f.SetSheetRow(st.Name, "A1", &[]interface{}{st.Header, CostAxisLabel}); err != nil {
			return "", errors.Internal("cannot write header", err)
		}
		_ = f.SetCellStyle(st.Name, "A1", "B1", headerStyle)

		for i, p := range st.Series.Points() {
			row := i + 2
			if err := f.SetSheetRow(st.Name, cellName(1, row), &[]interface{}{p.Key, p.Value.InexactFloat64()}); err != nil {
				return "", errors.Internal("cannot write row", err)
			}
		}
		if n := st.Series.Len(); n > 0 {
			_ = f.SetCellStyle(st.Name, "B2", cellName(2, n+1), moneyStyle)
		}
		_ = f.SetColWidth(st.Name, "A", "B", 24)
	}

	path, err := r.prepare(file)
	if err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", errors.OutputWrite(path, err)
	}
	logging.Info("workbook written", zap.String("path", path))
	return path, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
