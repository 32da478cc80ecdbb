package loader

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
)

// readXLSX loads a worksheet, the first one when sheet is empty.
// The first row is the header; trailing empty cells may be absent.
func readXLSX(r io.Reader, sheet string) (*frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.DataFormat("cannot open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.DataFormat("cannot read sheet "+sheet, err).WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.DataFormat("sheet "+sheet+" is empty", nil).WithContext("sheet", sheet)
	}

	pos, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	fr := &frame{rows: make([][]string, 0, len(rows)-1)}
	for _, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		row := make([]string, len(types.RequiredColumns))
		for k, name := range types.RequiredColumns {
			if c := pos[name]; c < len(cells) {
				row[k] = strings.TrimSpace(cells[c])
			}
		}
		fr.rows = append(fr.rows, row)
	}
	return fr, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
