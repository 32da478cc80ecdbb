package loader

import (
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"waste-cost/core/types"
	"waste-cost/internal/errors"
)

// csvNaN are the cell values treated as missing
var csvNaN = []string{"", "NA", "NaN", "<nil>"}

// readCSV loads a delimited file with every column kept as text.
// Typing happens later in parseRow so errors can name the offending row.
func readCSV(r io.Reader) (*frame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(csvNaN),
	)
	if df.Err != nil {
		return nil, errors.DataFormat("cannot parse CSV", df.Err)
	}

	names := df.Names()
	pos, err := columnIndex(names)
	if err != nil {
		return nil, err
	}

	cols := make([]series.Series, len(types.RequiredColumns))
	for k, name := range types.RequiredColumns {
		cols[k] = df.Col(names[pos[name]])
	}

	fr := &frame{rows: make([][]string, df.Nrow())}
	for i := range fr.rows {
		row := make([]string, len(cols))
		for k, col := range cols {
			elem := col.Elem(i)
			if elem.IsNA() {
				continue
			}
			row[k] = strings.TrimSpace(elem.String())
		}
		fr.rows[i] = row
	}
	return fr, nil
}
