// Package loader reads the operational dataset into an immutable table.
// CSV and xlsx inputs are normalized into the same string frame before
// the typed columns are parsed.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"waste-cost/core/determinism"
	"waste-cost/core/types"
	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// Input formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Loader reads tabular files
type Loader struct {
	sheet string
}

// Option configures a Loader
type Option func(*Loader)

// WithSheet selects the worksheet read from xlsx inputs
func WithSheet(name string) Option {
	return func(l *Loader) {
		l.sheet = name
	}
}

// New creates a loader
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path with a default loader
func Load(path string) (*types.Table, error) {
	return New().Load(path)
}

// frame is the untyped view of an input: required columns only, in
// types.RequiredColumns order, with missing cells as empty strings
type frame struct {
	rows [][]string
}

// Load reads path and returns its records.
// The file must carry every column in types.RequiredColumns.
func (l *Loader) Load(path string) (*types.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.MissingFile(path, err)
	}

	format := DetectFormat(path)
	logging.Debug("loading dataset",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("bytes", len(data)),
	)

	var fr *frame
	switch format {
	case FormatXLSX:
		fr, err = readXLSX(bytes.NewReader(data), l.sheet)
	default:
		fr, err = readCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	records, err := parseRecords(fr)
	if err != nil {
		return nil, err
	}

	source := types.Source{
		Path:   path,
		Format: format,
		Hash:   determinism.ComputeHash(data).Hex(),
	}
	logging.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return types.NewTable(records, source), nil
}

// DetectFormat picks the input format from the file extension
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// columnIndex maps every required column to its position in header.
// Header names are compared after trimming surrounding whitespace.
func columnIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	for _, col := range types.RequiredColumns {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.DataFormat("missing required columns: "+strings.Join(missing, ", "), nil).
			WithContext("columns", missing)
	}
	return pos, nil
}

func parseRecords(fr *frame) ([]types.Record, error) {
	records := make([]types.Record, 0, len(fr.rows))
	for i, row := range fr.rows {
		rec, err := parseRow(i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(line int, row []string) (types.Record, error) {
	rec := types.Record{
		Line:     line,
		Material: row[1],
		Sector:   row[2],
	}

	if row[0] != "" {
		date, err := ParseDate(row[0])
		if err != nil {
			return rec, errors.DataFormat(fmt.Sprintf("row %d: unparseable %s %q", line, types.ColumnDate, row[0]), err).
				WithContext("row", line)
		}
		rec.Date = date
		rec.HasDate = true
	}

	targets := []*decimal.Decimal{&rec.QuantityPurchased, &rec.QuantityDiscarded, &rec.UnitCost}
	for k, dst := range targets {
		col := types.RequiredColumns[3+k]
		v, err := parseNumber(row[3+k])
		if err != nil {
			return rec, errors.DataFormat(fmt.Sprintf("row %d: non-numeric %s %q", line, col, row[3+k]), err).
				WithContext("row", line)
		}
		*dst = v
	}
	return rec, nil
}

// ParseDate parses a date cell, detecting the layout from its text.
// Ambiguous numeric dates are read month first.
func ParseDate(s string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
}

// parseNumber parses a numeric cell; an empty cell is zero
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
