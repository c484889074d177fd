// Package dataset loads prediction tables from CSV, TSV, XLSX and SQLite files
// and writes them back out in the same formats.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

var (
	// ErrEmptyDataset is returned when the source was read but holds no rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrNoKnownColumns is returned when none of the header names are recognized.
	ErrNoKnownColumns = errors.New("dataset header has no recognized columns")
	// ErrUnsupportedFormat is returned by Export for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "predictions"

type options struct {
	table string
	sheet string
}

// Option configures Load and Export.
type Option func(*options)

// WithTable selects the SQLite table.
func WithTable(name string) Option {
	return func(o *options) {
		if name != "" {
			o.table = name
		}
	}
}

// WithSheet selects the XLSX sheet. The first sheet is used by default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

func buildOptions(opts []Option) options {
	o := options{table: DefaultTable}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DetectFormat maps a file extension to a format. Unknown extensions are read as CSV.
func DetectFormat(path string) models.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return models.FormatTSV
	case ".xlsx", ".xlsm":
		return models.FormatXLSX
	case ".db", ".sqlite", ".sqlite3":
		return models.FormatSQLite
	default:
		return models.FormatCSV
	}
}

// Load reads the dataset at path. The returned table is never nil: on any
// failure it is empty and the error describes what went wrong. Callers treat
// the error as a warning and keep running.
func Load(path string, opts ...Option) (*models.Table, error) {
	o := buildOptions(opts)
	format := DetectFormat(path)
	start := time.Now()

	header, records, err := readRecords(path, format, o)
	if err != nil {
		logger.Warn("dataset load failed", "path", path, "format", format, "error", err)
		return emptyFrom(path, format), fmt.Errorf("failed to load %s: %w", path, err)
	}

	table, err := fromRecords(header, records)
	table.Source = path
	table.Format = format
	if err != nil {
		logger.Warn("dataset load incomplete", "path", path, "error", err)
		return table, fmt.Errorf("failed to load %s: %w", path, err)
	}

	logger.Info("dataset loaded",
		"path", path,
		"format", format,
		"rows", table.Len(),
		"columns", len(table.Columns()),
		"elapsed", time.Since(start),
	)
	return table, nil
}

func readRecords(path string, format models.Format, o options) ([]string, [][]string, error) {
	switch format {
	case models.FormatTSV:
		return readDelimited(path, '\t')
	case models.FormatXLSX:
		return readXLSX(path, o.sheet)
	case models.FormatSQLite:
		return readSQLite(path, o.table)
	default:
		return readDelimited(path, ',')
	}
}

func emptyFrom(path string, format models.Format) *models.Table {
	t := models.EmptyTable()
	t.Source = path
	t.Format = format
	return t
}

// fromRecords builds a table from a header and text records. Cells that fail
// numeric coercion become null; unknown columns are ignored.
func fromRecords(header []string, records [][]string) (*models.Table, error) {
	index := mapHeader(header)
	if len(index) == 0 {
		return models.EmptyTable(), ErrNoKnownColumns
	}

	present := make([]models.Column, 0, len(index))
	for _, c := range models.AllColumns {
		if _, ok := index[c]; ok {
			present = append(present, c)
		}
	}

	rows := make([]models.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, parseRow(rec, index))
	}

	table := models.NewTable(rows, present...)
	if len(rows) == 0 {
		return table, ErrEmptyDataset
	}
	return table, nil
}

func parseRow(rec []string, index map[models.Column]int) models.Row {
	cell := func(c models.Column) string {
		i, ok := index[c]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var r models.Row
	r.ID, r.IDValid = parseInt(cell(models.ColID))
	r.MasterItemNo, r.ItemValid = parseInt(cell(models.ColMasterItemNo))
	r.QtyShipped = parseNumber(cell(models.ColQtyShipped))
	r.UnitCost = parseNumber(cell(models.ColUnitCost))
	r.TotalCost = parseNumber(cell(models.ColTotalCost))
	r.UOM = parseText(cell(models.ColUOM))
	return r
}

// mapHeader returns the record index of each recognized column. Matching
// ignores case, spaces, underscores and a UTF-8 byte order mark. The first
// occurrence of a duplicated name wins.
func mapHeader(header []string) map[models.Column]int {
	known := make(map[string]models.Column, len(models.AllColumns))
	for _, c := range models.AllColumns {
		known[normalizeName(c.String())] = c
	}

	index := make(map[models.Column]int)
	for i, name := range header {
		c, ok := known[normalizeName(name)]
		if !ok {
			continue
		}
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return index
}

func normalizeName(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
