package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// Export writes t to path in the format implied by its extension. Only the
// columns present in the source are written; a table with no known columns
// is written with the full recognized header.
func Export(t *models.Table, path string, opts ...Option) error {
	o := buildOptions(opts)

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = writeDelimited(path, ',', t)
	case ".tsv", ".tab":
		err = writeDelimited(path, '\t', t)
	case ".xlsx":
		err = writeXLSX(path, o.sheet, columnNames(exportColumns(t)), typedRecords(t))
	case ".db", ".sqlite", ".sqlite3":
		err = writeSQLite(path, o.table, t)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}

	logger.Info("dataset exported", "path", path, "rows", t.Len())
	return nil
}

// ExportName suggests a file name for an exported view next to the source.
func ExportName(source string, suffix string) string {
	ext := filepath.Ext(source)
	if DetectFormat(source) == models.FormatCSV {
		ext = ".csv"
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = DefaultTable
	}
	return filepath.Join(filepath.Dir(source), base+"_"+suffix+ext)
}

func exportColumns(t *models.Table) []models.Column {
	if cols := t.Columns(); len(cols) > 0 {
		return cols
	}
	return models.AllColumns
}

func columnNames(cols []models.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.String()
	}
	return names
}

func writeDelimited(path string, delim rune, t *models.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Comma = delim

	cols := exportColumns(t)
	if err := w.Write(columnNames(cols)); err != nil {
		_ = f.Close()
		return err
	}
	record := make([]string, len(cols))
	for _, r := range t.Rows {
		for i, c := range cols {
			record[i] = r.Field(c)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// typedRecords converts rows to native cell values so spreadsheets keep numbers numeric.
func typedRecords(t *models.Table) [][]any {
	cols := exportColumns(t)
	out := make([][]any, 0, t.Len())
	for _, r := range t.Rows {
		rec := make([]any, len(cols))
		for i, c := range cols {
			switch {
			case c == models.ColID && r.IDValid:
				rec[i] = r.ID
			case c == models.ColMasterItemNo && r.ItemValid:
				rec[i] = r.MasterItemNo
			case c == models.ColUOM && r.UOM != "":
				rec[i] = r.UOM
			case c.IsMetric() && r.Metric(c).Valid:
				rec[i] = r.Metric(c).Float64
			}
		}
		out = append(out, rec)
	}
	return out
}
