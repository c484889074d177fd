package models

import (
	"time"

	"github.com/samber/lo"
)

// Format identifies the storage format a table was read from.
type Format string

// Supported dataset formats.
const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Table is an immutable snapshot of the dataset. Rows keep source order.
// A reload builds a new Table rather than mutating an existing one.
type Table struct {
	LoadedAt time.Time
	present  map[Column]bool
	Source   string
	Format   Format
	Rows     []Row
}

// NewTable builds a table whose source header contained the given columns.
func NewTable(rows []Row, present ...Column) *Table {
	t := &Table{
		Rows:     rows,
		LoadedAt: time.Now(),
		present:  make(map[Column]bool, len(present)),
	}
	for _, c := range present {
		t.present[c] = true
	}
	return t
}

// EmptyTable returns a table with no rows and no columns.
func EmptyTable() *Table {
	return NewTable(nil)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasColumn reports whether the source header contained c.
func (t *Table) HasColumn(c Column) bool {
	if t == nil {
		return false
	}
	return t.present[c]
}

// Columns returns the present columns in display order.
func (t *Table) Columns() []Column {
	return lo.Filter(AllColumns, func(c Column, _ int) bool {
		return t.HasColumn(c)
	})
}

// Filter returns a new table holding the rows for which keep returns true.
// Source metadata is preserved.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{
		Rows:     lo.Filter(t.Rows, func(r Row, _ int) bool { return keep(r) }),
		LoadedAt: t.LoadedAt,
		Source:   t.Source,
		Format:   t.Format,
		present:  t.present,
	}
	return out
}

// RowsForItem returns every row whose MasterItemNo equals item.
func (t *Table) RowsForItem(item int64) []Row {
	return lo.Filter(t.Rows, func(r Row, _ int) bool {
		return r.ItemValid && r.MasterItemNo == item
	})
}

// RowsForID returns every row whose id equals id.
func (t *Table) RowsForID(id int64) []Row {
	return lo.Filter(t.Rows, func(r Row, _ int) bool {
		return r.IDValid && r.ID == id
	})
}

// Stats holds the headline figures shown on the dashboard.
type Stats struct {
	Rows        int
	UniqueItems int
	TotalQty    float64
	TotalCost   float64
	HasQty      bool
	HasCost     bool
}

// Stats computes the headline figures. Null cells are skipped.
func (t *Table) Stats() Stats {
	if t == nil {
		return Stats{}
	}

	items := lo.FilterMap(t.Rows, func(r Row, _ int) (int64, bool) {
		return r.MasterItemNo, r.ItemValid
	})

	s := Stats{
		Rows:        len(t.Rows),
		UniqueItems: len(lo.Uniq(items)),
		HasQty:      t.HasColumn(ColQtyShipped),
		HasCost:     t.HasColumn(ColTotalCost),
	}
	for _, r := range t.Rows {
		if r.QtyShipped.Valid {
			s.TotalQty += r.QtyShipped.Float64
		}
		if r.TotalCost.Valid {
			s.TotalCost += r.TotalCost.Float64
		}
	}
	return s
}
