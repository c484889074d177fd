package models

import (
	"database/sql"
	"testing"
)

func num(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func sampleTable() *Table {
	return NewTable([]Row{
		{ID: 1, IDValid: true, MasterItemNo: 100, ItemValid: true, QtyShipped: num(2), UnitCost: num(10), TotalCost: num(20), UOM: "EA"},
		{ID: 2, IDValid: true, MasterItemNo: 100, ItemValid: true, QtyShipped: num(3), UnitCost: num(10), TotalCost: num(30), UOM: "EA"},
		{ID: 3, IDValid: true, MasterItemNo: 200, ItemValid: true, QtyShipped: num(1), UnitCost: sql.NullFloat64{}, TotalCost: num(5)},
		{ID: 0, IDValid: false, MasterItemNo: 0, ItemValid: false},
	}, ColID, ColMasterItemNo, ColQtyShipped, ColUnitCost, ColTotalCost, ColUOM)
}

func TestColumnKinds(t *testing.T) {
	tests := []struct {
		col      Column
		metric   bool
		currency bool
	}{
		{ColID, false, false},
		{ColMasterItemNo, false, false},
		{ColQtyShipped, true, false},
		{ColUnitCost, true, true},
		{ColTotalCost, true, true},
		{ColUOM, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.col.String(), func(t *testing.T) {
			if got := tt.col.IsMetric(); got != tt.metric {
				t.Errorf("IsMetric() = %v, want %v", got, tt.metric)
			}
			if got := tt.col.IsCurrency(); got != tt.currency {
				t.Errorf("IsCurrency() = %v, want %v", got, tt.currency)
			}
		})
	}
}

func TestRowField(t *testing.T) {
	r := Row{ID: 7, IDValid: true, MasterItemNo: 9, ItemValid: true, QtyShipped: num(2.5), UOM: "KG"}

	tests := []struct {
		col  Column
		want string
	}{
		{ColID, "7"},
		{ColMasterItemNo, "9"},
		{ColQtyShipped, "2.5"},
		{ColUnitCost, ""},
		{ColUOM, "KG"},
	}
	for _, tt := range tests {
		if got := r.Field(tt.col); got != tt.want {
			t.Errorf("Field(%s) = %q, want %q", tt.col, got, tt.want)
		}
	}

	if got := (Row{}).Field(ColID); got != "" {
		t.Errorf("invalid id Field() = %q, want empty", got)
	}
}

func TestTableLookups(t *testing.T) {
	table := sampleTable()

	if got := len(table.RowsForItem(100)); got != 2 {
		t.Errorf("RowsForItem(100) = %d rows, want 2", got)
	}
	if got := len(table.RowsForItem(0)); got != 0 {
		t.Errorf("RowsForItem(0) matched an invalid row")
	}
	if got := len(table.RowsForID(3)); got != 1 {
		t.Errorf("RowsForID(3) = %d rows, want 1", got)
	}
	if got := len(table.RowsForID(0)); got != 0 {
		t.Errorf("RowsForID(0) matched an invalid row")
	}
}

func TestTableFilterKeepsMetadata(t *testing.T) {
	table := sampleTable()
	table.Source = "data.csv"
	table.Format = FormatCSV

	filtered := table.Filter(func(r Row) bool { return r.MasterItemNo == 200 })
	if filtered.Len() != 1 {
		t.Fatalf("Filter() = %d rows, want 1", filtered.Len())
	}
	if filtered.Source != "data.csv" || filtered.Format != FormatCSV {
		t.Errorf("Filter() lost metadata: %q %q", filtered.Source, filtered.Format)
	}
	if !filtered.HasColumn(ColUOM) {
		t.Error("Filter() lost column presence")
	}
	if table.Len() != 4 {
		t.Error("Filter() mutated the source table")
	}
}

func TestTableStats(t *testing.T) {
	s := sampleTable().Stats()

	if s.Rows != 4 {
		t.Errorf("Rows = %d, want 4", s.Rows)
	}
	if s.UniqueItems != 2 {
		t.Errorf("UniqueItems = %d, want 2", s.UniqueItems)
	}
	if s.TotalQty != 6 {
		t.Errorf("TotalQty = %v, want 6", s.TotalQty)
	}
	if s.TotalCost != 55 {
		t.Errorf("TotalCost = %v, want 55", s.TotalCost)
	}
	if !s.HasQty || !s.HasCost {
		t.Error("expected HasQty and HasCost")
	}
}

func TestEmptyTable(t *testing.T) {
	table := EmptyTable()
	if !table.Empty() {
		t.Error("EmptyTable() should be empty")
	}
	if len(table.Columns()) != 0 {
		t.Errorf("Columns() = %v, want none", table.Columns())
	}

	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.HasColumn(ColID) {
		t.Error("nil table should behave as empty")
	}
	if (nilTable.Stats() != Stats{}) {
		t.Error("nil table Stats() should be zero")
	}
}
