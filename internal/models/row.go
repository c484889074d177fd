// Package models defines data structures and domain types.
package models

import (
	"database/sql"
	"strconv"
)

// Column names a recognized dataset column.
type Column string

// Recognized columns, spelled as they appear in the source header.
const (
	ColID           Column = "id"
	ColMasterItemNo Column = "MasterItemNo"
	ColQtyShipped   Column = "QtyShipped"
	ColUnitCost     Column = "UnitCost"
	ColTotalCost    Column = "TotalCost"
	ColUOM          Column = "UOM"
)

// AllColumns lists the recognized columns in display order.
var AllColumns = []Column{ColID, ColMasterItemNo, ColQtyShipped, ColUnitCost, ColTotalCost, ColUOM}

// MetricColumns lists the nullable numeric columns.
var MetricColumns = []Column{ColQtyShipped, ColUnitCost, ColTotalCost}

// String returns the header spelling.
func (c Column) String() string {
	return string(c)
}

// IsMetric reports whether the column holds a nullable numeric value.
func (c Column) IsMetric() bool {
	return c == ColQtyShipped || c == ColUnitCost || c == ColTotalCost
}

// IsCurrency reports whether values of the column are money amounts.
func (c Column) IsCurrency() bool {
	return c == ColUnitCost || c == ColTotalCost
}

// Row is one prediction record.
// ID and MasterItemNo carry a validity flag; rows whose identifiers failed
// integer coercion never match a lookup.
type Row struct {
	QtyShipped   sql.NullFloat64
	UnitCost     sql.NullFloat64
	TotalCost    sql.NullFloat64
	UOM          string
	ID           int64
	MasterItemNo int64
	IDValid      bool
	ItemValid    bool
}

// Metric returns the value of a numeric column. Non-metric columns are null.
func (r Row) Metric(c Column) sql.NullFloat64 {
	switch c {
	case ColQtyShipped:
		return r.QtyShipped
	case ColUnitCost:
		return r.UnitCost
	case ColTotalCost:
		return r.TotalCost
	default:
		return sql.NullFloat64{}
	}
}

// Field returns the raw, unformatted text of a cell. Null cells are empty.
func (r Row) Field(c Column) string {
	switch c {
	case ColID:
		if !r.IDValid {
			return ""
		}
		return strconv.FormatInt(r.ID, 10)
	case ColMasterItemNo:
		if !r.ItemValid {
			return ""
		}
		return strconv.FormatInt(r.MasterItemNo, 10)
	case ColUOM:
		return r.UOM
	default:
		v := r.Metric(c)
		if !v.Valid {
			return ""
		}
		return strconv.FormatFloat(v.Float64, 'f', -1, 64)
	}
}
