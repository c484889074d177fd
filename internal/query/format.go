package query

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// numberFormat renders thousands separators and two decimals.
const numberFormat = "#,###.##"

// formatter renders numbers for answers using a fixed currency marker.
type formatter struct {
	currency string
}

func (f formatter) number(v float64) string {
	return humanize.FormatFloat(numberFormat, v)
}

func (f formatter) money(v float64) string {
	if f.currency == "" {
		return f.number(v)
	}
	return f.currency + " " + f.number(v)
}

func (f formatter) quantity(v float64, uom string) string {
	if uom == "" {
		return f.number(v)
	}
	return f.number(v) + " " + uom
}

// value formats v according to the kind of column it came from.
func (f formatter) value(col models.Column, v float64, uom string) string {
	switch {
	case col.IsCurrency():
		return f.money(v)
	case col == models.ColQtyShipped:
		return f.quantity(v, uom)
	default:
		return f.number(v)
	}
}

// header labels a grid column, adding the currency marker to money columns.
func (f formatter) header(col models.Column) string {
	if col.IsCurrency() && f.currency != "" {
		return col.String() + " (" + f.currency + ")"
	}
	return col.String()
}

func (f formatter) count(n int) string {
	return humanize.Comma(int64(n))
}

// cell renders one raw row cell for a grid. Metrics get two decimals without
// a currency marker; the header carries it instead.
func (f formatter) cell(r models.Row, col models.Column) string {
	if col.IsMetric() {
		v := r.Metric(col)
		if !v.Valid {
			return ""
		}
		return f.number(v.Float64)
	}
	return r.Field(col)
}

// itemLabel renders an item number, or "-" when the source value was unusable.
func itemLabel(r models.Row) string {
	if !r.ItemValid {
		return "-"
	}
	return strconv.FormatInt(r.MasterItemNo, 10)
}

// FormatNumber renders v with thousands separators and two decimals.
func FormatNumber(v float64) string {
	return formatter{}.number(v)
}

// FormatMoney renders v as an amount with the given currency marker.
func FormatMoney(currency string, v float64) string {
	return formatter{currency: currency}.money(v)
}
