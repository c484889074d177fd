package models

import (
	"strconv"
	"strings"
)

// RowFilter narrows a table to one MasterItemNo and/or one id. A zero
// RowFilter keeps every row.
type RowFilter struct {
	Item    int64
	ID      int64
	HasItem bool
	HasID   bool
}

// ParseRowFilter builds a filter from free-text inputs. Inputs that are not
// whole numbers are ignored.
func ParseRowFilter(item, id string) RowFilter {
	var f RowFilter
	if n, err := strconv.ParseInt(strings.TrimSpace(item), 10, 64); err == nil {
		f.Item, f.HasItem = n, true
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		f.ID, f.HasID = n, true
	}
	return f
}

// Active reports whether the filter restricts anything.
func (f RowFilter) Active() bool {
	return f.HasItem || f.HasID
}

// Match reports whether r passes the filter.
func (f RowFilter) Match(r Row) bool {
	if f.HasItem && (!r.ItemValid || r.MasterItemNo != f.Item) {
		return false
	}
	if f.HasID && (!r.IDValid || r.ID != f.ID) {
		return false
	}
	return true
}

// String describes the filter for status lines.
func (f RowFilter) String() string {
	var parts []string
	if f.HasItem {
		parts = append(parts, "MasterItemNo="+strconv.FormatInt(f.Item, 10))
	}
	if f.HasID {
		parts = append(parts, "id="+strconv.FormatInt(f.ID, 10))
	}
	if len(parts) == 0 {
		return "all rows"
	}
	return strings.Join(parts, ", ")
}

// Apply returns t narrowed by f. An inactive filter returns t itself.
func (f RowFilter) Apply(t *Table) *Table {
	if t == nil {
		return EmptyTable()
	}
	if !f.Active() {
		return t
	}
	return t.Filter(f.Match)
}
