package models

import "testing"

func TestParseRowFilter(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		id      string
		want    RowFilter
		wantStr string
	}{
		{"empty", "", "", RowFilter{}, "all rows"},
		{"item only", " 100 ", "", RowFilter{Item: 100, HasItem: true}, "MasterItemNo=100"},
		{"id only", "", "3", RowFilter{ID: 3, HasID: true}, "id=3"},
		{"both", "200", "3", RowFilter{Item: 200, HasItem: true, ID: 3, HasID: true}, "MasterItemNo=200, id=3"},
		{"non-numeric ignored", "abc", "1.5", RowFilter{}, "all rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRowFilter(tt.item, tt.id)
			if got != tt.want {
				t.Errorf("ParseRowFilter(%q, %q) = %+v, want %+v", tt.item, tt.id, got, tt.want)
			}
			if got.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantStr)
			}
		})
	}
}

func TestRowFilterApply(t *testing.T) {
	table := sampleTable()

	if got := (RowFilter{}).Apply(table); got != table {
		t.Error("inactive filter should return the table unchanged")
	}

	byItem := ParseRowFilter("100", "").Apply(table)
	if byItem.Len() != len(table.RowsForItem(100)) {
		t.Errorf("item filter = %d rows, want %d", byItem.Len(), len(table.RowsForItem(100)))
	}

	none := ParseRowFilter("100", "999").Apply(table)
	if !none.Empty() {
		t.Errorf("combined filter should match nothing, got %d rows", none.Len())
	}

	if got := ParseRowFilter("1", "").Apply(nil); got == nil || !got.Empty() {
		t.Error("Apply(nil) should return an empty table")
	}
}
