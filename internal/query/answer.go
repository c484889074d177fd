package query

import (
	"strings"
)

// Kind says how an answer should be displayed.
type Kind int

const (
	// KindText is a plain message.
	KindText Kind = iota
	// KindTable is a caption plus a small grid.
	KindTable
	// KindExplanation is a fixed explanatory message.
	KindExplanation
	// KindHelp is the usage text shown for unrecognized queries.
	KindHelp
	// KindError reports a fault caught while answering.
	KindError
)

// String returns the display name for a kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	case KindExplanation:
		return "explanation"
	case KindHelp:
		return "help"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Intent is the classified purpose of a query.
type Intent string

// Intents in the order they are tested.
const (
	IntentExplain    Intent = "explain"
	IntentThreshold  Intent = "threshold"
	IntentIDLookup   Intent = "id_lookup"
	IntentItemLookup Intent = "item_lookup"
	IntentAggregate  Intent = "aggregate"
	IntentExtremum   Intent = "extremum"
	IntentTopK       Intent = "top_k"
	IntentCompare    Intent = "compare"
	IntentFallback   Intent = "fallback"
)

// Grid is a small projected table of pre-formatted cells.
type Grid struct {
	Columns []string
	Rows    [][]string
}

// Answer is the result of interpreting one query.
type Answer struct {
	Table  *Grid
	Intent Intent
	Text   string
	Kind   Kind
}

// HasTable reports whether the answer carries a grid with at least one row.
func (a Answer) HasTable() bool {
	return a.Table != nil && len(a.Table.Rows) > 0
}

// String renders the answer as plain text, with any grid as a Markdown table.
func (a Answer) String() string {
	if !a.HasTable() {
		return a.Text
	}
	var b strings.Builder
	if a.Text != "" {
		b.WriteString(a.Text)
		b.WriteString("\n\n")
	}
	b.WriteString(a.Table.Markdown())
	return b.String()
}

// Markdown renders the grid as a pipe table.
func (g *Grid) Markdown() string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}

	writeRow(g.Columns)
	sep := make([]string, len(g.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range g.Rows {
		writeRow(r)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
