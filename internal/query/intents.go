package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

var (
	maxWords  = []string{"highest", "max", "maximum", "most", "largest", "biggest"}
	minWords  = []string{"lowest", "min", "minimum", "least", "smallest"}
	showWords = []string{"show", "list", "display"}
	avgWords  = []string{"average", "avg", "mean"}
	spendWord = []string{"spend", "spent", "spending"}
)

// metricPriority is the order metric keywords are checked in item and id lookups.
var metricPriority = []models.Column{models.ColUnitCost, models.ColQtyShipped, models.ColTotalCost}

// isExplain matches "how is total cost calculated" but not "how many"/"how much"
// questions, which ask for a number.
func isExplain(q *parsedQuery) bool {
	return q.has("how") && !q.has("many", "much") && q.contains("total cost", "totalcost")
}

func isThreshold(q *parsedQuery) bool {
	if q.cmp == nil {
		return false
	}
	_, ok := q.columnBefore(q.cmp.pos)
	return ok
}

// lookupExcluded keeps lookups from swallowing filter, ranking and comparison
// queries that also mention an item and a number.
func lookupExcluded(q *parsedQuery) bool {
	return q.has("where", "top", "compare")
}

func isIDLookup(q *parsedQuery) bool {
	return q.has("id", "ids") && !lookupExcluded(q) && len(q.ints) > 0
}

func isItemLookup(q *parsedQuery) bool {
	named := q.contains("masteritemno") || q.has("item", "items", "masteritem")
	return named && !lookupExcluded(q) && len(q.ints) > 0
}

func isAggregate(q *parsedQuery) bool {
	if q.has("top", "compare") || q.has(maxWords...) || q.has(minWords...) {
		return false
	}
	switch {
	case q.has(avgWords...) && len(q.mentions) > 0:
		return true
	case q.has("total") && q.mentioned(models.ColQtyShipped):
		return true
	case q.contains("total cost", "totalcost") || q.has(spendWord...):
		return true
	}
	return false
}

func isExtremum(q *parsedQuery) bool {
	return (q.has(maxWords...) || q.has(minWords...)) && len(q.mentions) > 0
}

func isTopK(q *parsedQuery) bool {
	return q.has("top") && (len(q.mentions) > 0 || q.has("expensive"))
}

func isCompare(q *parsedQuery) bool {
	return q.has("compare") && len(q.ints) >= 2
}

func (e *Engine) explain(_ *models.Table, _ *parsedQuery) (Answer, error) {
	return Answer{Kind: KindExplanation, Text: ExplainText}, nil
}

func (e *Engine) fallback(_ *models.Table, _ *parsedQuery) (Answer, error) {
	return Answer{Kind: KindHelp, Text: HelpText}, nil
}

func (e *Engine) threshold(t *models.Table, q *parsedQuery) (Answer, error) {
	col, _ := q.columnBefore(q.cmp.pos)
	if !t.HasColumn(col) {
		return Answer{}, missingColumn(col)
	}

	matches := lo.Filter(t.Rows, func(r models.Row, _ int) bool {
		v := r.Metric(col)
		return v.Valid && compareOp(q.cmp.op, v.Float64, q.cmp.value)
	})

	cond := fmt.Sprintf("%s %s %s", col, q.cmp.op, q.cmp.literal)
	if len(matches) == 0 {
		return textAnswer("No records found where " + cond), nil
	}

	caption := fmt.Sprintf("Found %s %s where %s", e.format.count(len(matches)), plural(len(matches), "record", "records"), cond)
	if !q.has(showWords...) {
		return textAnswer(caption + "."), nil
	}

	shown := matches[:min(e.opts.MatchRowLimit, len(matches))]
	if len(shown) < len(matches) {
		caption += fmt.Sprintf(" (showing first %d)", len(shown))
	}
	return e.tableAnswer(caption, e.rowGrid(t, shown)), nil
}

func (e *Engine) idLookup(t *models.Table, q *parsedQuery) (Answer, error) {
	id := q.ints[0]
	rows := t.RowsForID(id)
	if len(rows) == 0 {
		return textAnswer(fmt.Sprintf("No record found for ID %d", id)), nil
	}

	caption := fmt.Sprintf("%s for ID %d", plural(len(rows), "Record", "Records"), id)
	if col, ok := q.firstMentioned(metricPriority...); ok {
		if !t.HasColumn(col) {
			return Answer{}, missingColumn(col)
		}
		caption = fmt.Sprintf("%s for ID %d: %s", col, id, e.summarize(rows, col))
	}
	return e.tableAnswer(caption, e.rowGrid(t, rows)), nil
}

func (e *Engine) itemLookup(t *models.Table, q *parsedQuery) (Answer, error) {
	item := q.ints[0]
	rows := t.RowsForItem(item)
	if len(rows) == 0 {
		return textAnswer(fmt.Sprintf("No record found for MasterItemNo %d", item)), nil
	}

	col, ok := q.firstMentioned(metricPriority...)
	if !ok {
		caption := fmt.Sprintf("%s %s for MasterItemNo %d", e.format.count(len(rows)), plural(len(rows), "record", "records"), item)
		return e.tableAnswer(caption, e.rowGrid(t, rows)), nil
	}
	if !t.HasColumn(col) {
		return Answer{}, missingColumn(col)
	}

	label := col.String()
	if col == models.ColQtyShipped {
		label = "Total " + label
	}
	return textAnswer(fmt.Sprintf("%s for MasterItemNo %d: %s", label, item, e.summarize(rows, col))), nil
}

// summarize aggregates one column over a row selection: the mean for unit
// cost and the sum for quantities and totals.
func (e *Engine) summarize(rows []models.Row, col models.Column) string {
	if col == models.ColUnitCost {
		m, ok := mean(rows, col)
		if !ok {
			return "no value recorded"
		}
		return e.format.money(m)
	}
	if len(values(rows, col)) == 0 {
		return "no value recorded"
	}
	return e.format.value(col, sum(rows, col), modeUOM(rows))
}

func (e *Engine) aggregate(t *models.Table, q *parsedQuery) (Answer, error) {
	if q.has(avgWords...) && len(q.mentions) > 0 {
		col := q.mentions[0].col
		if c, ok := q.firstMentioned(metricPriority...); ok {
			col = c
		}
		if !t.HasColumn(col) {
			return Answer{}, missingColumn(col)
		}
		return e.average(t, col), nil
	}

	col := models.ColTotalCost
	label := "Grand total cost"
	if q.has("total") && q.mentioned(models.ColQtyShipped) {
		col = models.ColQtyShipped
		label = "Grand total QtyShipped"
	}
	if !t.HasColumn(col) {
		return Answer{}, missingColumn(col)
	}
	return textAnswer(fmt.Sprintf("%s: %s", label, e.format.value(col, sum(t.Rows, col), modeUOM(t.Rows)))), nil
}

func (e *Engine) average(t *models.Table, col models.Column) Answer {
	if col == models.ColUnitCost {
		avg, ok := averageUnitCost(t.Rows, e.opts.AverageMode)
		if !ok {
			return textAnswer("No UnitCost values available")
		}
		scope := "items"
		if e.opts.AverageMode == config.AverageRows {
			scope = "rows"
		}
		return textAnswer(fmt.Sprintf("Average UnitCost across %s: %s", scope, e.format.money(avg)))
	}

	avg, ok := mean(t.Rows, col)
	if !ok {
		return textAnswer(fmt.Sprintf("No %s values available", col))
	}
	return textAnswer(fmt.Sprintf("Average %s per row: %s", col, e.format.value(col, avg, modeUOM(t.Rows))))
}

func (e *Engine) extremum(t *models.Table, q *parsedQuery) (Answer, error) {
	col := q.mentions[0].col
	if !t.HasColumn(col) {
		return Answer{}, missingColumn(col)
	}

	highest := q.has(maxWords...)
	row, ok := extremum(t.Rows, col, highest)
	if !ok {
		return textAnswer(fmt.Sprintf("No %s values available", col)), nil
	}

	word := "Lowest"
	if highest {
		word = "Highest"
	}
	caption := fmt.Sprintf("%s %s: MasterItemNo %s, %s=%s",
		word, col, itemLabel(row), col, e.format.value(col, row.Metric(col).Float64, row.UOM))
	return e.tableAnswer(caption, e.rowGrid(t, []models.Row{row})), nil
}

func (e *Engine) topK(t *models.Table, q *parsedQuery) (Answer, error) {
	var col models.Column
	switch {
	case q.has("expensive") || q.mentioned(models.ColTotalCost):
		col = models.ColTotalCost
	case q.mentioned(models.ColQtyShipped):
		col = models.ColQtyShipped
	default:
		col = models.ColUnitCost
	}
	if !t.HasColumn(col) {
		return Answer{}, missingColumn(col)
	}

	k := e.opts.TopKDefault
	if len(q.ints) > 0 && q.ints[0] > 0 {
		k = int(min(q.ints[0], int64(len(t.Rows))))
	}

	ranked := rankGroups(t.Rows, col)
	if len(ranked) == 0 {
		return textAnswer(fmt.Sprintf("No records found to rank by %s", col)), nil
	}
	ranked = ranked[:min(k, len(ranked))]

	grid := &Grid{Columns: []string{models.ColMasterItemNo.String(), e.format.header(col)}}
	if col == models.ColQtyShipped {
		grid.Columns = append(grid.Columns, models.ColUOM.String())
	}
	for _, g := range ranked {
		row := []string{strconv.FormatInt(g.item, 10), e.format.number(g.value)}
		if col == models.ColQtyShipped {
			row = append(row, modeUOM(g.rows))
		}
		grid.Rows = append(grid.Rows, row)
	}

	label := col.String()
	if col == models.ColUnitCost {
		label = "average UnitCost"
	}
	caption := fmt.Sprintf("Top %d MasterItemNo by %s", len(ranked), label)
	return e.tableAnswer(caption, grid), nil
}

func (e *Engine) compare(t *models.Table, q *parsedQuery) (Answer, error) {
	if !t.HasColumn(models.ColQtyShipped) && !t.HasColumn(models.ColTotalCost) {
		return Answer{}, missingColumn(models.ColTotalCost)
	}

	items := lo.Uniq(q.ints[:2])
	grid := &Grid{Columns: []string{
		models.ColMasterItemNo.String(),
		models.ColQtyShipped.String(),
		models.ColUOM.String(),
		e.format.header(models.ColTotalCost),
	}}

	var missing []string
	for _, item := range items {
		rows := t.RowsForItem(item)
		if len(rows) == 0 {
			missing = append(missing, strconv.FormatInt(item, 10))
			continue
		}
		grid.Rows = append(grid.Rows, []string{
			strconv.FormatInt(item, 10),
			e.format.number(sum(rows, models.ColQtyShipped)),
			modeUOM(rows),
			e.format.number(sum(rows, models.ColTotalCost)),
		})
	}

	names := lo.Map(items, func(n int64, _ int) string { return strconv.FormatInt(n, 10) })
	if len(grid.Rows) == 0 {
		return textAnswer("No records found for MasterItemNo " + strings.Join(names, " or ")), nil
	}

	caption := "Comparison of MasterItemNo " + strings.Join(names, " and ")
	if len(missing) > 0 {
		caption += fmt.Sprintf(" (no records for MasterItemNo %s)", strings.Join(missing, ", "))
	}
	return e.tableAnswer(caption, grid), nil
}

// rowGrid projects rows onto the table's present columns.
func (e *Engine) rowGrid(t *models.Table, rows []models.Row) *Grid {
	cols := t.Columns()
	grid := &Grid{Columns: lo.Map(cols, func(c models.Column, _ int) string { return e.format.header(c) })}
	for _, r := range rows {
		grid.Rows = append(grid.Rows, lo.Map(cols, func(c models.Column, _ int) string { return e.format.cell(r, c) }))
	}
	return grid
}

func (e *Engine) tableAnswer(caption string, grid *Grid) Answer {
	return Answer{Kind: KindTable, Text: caption, Table: grid}
}

func textAnswer(text string) Answer {
	return Answer{Kind: KindText, Text: text}
}

func missingColumn(col models.Column) error {
	return fmt.Errorf("%s: %w", col, ErrMissingColumn)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
