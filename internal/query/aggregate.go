package query

import (
	"sort"

	"github.com/samber/lo"

	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// values returns the non-null values of col.
func values(rows []models.Row, col models.Column) []float64 {
	return lo.FilterMap(rows, func(r models.Row, _ int) (float64, bool) {
		v := r.Metric(col)
		return v.Float64, v.Valid
	})
}

// sum adds the non-null values of col. All-null input sums to zero.
func sum(rows []models.Row, col models.Column) float64 {
	return lo.Sum(values(rows, col))
}

// mean averages the non-null values of col; ok is false when there are none.
func mean(rows []models.Row, col models.Column) (float64, bool) {
	vs := values(rows, col)
	if len(vs) == 0 {
		return 0, false
	}
	return lo.Sum(vs) / float64(len(vs)), true
}

// modeUOM returns the most frequent non-empty UOM. Ties go to the first seen.
func modeUOM(rows []models.Row) string {
	counts := make(map[string]int)
	var (
		best  string
		order []string
	)
	for _, r := range rows {
		if r.UOM == "" {
			continue
		}
		if counts[r.UOM] == 0 {
			order = append(order, r.UOM)
		}
		counts[r.UOM]++
	}
	for _, u := range order {
		if counts[u] > counts[best] {
			best = u
		}
	}
	return best
}

// group is the rows of one MasterItemNo.
type group struct {
	rows  []models.Row
	item  int64
	value float64
}

// groupByItem partitions rows by MasterItemNo in order of first appearance.
// Rows without a usable item number are dropped.
func groupByItem(rows []models.Row) []group {
	valid := lo.Filter(rows, func(r models.Row, _ int) bool { return r.ItemValid })
	byItem := lo.GroupBy(valid, func(r models.Row) int64 { return r.MasterItemNo })
	order := lo.Uniq(lo.Map(valid, func(r models.Row, _ int) int64 { return r.MasterItemNo }))

	return lo.Map(order, func(item int64, _ int) group {
		return group{item: item, rows: byItem[item]}
	})
}

// rankGroups scores each group on col and sorts descending. Sums are used for
// quantities and totals; unit cost uses the per-item mean and drops groups with
// no unit cost at all. Equal scores keep first-appearance order.
func rankGroups(rows []models.Row, col models.Column) []group {
	groups := groupByItem(rows)
	scored := make([]group, 0, len(groups))
	for _, g := range groups {
		if col == models.ColUnitCost {
			m, ok := mean(g.rows, col)
			if !ok {
				continue
			}
			g.value = m
		} else {
			g.value = sum(g.rows, col)
		}
		scored = append(scored, g)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].value > scored[j].value })
	return scored
}

// averageUnitCost implements both documented definitions of average unit cost.
func averageUnitCost(rows []models.Row, mode config.AverageMode) (float64, bool) {
	if mode == config.AverageRows {
		return mean(rows, models.ColUnitCost)
	}
	itemMeans := lo.FilterMap(groupByItem(rows), func(g group, _ int) (float64, bool) {
		return mean(g.rows, models.ColUnitCost)
	})
	if len(itemMeans) == 0 {
		return 0, false
	}
	return lo.Sum(itemMeans) / float64(len(itemMeans)), true
}

// extremum finds the row with the largest (or smallest) value of col. Nulls
// are skipped; on ties the earliest row wins.
func extremum(rows []models.Row, col models.Column, highest bool) (models.Row, bool) {
	var (
		best  models.Row
		found bool
	)
	for _, r := range rows {
		v := r.Metric(col)
		if !v.Valid {
			continue
		}
		cur := best.Metric(col).Float64
		if !found || (highest && v.Float64 > cur) || (!highest && v.Float64 < cur) {
			best, found = r, true
		}
	}
	return best, found
}

// compareOp applies a comparison operator.
func compareOp(op string, v, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	default:
		return false
	}
}
