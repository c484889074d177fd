// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/ui/styles"
)

// ParetoPoint is one item's share of total cost.
type ParetoPoint struct {
	Item          int64
	Cost          float64
	SharePct      float64
	CumulativePct float64
}

// ParetoPoints sums TotalCost per item and orders items by cost, highest
// first. Rows without a valid item or cost are skipped. Ties keep the order
// in which items first appear.
func ParetoPoints(t *models.Table) []ParetoPoint {
	if t.Empty() {
		return nil
	}

	rows := lo.Filter(t.Rows, func(r models.Row, _ int) bool {
		return r.ItemValid && r.TotalCost.Valid
	})
	groups := lo.GroupBy(rows, func(r models.Row) int64 { return r.MasterItemNo })
	order := lo.Uniq(lo.Map(rows, func(r models.Row, _ int) int64 { return r.MasterItemNo }))

	points := lo.Map(order, func(item int64, _ int) ParetoPoint {
		cost := lo.SumBy(groups[item], func(r models.Row) float64 { return r.TotalCost.Float64 })
		return ParetoPoint{Item: item, Cost: cost}
	})
	sort.SliceStable(points, func(i, j int) bool { return points[i].Cost > points[j].Cost })

	total := lo.SumBy(points, func(p ParetoPoint) float64 { return p.Cost })
	if total <= 0 {
		return points
	}

	running := 0.0
	for i := range points {
		running += points[i].Cost
		points[i].SharePct = points[i].Cost / total * 100
		points[i].CumulativePct = running / total * 100
	}
	return points
}

// ItemsForShare returns how many leading items make up pct percent of cost.
func ItemsForShare(points []ParetoPoint, pct float64) int {
	for i, p := range points {
		if p.CumulativePct >= pct {
			return i + 1
		}
	}
	return len(points)
}

// RenderParetoChart plots each item's cost share and the cumulative share,
// both in percent.
func RenderParetoChart(points []ParetoPoint, width, height int) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No cost data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	share := lo.Map(points, func(p ParetoPoint, _ int) float64 { return p.SharePct })
	cumulative := lo.Map(points, func(p ParetoPoint, _ int) float64 { return p.CumulativePct })

	// asciigraph needs two points to draw a line
	if len(points) == 1 {
		share = append(share, share[0])
		cumulative = append(cumulative, cumulative[0])
	}

	return asciigraph.PlotMany([][]float64{share, cumulative},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("cost share by item, %d items", len(points))),
		asciigraph.SeriesColors(asciigraph.DarkOrange, asciigraph.Green),
	)
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := lo.Max(values)
	if maxVal <= 0 {
		maxVal = 1
	}
	maxLabelLen := lo.Max(lo.Map(labels, func(l string, _ int) int { return len(l) }))

	barWidth := max(width-maxLabelLen-16, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Cost).Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, humanize.CommafWithDigits(v, 2)))
	}

	return strings.Join(lines, "\n")
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// ParetoLegend labels the two series drawn by RenderParetoChart.
func ParetoLegend() string {
	return RenderLegend([]LegendItem{
		{Label: "item share %", Color: styles.Cost},
		{Label: "cumulative %", Color: styles.Cumulative},
	})
}
