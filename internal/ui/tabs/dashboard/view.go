package dashboard

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/material-forecast-tui/internal/query"
	"github.com/j-veylop/material-forecast-tui/internal/ui/components"
	"github.com/j-veylop/material-forecast-tui/internal/ui/styles"
)

const topItemsShown = 5

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.spinner.ViewCentered(m.width, m.height)
	}

	sections := []string{m.renderTitle()}

	if !m.state.HasData() {
		sections = append(sections, m.renderNoData())
	} else {
		sections = append(sections,
			m.renderKPIs(),
			m.renderFilterBar(),
			m.renderGrid(),
			m.renderPareto(),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Material Forecast")

	source := "no dataset"
	if t := m.state.GetTable(); t.Source != "" {
		source = fmt.Sprintf("%s (%s)", filepath.Base(t.Source), t.Format)
	}
	subtitle := styles.HelpStyle.Render("Predicted shipments and cost · " + source)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderNoData replaces the dashboard while the snapshot is empty.
func (m *Model) renderNoData() string {
	msg := "No rows loaded."
	if err := m.state.GetLoadWarning(); err != nil {
		msg = "Dataset not loaded: " + err.Error()
	}

	banner := styles.WarningBannerStyle.Width(max(m.width-8, 30)).Render(msg)
	hint := styles.HelpStyle.Render("Fix the file and press r to reload. Filters, export and chat are disabled.")

	return lipgloss.JoinVertical(lipgloss.Left, banner, hint)
}

func (m *Model) renderKPIs() string {
	stats := m.view.Stats()

	qty := "n/a"
	if stats.HasQty {
		qty = query.FormatNumber(stats.TotalQty)
	}
	cost := "n/a"
	if stats.HasCost {
		cost = query.FormatMoney(m.currency, stats.TotalCost)
	}

	cards := []string{
		kpiCard("Rows", humanize.Comma(int64(stats.Rows))),
		kpiCard("Unique Items", humanize.Comma(int64(stats.UniqueItems))),
		kpiCard("Total Qty", qty),
		kpiCard("Total Cost", cost),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func kpiCard(label, value string) string {
	return styles.KPICardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.KPILabelStyle.Render(label),
		styles.KPIValueStyle.Render(value),
	))
}

func (m *Model) renderFilterBar() string {
	field := func(label string, focused bool, input string) string {
		style := styles.BlurredBorderStyle
		labelStyle := styles.BlurredStyle
		if focused {
			style = styles.FocusedBorderStyle
			labelStyle = styles.FocusedStyle
		}
		return lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(label+" "), style.Render(input))
	}

	status := styles.HelpStyle.Render("showing " + m.filter.String())
	if m.filter.Active() {
		status = styles.InfoTextStyle.Render(fmt.Sprintf("showing %s (%s of %s rows)",
			m.filter.String(),
			humanize.Comma(int64(m.view.Len())),
			humanize.Comma(int64(m.state.GetTable().Len()))))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		field("MasterItemNo", m.focus == fieldItem, m.itemInput.View()),
		"  ",
		field("ID", m.focus == fieldID, m.idInput.View()),
		"  ",
		status,
	)
}

func (m *Model) renderGrid() string {
	if m.view.Empty() {
		return styles.CardStyle.Render(styles.HelpStyle.Render("No rows match " + m.filter.String()))
	}
	return styles.CardStyle.Render(m.grid.View())
}

func (m *Model) renderPareto() string {
	if len(m.points) == 0 {
		return ""
	}

	chartWidth := max(m.width-24, 20)
	chart := components.RenderParetoChart(m.points, chartWidth, 6)

	summary := styles.HelpStyle.Render(fmt.Sprintf("%d of %d items make up 80%% of cost",
		components.ItemsForShare(m.points, 80), len(m.points)))

	n := min(topItemsShown, len(m.points))
	values := make([]float64, n)
	labels := make([]string, n)
	for i, p := range m.points[:n] {
		values[i] = p.Cost
		labels[i] = fmt.Sprintf("%d", p.Item)
	}

	rows := []string{
		styles.CardTitleStyle.Render("Cost Pareto"),
		chart,
		components.ParetoLegend(),
		summary,
		"",
		styles.SubTitleStyle.Render("Top items by cost"),
		components.RenderBarChart(values, labels, chartWidth),
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
