package info

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/material-forecast-tui/internal/ui/styles"
	"github.com/j-veylop/material-forecast-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderDatasetCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Dataset, configuration and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderDatasetCard() string {
	t := m.state.GetTable()

	rows := []string{styles.CardTitleStyle.Render("Dataset"), ""}

	if t.Source == "" {
		rows = append(rows, styles.HelpStyle.Render("No dataset loaded"))
	} else {
		cols := make([]string, 0, len(t.Columns()))
		for _, c := range t.Columns() {
			cols = append(cols, c.String())
		}

		rows = append(rows,
			renderRow("Source", t.Source),
			renderRow("Format", string(t.Format)),
			renderRow("Rows", humanize.Comma(int64(t.Len()))),
			renderRow("Columns", strings.Join(cols, ", ")),
		)
		if last := m.state.GetLastUpdated(); !last.IsZero() {
			rows = append(rows, renderRow("Loaded", humanize.Time(last)))
		}
	}

	if err := m.state.GetLoadWarning(); err != nil {
		rows = append(rows, "", styles.WarningTextStyle.Render("⚠ "+err.Error()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if c := m.config; c != nil {
		sheet := c.DatasetSheet
		if sheet == "" {
			sheet = "(first sheet)"
		}
		currency := c.CurrencySymbol
		if currency == "" {
			currency = "(none)"
		}

		rows = append(rows,
			renderRow("DATASET_PATH", c.DatasetPath),
			renderRow("Table", c.DatasetTable),
			renderRow("Sheet", sheet),
			renderRow("Currency", currency),
			renderRow("Average Mode", string(c.AverageMode)),
			renderRow("Match Limit", strconv.Itoa(c.MatchRowLimit)),
			renderRow("Top K", strconv.Itoa(c.TopKDefault)),
			renderRow("Fuzzy Cutoff", strconv.FormatFloat(c.FuzzyThreshold, 'f', 2, 64)),
			renderRow("Watch File", strconv.FormatBool(c.WatchDataset)),
			renderRow("Log File", c.LogPath),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "", styles.HelpStyle.Render("Press 'c' to copy the dataset path"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Material Forecast"),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
		fmt.Sprintf("Questions asked: %s",
			styles.InfoTextStyle.Render(strconv.Itoa(m.state.Transcript().Len()))),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
