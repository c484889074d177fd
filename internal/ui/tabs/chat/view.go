package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/material-forecast-tui/internal/query"
	"github.com/j-veylop/material-forecast-tui/internal/session"
	"github.com/j-veylop/material-forecast-tui/internal/ui/styles"
)

// View renders the chat tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Ask the Forecast"),
	}

	if !m.state.HasData() {
		msg := "No data loaded. Questions are disabled until a dataset loads."
		if err := m.state.GetLoadWarning(); err != nil {
			msg = "Dataset not loaded: " + err.Error()
		}
		sections = append(sections,
			styles.WarningBannerStyle.Width(max(m.width-8, 30)).Render(msg))
	}

	sections = append(sections, m.renderBody(), m.renderPrompt())

	return styles.DocStyle.
		Width(m.width).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderBody() string {
	if m.state.Transcript().Len() == 0 {
		var b strings.Builder
		b.WriteString(styles.HelpStyle.Render("Try one of:"))
		for _, ex := range query.Examples {
			b.WriteString("\n")
			b.WriteString(styles.SuggestionStyle.Render("  " + ex))
		}
		return b.String()
	}
	return m.viewport.View()
}

func (m *Model) renderPrompt() string {
	border := styles.BlurredBorderStyle
	if m.input.Focused() {
		border = styles.FocusedBorderStyle
	}
	prompt := border.Width(max(m.width-8, 20)).Render(m.input.View())

	var status string
	switch {
	case m.pending:
		status = styles.InfoTextStyle.Render("thinking...")
	case len(m.suggestions) > 0:
		status = styles.HelpStyle.Render("tab: ") +
			styles.SuggestionStyle.Render(strings.Join(m.suggestions, "  ·  "))
	case !m.input.Focused():
		status = styles.HelpStyle.Render("press i to ask a question, y to copy the last answer")
	}

	if status == "" {
		return prompt
	}
	return lipgloss.JoinVertical(lipgloss.Left, prompt, status)
}

func (m *Model) renderTranscript(entries []session.Entry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, m.renderEntry(e))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderEntry(e session.Entry) string {
	header := styles.PromptStyle.Render("›") + " " +
		styles.QueryStyle.Render(e.Query) + "  " +
		styles.HelpStyle.Render(e.At.Format("15:04:05"))

	lines := []string{header}

	style := styles.GetAnswerStyle(e.Answer.Kind == query.KindError)
	if e.Answer.Text != "" {
		lines = append(lines, style.Width(max(m.viewport.Width-2, 10)).Render(e.Answer.Text))
	}
	if e.Answer.HasTable() {
		lines = append(lines, renderGrid(e.Answer.Table))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderGrid draws an answer grid, right-aligning numeric cells.
func renderGrid(g *query.Grid) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(g.Columns...).
		Rows(g.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			s := styles.TableCellStyle
			if row >= 0 && row < len(g.Rows) && col < len(g.Rows[row]) && isNumeric(g.Rows[row][col]) {
				s = s.Align(lipgloss.Right)
			}
			return s
		}).
		String()
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' && r != '.' && r != '-' {
			return false
		}
	}
	return true
}
