// Package dashboard provides the main dashboard tab: headline figures, the
// filtered predictions grid and the cost Pareto chart.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/material-forecast-tui/internal/app"
	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/query"
	"github.com/j-veylop/material-forecast-tui/internal/ui/components"
	"github.com/j-veylop/material-forecast-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Filter    key.Binding
	NextField key.Binding
	Apply     key.Binding
	Cancel    key.Binding
	Clear     key.Binding
	Export    key.Binding
	Up        key.Binding
	Down      key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("/", "f"),
			key.WithHelp("/", "filter"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filter"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export view"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

const (
	fieldNone = iota - 1
	fieldItem
	fieldID
)

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	currency string
	keys     keyMap
	spinner  components.LoadingSpinner

	itemInput textinput.Model
	idInput   textinput.Model
	focus     int

	grid   table.Model
	view   *models.Table
	filter models.RowFilter
	points []components.ParetoPoint

	width  int
	height int
}

// New creates a new dashboard model.
func New(state *app.State, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Model{
		state:     state,
		currency:  cfg.CurrencySymbol,
		keys:      defaultKeyMap(),
		spinner:   components.NewSpinner("Loading dataset..."),
		itemInput: newNumericInput("MasterItemNo"),
		idInput:   newNumericInput("id"),
		focus:     fieldNone,
		grid:      newGrid(),
		view:      models.EmptyTable(),
	}
	return m
}

func newNumericInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 19
	ti.Width = 14
	ti.Prompt = ""
	return ti
}

func newGrid() table.Model {
	t := table.New(table.WithFocused(true), table.WithHeight(8))
	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)
	return t
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Capturing reports whether a filter input has focus.
func (m *Model) Capturing() bool {
	return m.focus != fieldNone
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.DatasetLoadedMsg:
		m.refresh()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		if m.state.IsInitialLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.Capturing() {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Filter):
		if m.state.HasData() {
			m.focusField(fieldItem)
			return textinput.Blink
		}
	case key.Matches(msg, m.keys.Clear):
		m.itemInput.SetValue("")
		m.idInput.SetValue("")
		return m.applyFilter()
	case key.Matches(msg, m.keys.Export):
		return m.export()
	default:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focusField(fieldNone)
		return nil
	case key.Matches(msg, m.keys.NextField):
		if m.focus == fieldItem {
			m.focusField(fieldID)
		} else {
			m.focusField(fieldItem)
		}
		return nil
	case key.Matches(msg, m.keys.Apply):
		m.focusField(fieldNone)
		return m.applyFilter()
	}

	var cmd tea.Cmd
	if m.focus == fieldItem {
		m.itemInput, cmd = m.itemInput.Update(msg)
	} else {
		m.idInput, cmd = m.idInput.Update(msg)
	}
	return cmd
}

func (m *Model) focusField(field int) {
	m.focus = field
	m.itemInput.Blur()
	m.idInput.Blur()
	switch field {
	case fieldItem:
		m.itemInput.Focus()
	case fieldID:
		m.idInput.Focus()
	}
}

// applyFilter parses the inputs, narrows the view and publishes the filter.
// Non-numeric input is ignored.
func (m *Model) applyFilter() tea.Cmd {
	m.filter = models.ParseRowFilter(m.itemInput.Value(), m.idInput.Value())
	m.refresh()

	f := m.filter
	return func() tea.Msg {
		return app.FilterChangedMsg{Filter: f}
	}
}

func (m *Model) export() tea.Cmd {
	if !m.state.HasData() {
		return func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationWarning,
				Message:  "Nothing to export: no data loaded",
				Duration: app.DefaultNotificationDuration,
			}
		}
	}

	f := m.filter
	return func() tea.Msg {
		return app.ExportMsg{Filter: f}
	}
}

// refresh rebuilds the grid and chart from the current snapshot.
func (m *Model) refresh() {
	m.view = m.filter.Apply(m.state.GetTable())
	m.points = components.ParetoPoints(m.view)

	cols := m.view.Columns()
	m.grid.SetRows(nil)
	m.grid.SetColumns(gridColumns(cols, m.currency))
	m.grid.SetRows(gridRows(m.view, cols))
	m.grid.SetHeight(m.gridHeight())
	m.grid.GotoTop()
}

// gridHeight fits the grid to its rows, up to half the free space.
func (m *Model) gridHeight() int {
	limit := max((m.height-20)/2, 5)
	return max(min(m.view.Len()+1, limit), 2)
}

func gridColumns(cols []models.Column, currency string) []table.Column {
	out := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		title := c.String()
		if c.IsCurrency() && currency != "" {
			title += " (" + currency + ")"
		}
		out = append(out, table.Column{Title: title, Width: max(len(title), 10)})
	}
	return out
}

func gridRows(t *models.Table, cols []models.Column) []table.Row {
	rows := make([]table.Row, 0, t.Len())
	for _, r := range t.Rows {
		cells := make(table.Row, len(cols))
		for i, c := range cols {
			if c.IsMetric() {
				if v := r.Metric(c); v.Valid {
					cells[i] = query.FormatNumber(v.Float64)
				}
				continue
			}
			cells[i] = r.Field(c)
		}
		rows = append(rows, cells)
	}
	return rows
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.grid.SetWidth(max(width-6, 20))
	m.grid.SetHeight(m.gridHeight())
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Filter,
		m.keys.Clear,
		m.keys.Export,
		m.keys.Up,
		m.keys.Down,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Filter, m.keys.NextField, m.keys.Apply, m.keys.Cancel},
		{m.keys.Clear, m.keys.Export},
		{m.keys.Up, m.keys.Down},
	}
}
