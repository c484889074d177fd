package dashboard

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/material-forecast-tui/internal/app"
	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

func num(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func sampleTable() *models.Table {
	t := models.NewTable([]models.Row{
		{ID: 101, IDValid: true, MasterItemNo: 100, ItemValid: true, QtyShipped: num(2), UnitCost: num(10), TotalCost: num(20), UOM: "EA"},
		{ID: 102, IDValid: true, MasterItemNo: 100, ItemValid: true, QtyShipped: num(3), UnitCost: num(10), TotalCost: num(30), UOM: "EA"},
		{ID: 103, IDValid: true, MasterItemNo: 200, ItemValid: true, QtyShipped: num(5), UnitCost: num(4), TotalCost: num(20), UOM: "KG"},
	}, models.AllColumns...)
	t.Source = "/data/predictions.csv"
	t.Format = models.FormatCSV
	return t
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) *Model {
	t.Helper()

	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetDataset(sampleTable(), nil)

	m := New(state, config.Default())
	m.SetSize(160, 60)
	m.Update(app.DatasetLoadedMsg{Table: state.GetTable()})
	return m
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.currency != "Rs." {
		t.Errorf("currency = %q, want default", m.currency)
	}
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestView_InitialLoading(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "Loading dataset") {
		t.Error("View should show the loading spinner before the first snapshot")
	}
}

func TestView_NoData(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetDataset(models.EmptyTable(), errors.New("open predictions.csv: no such file"))

	m := New(state, nil)
	m.SetSize(120, 40)
	m.Update(app.DatasetLoadedMsg{})

	view := m.View()
	if !strings.Contains(view, "Dataset not loaded") {
		t.Errorf("View should show the load warning:\n%s", view)
	}
	if strings.Contains(view, "Total Cost") {
		t.Error("KPIs should be hidden while the dataset is empty")
	}

	m.Update(runes("/"))
	if m.Capturing() {
		t.Error("filter should stay disabled without data")
	}

	msg := m.handleKeyMsg(runes("e"))()
	notif, ok := msg.(app.AddNotificationMsg)
	if !ok || notif.Type != app.NotificationWarning {
		t.Errorf("export without data = %#v, want a warning", msg)
	}
}

func TestView_WithData(t *testing.T) {
	m := loadedModel(t)

	view := m.View()
	for _, want := range []string{"Rows", "Unique Items", "Total Qty", "Total Cost", "Rs. 70.00", "10.00", "Cost Pareto", "predictions.csv"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestFilterFlow(t *testing.T) {
	m := loadedModel(t)

	m.Update(runes("/"))
	if !m.Capturing() {
		t.Fatal("'/' should focus the MasterItemNo input")
	}

	m.Update(runes("100"))
	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Capturing() {
		t.Error("enter should leave the filter inputs")
	}

	changed, ok := cmd().(app.FilterChangedMsg)
	if !ok {
		t.Fatal("applying a filter should publish FilterChangedMsg")
	}
	if !changed.Filter.HasItem || changed.Filter.Item != 100 {
		t.Errorf("filter = %+v, want MasterItemNo=100", changed.Filter)
	}
	if m.view.Len() != 2 {
		t.Errorf("filtered view has %d rows, want 2", m.view.Len())
	}
	if len(m.points) != 1 || m.points[0].Cost != 50 {
		t.Errorf("pareto points = %+v, want one item costing 50", m.points)
	}
	if !strings.Contains(m.View(), "2 of 3 rows") {
		t.Error("status line should report the filtered row count")
	}

	m.handleKeyMsg(runes("x"))
	if m.filter.Active() || m.view.Len() != 3 {
		t.Errorf("clear should restore all rows, filter = %v", m.filter)
	}
}

func TestFilterByID(t *testing.T) {
	m := loadedModel(t)

	m.Update(runes("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldID {
		t.Fatalf("tab should move to the id input, focus = %d", m.focus)
	}
	m.Update(runes("103"))
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	if !m.filter.HasID || m.filter.HasItem {
		t.Errorf("filter = %+v, want id only", m.filter)
	}
	if m.view.Len() != 1 {
		t.Errorf("view has %d rows, want 1", m.view.Len())
	}
}

func TestFilterIgnoresNonNumeric(t *testing.T) {
	m := loadedModel(t)

	m.Update(runes("/"))
	m.Update(runes("abc"))
	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})

	if m.filter.Active() {
		t.Errorf("non-numeric input should be ignored, filter = %v", m.filter)
	}
	if m.view.Len() != 3 {
		t.Errorf("view has %d rows, want 3", m.view.Len())
	}
}

func TestEscapeLeavesFilter(t *testing.T) {
	m := loadedModel(t)

	m.Update(runes("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Capturing() {
		t.Error("esc should blur the filter inputs")
	}
}

func TestExport(t *testing.T) {
	m := loadedModel(t)
	m.filter = models.ParseRowFilter("200", "")

	msg := m.handleKeyMsg(runes("e"))()
	export, ok := msg.(app.ExportMsg)
	if !ok {
		t.Fatalf("export = %#v, want ExportMsg", msg)
	}
	if export.Filter != m.filter || export.Path != "" {
		t.Errorf("ExportMsg = %+v", export)
	}
}

func TestRefreshOnReload(t *testing.T) {
	m := loadedModel(t)

	bigger := sampleTable()
	bigger.Rows = append(bigger.Rows, models.Row{ID: 104, IDValid: true, MasterItemNo: 300, ItemValid: true, TotalCost: num(100)})
	m.state.SetDataset(bigger, nil)
	m.Update(app.DatasetLoadedMsg{Table: bigger, Reloaded: true})

	if m.view.Len() != 4 {
		t.Errorf("view has %d rows after reload, want 4", m.view.Len())
	}
	if m.points[0].Item != 300 {
		t.Errorf("top pareto item = %d, want 300", m.points[0].Item)
	}
}

func TestGridRows(t *testing.T) {
	table := sampleTable()
	table.Rows[0].UnitCost = sql.NullFloat64{}
	cols := table.Columns()

	rows := gridRows(table, cols)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "101" || rows[0][1] != "100" {
		t.Errorf("identifier cells = %v", rows[0][:2])
	}
	if rows[0][2] != "2.00" || rows[0][3] != "" {
		t.Errorf("metric cells = %v", rows[0][2:4])
	}

	headers := gridColumns(cols, "Rs.")
	if headers[4].Title != "TotalCost (Rs.)" {
		t.Errorf("cost header = %q", headers[4].Title)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
