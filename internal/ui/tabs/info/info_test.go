package info

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/material-forecast-tui/internal/app"
	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/version"
)

func pinVersion(t *testing.T) {
	t.Helper()
	version.Version, version.Commit, version.Date = "v1.2.3", "abc1234", "2026-01-02"
	version.Reset()
	t.Cleanup(func() {
		version.Version, version.Commit, version.Date = "", "", ""
		version.Reset()
	})
}

func loadedState() *app.State {
	state := app.NewState()
	table := models.NewTable([]models.Row{
		{ID: 1, IDValid: true, MasterItemNo: 100, ItemValid: true},
		{ID: 2, IDValid: true, MasterItemNo: 200, ItemValid: true},
	}, models.ColID, models.ColMasterItemNo)
	table.Source = "/data/predictions.xlsx"
	table.Format = models.FormatXLSX
	state.SetDataset(table, nil)
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), config.Default())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestView(t *testing.T) {
	pinVersion(t)

	m := New(loadedState(), config.Default())
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{
		"/data/predictions.xlsx",
		"xlsx",
		"id, MasterItemNo",
		"DATASET_PATH",
		"submission_with_cost.csv",
		"items",
		"v1.2.3",
		"abc1234",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestView_NoDataset(t *testing.T) {
	pinVersion(t)

	state := app.NewState()
	state.SetDataset(nil, errors.New("open missing.csv: no such file"))
	m := New(state, nil)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{"No dataset loaded", "no such file", "Configuration not loaded"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestCopyPath(t *testing.T) {
	m := New(loadedState(), config.Default())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd == nil {
		t.Fatal("c should copy the dataset path")
	}
	msg, ok := cmd().(app.CopyToClipboardMsg)
	if !ok || msg.Text != "/data/predictions.xlsx" {
		t.Errorf("cmd() = %#v", msg)
	}

	// falls back to the configured path before anything loads
	m = New(app.NewState(), config.Default())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if msg := cmd().(app.CopyToClipboardMsg); msg.Text != "submission_with_cost.csv" {
		t.Errorf("fallback path = %q", msg.Text)
	}

	m = New(app.NewState(), nil)
	if _, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}); cmd != nil {
		t.Error("nothing to copy without a path")
	}
}

func TestUpdate_IgnoresOtherMessages(t *testing.T) {
	m := New(app.NewState(), nil)
	updated, cmd := m.Update(app.TickMsg{})
	if updated == nil || cmd != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
