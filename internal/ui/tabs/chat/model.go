// Package chat provides the chat tab: a question prompt and the session
// transcript of answers.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/j-veylop/material-forecast-tui/internal/app"
	"github.com/j-veylop/material-forecast-tui/internal/query"
)

const (
	maxSuggestions     = 3
	minSuggestionInput = 2
)

type keyMap struct {
	Submit   key.Binding
	Accept   key.Binding
	Blur     key.Binding
	Focus    key.Binding
	Copy     key.Binding
	Previous key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "use suggestion"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave prompt"),
		),
		Focus: key.NewBinding(
			key.WithKeys("i", "/", "enter"),
			key.WithHelp("i", "type a question"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy last answer"),
		),
		Previous: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous question"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next question"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// Model represents the chat tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	input    textinput.Model
	viewport viewport.Model

	suggestions []string
	recall      int // index into past questions while browsing, -1 otherwise
	pending     bool
	rendered    int // transcript entries in the viewport

	width  int
	height int
}

// New creates a new chat model.
func New(state *app.State) *Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the forecast, e.g. " + query.Examples[0]
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Focus()

	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		input:    ti,
		viewport: viewport.New(0, 0),
		recall:   -1,
	}
}

// Init initializes the chat tab.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing reports whether the prompt has focus.
func (m *Model) Capturing() bool {
	return m.input.Focused()
}

// Update handles messages for the chat tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.DatasetLoadedMsg:
		if !m.state.HasData() {
			m.input.Blur()
			m.suggestions = nil
		}

	case app.AnswerMsg:
		m.pending = false
		m.syncTranscript()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	default:
		// cursor blink
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfPageUp()
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfPageDown()
		return nil
	}

	if m.input.Focused() {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.state.HasData() {
			return m.input.Focus()
		}
	case key.Matches(msg, m.keys.Copy):
		return m.copyLast()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		m.suggestions = nil
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Accept):
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
			m.suggestions = nil
		}
		return nil
	case key.Matches(msg, m.keys.Previous):
		m.recallQuestion(-1)
		return nil
	case key.Matches(msg, m.keys.Next):
		m.recallQuestion(1)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.recall = -1
	m.updateSuggestions()
	return cmd
}

// submit sends the prompt to the engine. Blank prompts and prompts typed
// while no data is loaded are dropped.
func (m *Model) submit() tea.Cmd {
	q := strings.TrimSpace(m.input.Value())
	if q == "" || m.pending || !m.state.HasData() {
		return nil
	}

	m.pending = true
	m.input.SetValue("")
	m.suggestions = nil
	m.recall = -1

	return func() tea.Msg {
		return app.QueryMsg{Query: q}
	}
}

func (m *Model) copyLast() tea.Cmd {
	last, ok := m.state.Transcript().Last()
	if !ok {
		return func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationInfo,
				Message:  "No answer to copy yet",
				Duration: app.QuickNotificationDuration,
			}
		}
	}

	text := last.Answer.String()
	return func() tea.Msg {
		return app.CopyToClipboardMsg{Text: text, Label: "answer"}
	}
}

// recallQuestion steps through earlier questions, newest first.
func (m *Model) recallQuestion(step int) {
	entries := m.state.Transcript().Entries()
	if len(entries) == 0 {
		return
	}

	idx := m.recall
	if idx < 0 {
		idx = len(entries)
	}
	idx += step

	if idx >= len(entries) {
		m.recall = -1
		m.input.SetValue("")
		return
	}
	idx = max(idx, 0)

	m.recall = idx
	m.input.SetValue(entries[idx].Query)
	m.input.CursorEnd()
}

func (m *Model) updateSuggestions() {
	v := strings.TrimSpace(m.input.Value())
	if len(v) < minSuggestionInput {
		m.suggestions = nil
		return
	}

	matches := fuzzy.Find(v, query.Examples)
	m.suggestions = m.suggestions[:0]
	for _, match := range matches {
		if strings.EqualFold(match.Str, v) {
			continue
		}
		m.suggestions = append(m.suggestions, match.Str)
		if len(m.suggestions) == maxSuggestions {
			break
		}
	}
}

// syncTranscript re-renders the transcript when entries were added.
func (m *Model) syncTranscript() {
	entries := m.state.Transcript().Entries()
	if len(entries) == m.rendered && m.rendered > 0 {
		return
	}
	m.rendered = len(entries)
	m.viewport.SetContent(m.renderTranscript(entries))
	m.viewport.GotoBottom()
}

// SetSize sets the available size for the chat tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-10, 10)
	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height-9, 3)
	m.rendered = 0
	m.syncTranscript()
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Submit,
		m.keys.Accept,
		m.keys.Blur,
		m.keys.Focus,
		m.keys.Copy,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Submit, m.keys.Accept, m.keys.Blur},
		{m.keys.Previous, m.keys.Next},
		{m.keys.Focus, m.keys.Copy},
		{m.keys.PageUp, m.keys.PageDown},
	}
}
