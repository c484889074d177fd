// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/dataset"
	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/query"
	"github.com/j-veylop/material-forecast-tui/internal/services/datasource"
	"github.com/j-veylop/material-forecast-tui/internal/session"
)

type (
	// DatasetChangedEvent is emitted when a new snapshot replaces the old one.
	DatasetChangedEvent struct {
		Table    *models.Table
		Stats    models.Stats
		Reloaded bool
	}

	// LoadWarningEvent is emitted when the dataset could not be read. The
	// snapshot is empty until a later load succeeds.
	LoadWarningEvent struct {
		Path  string
		Error error
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetChangedEvent) isServiceEvent() {}
func (LoadWarningEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()          {}

// notify raises a desktop notification. Tests replace it.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates the dataset source, the query engine and the session
// transcript, and routes events to subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	source      *datasource.Service
	engine      *query.Engine
	transcript  *session.Transcript
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	closeOnce   sync.Once
}

// NewManager creates a new service manager and loads the dataset.
func NewManager(cfg *config.Config) (*Manager, error) {
	source, err := datasource.New(datasource.Config{
		Path:     cfg.DatasetPath,
		Table:    cfg.DatasetTable,
		Sheet:    cfg.DatasetSheet,
		Watch:    cfg.WatchDataset,
		Debounce: cfg.ReloadDebounce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start dataset source: %w", err)
	}

	m := &Manager{
		cfg:        cfg,
		source:     source,
		engine:     query.New(query.OptionsFromConfig(cfg)),
		transcript: session.New(),
		stopChan:   make(chan struct{}),
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the dataset source to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event, ok := <-m.source.Events():
			if !ok {
				return
			}
			m.handleSourceEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSourceEvent(event datasource.Event) {
	switch event.Type {
	case datasource.EventLoaded, datasource.EventReloaded:
		reloaded := event.Type == datasource.EventReloaded
		m.broadcast(DatasetChangedEvent{
			Table:    event.Table,
			Stats:    event.Table.Stats(),
			Reloaded: reloaded,
		})
		if reloaded {
			m.notify("Dataset reloaded",
				fmt.Sprintf("%s: %d rows", filepath.Base(m.source.Path()), event.Table.Len()))
		}

	case datasource.EventLoadFailed:
		m.broadcast(DatasetChangedEvent{Table: event.Table, Stats: event.Table.Stats()})
		m.broadcast(LoadWarningEvent{Path: m.source.Path(), Error: event.Error})
		m.notify("Dataset not loaded", event.Error.Error())

	case datasource.EventError:
		m.broadcast(ErrorEvent{Service: "dataset", Error: event.Error})
	}
}

func (m *Manager) notify(title, body string) {
	if !m.cfg.DesktopNotifications {
		return
	}
	if err := notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers without blocking.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Ask answers q against the current snapshot and records it in the transcript.
func (m *Manager) Ask(q string) session.Entry {
	a := m.engine.Answer(m.source.Table(), q)
	return m.transcript.Append(q, a)
}

// Table returns the current dataset snapshot.
func (m *Manager) Table() *models.Table {
	return m.source.Table()
}

// LoadError returns the warning from the most recent load, if any.
func (m *Manager) LoadError() error {
	return m.source.LoadError()
}

// Stats returns the headline figures of the current snapshot.
func (m *Manager) Stats() models.Stats {
	return m.source.Table().Stats()
}

// Reload forces a fresh read of the dataset.
func (m *Manager) Reload() error {
	_, err := m.source.Reload()
	return err
}

// Export writes the rows passing filter to path. An empty path writes next to
// the source file. It returns the path written.
func (m *Manager) Export(path string, filter models.RowFilter) (string, error) {
	table := m.source.Table()
	if table.Empty() {
		return "", dataset.ErrEmptyDataset
	}

	if path == "" {
		suffix := "export"
		if filter.Active() {
			suffix = "filtered"
		}
		path = dataset.ExportName(m.source.Path(), suffix)
	}

	if err := dataset.Export(filter.Apply(table), path,
		dataset.WithTable(m.cfg.DatasetTable),
		dataset.WithSheet(m.cfg.DatasetSheet),
	); err != nil {
		return "", err
	}
	return path, nil
}

// Transcript returns the session transcript.
func (m *Manager) Transcript() *session.Transcript {
	return m.transcript
}

// Engine returns the query engine.
func (m *Manager) Engine() *query.Engine {
	return m.engine
}

// Source returns the dataset source.
func (m *Manager) Source() *datasource.Service {
	return m.source
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// InitialState returns the snapshot and load warning for TUI initialization.
func (m *Manager) InitialState() (*models.Table, error) {
	return m.source.Table(), m.source.LoadError()
}

// Close stops event routing and the dataset watcher.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		err = m.source.Close()
	})
	return err
}
