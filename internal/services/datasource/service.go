// Package datasource owns the current dataset snapshot and reloads it when the
// source file changes on disk.
package datasource

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/material-forecast-tui/internal/dataset"
	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// EventType defines the type of dataset event.
type EventType int

const (
	EventLoaded EventType = iota
	EventReloaded
	EventLoadFailed
	EventError
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventReloaded:
		return "reloaded"
	case EventLoadFailed:
		return "load_failed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event reports a change to the dataset snapshot.
type Event struct {
	Table *models.Table
	Error error
	Type  EventType
}

// Config controls where the dataset is read from and how changes are watched.
type Config struct {
	Path     string
	Table    string
	Sheet    string
	Debounce time.Duration
	Watch    bool
}

const defaultDebounce = 200 * time.Millisecond

// Service holds the latest table snapshot. Readers get an immutable table;
// a reload swaps the pointer.
type Service struct {
	mu      sync.RWMutex
	table   *models.Table
	loadErr error

	cfg       Config
	watcher   *fsnotify.Watcher
	eventChan chan Event
	stopChan  chan struct{}

	timerMu       sync.Mutex
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New loads the dataset and, if configured, starts watching it. A failed load
// is not an error: the service starts with an empty table and emits
// EventLoadFailed.
func New(cfg Config) (*Service, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	s := &Service{
		cfg:       cfg,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	table, err := s.load()
	if err != nil {
		s.sendEvent(Event{Type: EventLoadFailed, Table: table, Error: err})
	} else {
		s.sendEvent(Event{Type: EventLoaded, Table: table})
	}

	if cfg.Watch {
		if err := s.startWatcher(); err != nil {
			logger.Warn("dataset watcher disabled", "path", cfg.Path, "error", err)
		}
	}

	return s, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Table returns the current snapshot. It is never nil.
func (s *Service) Table() *models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// LoadError returns the warning from the most recent load, if any.
func (s *Service) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Path returns the dataset path.
func (s *Service) Path() string {
	return s.cfg.Path
}

// Watching reports whether file changes trigger reloads.
func (s *Service) Watching() bool {
	return s.watcher != nil
}

// Reload re-reads the dataset from scratch and replaces the snapshot.
func (s *Service) Reload() (*models.Table, error) {
	table, err := s.load()
	if err != nil {
		s.sendEvent(Event{Type: EventLoadFailed, Table: table, Error: err})
		return table, err
	}
	s.sendEvent(Event{Type: EventReloaded, Table: table})
	return table, nil
}

func (s *Service) load() (*models.Table, error) {
	table, err := dataset.Load(s.cfg.Path,
		dataset.WithTable(s.cfg.Table),
		dataset.WithSheet(s.cfg.Sheet),
	)

	s.mu.Lock()
	s.table = table
	s.loadErr = err
	s.mu.Unlock()

	return table, err
}

// startWatcher watches the dataset's directory so replacements by rename are seen.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.cfg.Path)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	name := filepath.Base(s.cfg.Path)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				s.scheduleReload()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) scheduleReload() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.cfg.Debounce, func() {
		select {
		case <-s.stopChan:
			return
		default:
		}
		logger.Debug("dataset changed on disk", "path", s.cfg.Path)
		_, _ = s.Reload()
	})
}

// sendEvent sends an event without blocking, dropping the oldest if full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.timerMu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.timerMu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
