// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"strconv"
	"sync"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/session"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Duration  time.Duration
	Type      NotificationType
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Dataset bool
	Query   bool
	Export  bool
}

// State is shared by the root model and the tabs.
type State struct {
	mu sync.RWMutex

	table       *models.Table
	stats       models.Stats
	loadWarning error
	filter      models.RowFilter
	transcript  *session.Transcript

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state with an empty dataset.
func NewState() *State {
	return &State{
		table:         models.EmptyTable(),
		transcript:    session.New(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "dataset":
		s.Loading.Dataset = loading
	case "query":
		s.Loading.Query = loading
	case "export":
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Dataset ||
		s.Loading.Query ||
		s.Loading.Export
}

// IsInitialLoading returns true if the dataset has not been received yet.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsQuerying returns true while a query is being answered.
func (s *State) IsQuerying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Query
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Dataset {
		resources = append(resources, "dataset")
	}
	if s.Loading.Query {
		resources = append(resources, "query")
	}
	if s.Loading.Export {
		resources = append(resources, "export")
	}
	return resources
}

// SetDataset replaces the snapshot. warning is the load error, if any.
func (s *State) SetDataset(table *models.Table, warning error) {
	if table == nil {
		table = models.EmptyTable()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = table
	s.stats = table.Stats()
	s.loadWarning = warning
	s.LastUpdated = time.Now()
}

// GetTable returns the current snapshot. It is never nil.
func (s *State) GetTable() *models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// GetStats returns the headline figures of the current snapshot.
func (s *State) GetStats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// GetLoadWarning returns the most recent load error, if any.
func (s *State) GetLoadWarning() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadWarning
}

// HasData reports whether the snapshot has rows to query.
func (s *State) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.table.Empty()
}

// SetFilter stores the dashboard's row filter.
func (s *State) SetFilter(f models.RowFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// GetFilter returns the dashboard's row filter.
func (s *State) GetFilter() models.RowFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// FilteredTable returns the snapshot narrowed by the current filter.
func (s *State) FilteredTable() *models.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Apply(s.table)
}

// SetTranscript shares the session transcript with the tabs.
func (s *State) SetTranscript(t *session.Transcript) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = t
}

// Transcript returns the session transcript.
func (s *State) Transcript() *session.Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := "n" + strconv.Itoa(s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all unexpired notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the dataset was replaced.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
