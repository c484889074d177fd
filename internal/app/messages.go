package app

import (
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/services"
	"github.com/j-veylop/material-forecast-tui/internal/session"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// DatasetLoadedMsg carries a new snapshot to the model and the tabs.
type DatasetLoadedMsg struct {
	Table    *models.Table
	Stats    models.Stats
	Warning  error
	Reloaded bool
}

// ReloadMsg requests a fresh read of the dataset.
type ReloadMsg struct{}

// ReloadResultMsg reports the outcome of a reload request.
type ReloadResultMsg struct {
	Error error
}

// QueryMsg asks the engine a question. The chat tab sends it.
type QueryMsg struct {
	Query string
}

// AnswerMsg carries the transcript entry for an answered query.
type AnswerMsg struct {
	Entry session.Entry
}

// FilterChangedMsg is sent when the dashboard filter changes.
type FilterChangedMsg struct {
	Filter models.RowFilter
}

// ExportMsg requests writing rows passing Filter to Path.
type ExportMsg struct {
	Filter models.RowFilter
	Path   string // empty writes next to the source file
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Path  string
	Error error
}

// CopyToClipboardMsg requests copying text to clipboard.
type CopyToClipboardMsg struct {
	Text  string
	Label string
}

// ClipboardResultMsg contains the result of a clipboard operation.
type ClipboardResultMsg struct {
	Label string
	Error error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
