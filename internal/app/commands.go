package app

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

var errNoManager = errors.New("service manager not available")

// writeClipboard is replaced in tests; CI machines rarely have a clipboard.
var writeClipboard = clipboard.WriteAll

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadDatasetCmd reads the manager's current snapshot.
func loadDatasetCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if mgr == nil {
			return DatasetLoadedMsg{Table: models.EmptyTable(), Warning: errNoManager}
		}
		table, warn := mgr.InitialState()
		return DatasetLoadedMsg{
			Table:   table,
			Stats:   table.Stats(),
			Warning: warn,
		}
	}
}

// reloadDatasetCmd forces a re-read of the dataset file. The new snapshot
// arrives as a service event.
func reloadDatasetCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if mgr == nil {
			return ReloadResultMsg{Error: errNoManager}
		}
		return ReloadResultMsg{Error: mgr.Reload()}
	}
}

// askCmd answers q off the UI goroutine.
func askCmd(mgr *services.Manager, q string) tea.Cmd {
	return func() tea.Msg {
		if mgr == nil {
			return ErrorMsg{Error: errNoManager, Context: "query"}
		}
		return AnswerMsg{Entry: mgr.Ask(q)}
	}
}

// exportCmd writes the filtered rows to disk.
func exportCmd(mgr *services.Manager, path string, filter models.RowFilter) tea.Cmd {
	return func() tea.Msg {
		if mgr == nil {
			return ExportResultMsg{Error: errNoManager}
		}
		out, err := mgr.Export(path, filter)
		return ExportResultMsg{Path: out, Error: err}
	}
}

// copyToClipboardCmd writes text to the system clipboard.
func copyToClipboardCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Label: label, Error: writeClipboard(text)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions. Tabs use it
// to request work without importing the service layer.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadDataset returns a command that reads the current snapshot.
func (c *Commands) LoadDataset() tea.Cmd {
	return loadDatasetCmd(c.manager)
}

// Reload returns a command that re-reads the dataset file.
func (c *Commands) Reload() tea.Cmd {
	return reloadDatasetCmd(c.manager)
}

// Ask returns a command that answers q.
func (c *Commands) Ask(q string) tea.Cmd {
	return askCmd(c.manager, q)
}

// Export returns a command that writes filtered rows to path.
func (c *Commands) Export(path string, filter models.RowFilter) tea.Cmd {
	return exportCmd(c.manager, path, filter)
}

// Copy returns a command that writes text to the clipboard.
func (c *Commands) Copy(text, label string) tea.Cmd {
	return copyToClipboardCmd(text, label)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}
