package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/dataset"
	"github.com/j-veylop/material-forecast-tui/internal/models"
	"github.com/j-veylop/material-forecast-tui/internal/query"
)

const testCSV = "id,MasterItemNo,QtyShipped,UnitCost,TotalCost,UOM\n" +
	"101,100,2,10,20,EA\n" +
	"102,100,3,10,30,EA\n" +
	"103,200,5,4,20,KG\n"

type recordedNotification struct {
	title string
	body  string
}

// stubNotify captures desktop notifications for the duration of a test.
func stubNotify(t *testing.T) func() []recordedNotification {
	t.Helper()

	var (
		mu   sync.Mutex
		sent []recordedNotification
	)
	prev := notify
	notify = func(title, body string) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, recordedNotification{title, body})
		return nil
	}
	t.Cleanup(func() { notify = prev })

	return func() []recordedNotification {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedNotification(nil), sent...)
	}
}

func newTestManager(t *testing.T, content string) (*Manager, string) {
	t.Helper()
	return newTestManagerWith(t, content, nil)
}

func newTestManagerWith(t *testing.T, content string, mutate func(*config.Config)) (*Manager, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.csv")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write dataset: %v", err)
		}
	}

	cfg := config.Default()
	cfg.DatasetPath = path
	cfg.WatchDataset = false
	cfg.DesktopNotifications = true
	if mutate != nil {
		mutate(cfg)
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr, path
}

func TestNewManager(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	if mgr.Source() == nil {
		t.Error("dataset source should be initialized")
	}
	if mgr.Engine() == nil {
		t.Error("query engine should be initialized")
	}
	if mgr.Transcript() == nil {
		t.Error("transcript should be initialized")
	}
	if mgr.Table().Len() != 3 {
		t.Errorf("Table().Len() = %d, want 3", mgr.Table().Len())
	}

	table, warn := mgr.InitialState()
	if warn != nil {
		t.Errorf("InitialState() warning = %v", warn)
	}
	if table.Len() != 3 {
		t.Errorf("InitialState() table has %d rows", table.Len())
	}
}

func TestManager_Stats(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	stats := mgr.Stats()
	if stats.Rows != 3 || stats.UniqueItems != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.TotalQty != 10 || stats.TotalCost != 70 {
		t.Errorf("Stats() totals = %v / %v, want 10 / 70", stats.TotalQty, stats.TotalCost)
	}
}

func TestManager_AskRecordsTranscript(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	entry := mgr.Ask("TotalCost of MasterItemNo 100")
	if entry.Answer.Intent != query.IntentItemLookup {
		t.Errorf("intent = %v, want item lookup", entry.Answer.Intent)
	}
	if entry.Answer.Text != "TotalCost for MasterItemNo 100: Rs. 50.00" {
		t.Errorf("answer = %q", entry.Answer.Text)
	}

	mgr.Ask("gibberish xyz")
	if mgr.Transcript().Len() != 2 {
		t.Errorf("transcript has %d entries, want 2", mgr.Transcript().Len())
	}
	last, _ := mgr.Transcript().Last()
	if last.Answer.Kind != query.KindHelp {
		t.Errorf("last answer kind = %v, want help", last.Answer.Kind)
	}
}

func TestManager_MissingDataset(t *testing.T) {
	sent := stubNotify(t)
	mgr, _ := newTestManager(t, "")

	if mgr.LoadError() == nil {
		t.Fatal("LoadError() should report the missing file")
	}
	if !mgr.Table().Empty() {
		t.Error("table should be empty")
	}

	entry := mgr.Ask("top 3 by cost")
	if entry.Answer.Kind != query.KindError || entry.Answer.Text != query.NoDataText {
		t.Errorf("answer = %+v, want no-data error", entry.Answer)
	}

	if _, err := mgr.Export("", models.RowFilter{}); !errors.Is(err, dataset.ErrEmptyDataset) {
		t.Errorf("Export() error = %v, want ErrEmptyDataset", err)
	}

	// the initial load event is routed asynchronously
	deadline := time.Now().Add(time.Second)
	for len(sent()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := sent(); len(got) == 0 || got[0].title != "Dataset not loaded" {
		t.Errorf("notifications = %+v, want a load failure notice", got)
	}
}

func TestManager_ReloadBroadcasts(t *testing.T) {
	sent := stubNotify(t)
	mgr, path := newTestManager(t, testCSV)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	if err := os.WriteFile(path, []byte(testCSV+"104,300,1,1,1,EA\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	timeout := time.After(time.Second)
	for {
		select {
		case ev := <-ch:
			changed, ok := ev.(DatasetChangedEvent)
			if !ok || !changed.Reloaded {
				continue
			}
			if changed.Stats.Rows != 4 {
				t.Errorf("reloaded stats rows = %d, want 4", changed.Stats.Rows)
			}
			found := false
			for _, n := range sent() {
				if n.title == "Dataset reloaded" && strings.Contains(n.body, "4 rows") {
					found = true
				}
			}
			if !found {
				t.Errorf("notifications = %+v, want a reload notice", sent())
			}
			return
		case <-timeout:
			t.Fatal("timeout waiting for reload event")
		}
	}
}

func TestManager_NotificationsDisabled(t *testing.T) {
	sent := stubNotify(t)
	mgr, _ := newTestManagerWith(t, "", func(cfg *config.Config) {
		cfg.DesktopNotifications = false
	})

	mgr.notify("title", "body")
	time.Sleep(50 * time.Millisecond)
	if len(sent()) != 0 {
		t.Errorf("notification sent while disabled: %+v", sent())
	}
}

func TestManager_Export(t *testing.T) {
	stubNotify(t)
	mgr, path := newTestManager(t, testCSV)

	out, err := mgr.Export("", models.ParseRowFilter("100", ""))
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "predictions_filtered.csv")
	if out != want {
		t.Errorf("Export() path = %q, want %q", out, want)
	}

	exported, err := dataset.Load(out)
	if err != nil {
		t.Fatalf("reload export: %v", err)
	}
	if exported.Len() != 2 {
		t.Errorf("exported %d rows, want 2", exported.Len())
	}

	full := filepath.Join(t.TempDir(), "all.tsv")
	if _, err := mgr.Export(full, models.RowFilter{}); err != nil {
		t.Fatalf("Export(tsv) failed: %v", err)
	}
	all, _ := dataset.Load(full)
	if all.Len() != 3 {
		t.Errorf("exported %d rows, want 3", all.Len())
	}
}

func TestManager_Subscription(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)
	waitClosed(t, ch)
}

// waitClosed drains ch and fails if it is not closed promptly.
func waitClosed(t *testing.T, ch chan ServiceEvent) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("subscriber channel should be closed")
	}
}

func TestManager_Broadcast(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ErrorEvent{Service: "dataset", Error: errors.New("boom")}
	mgr.broadcast(event)

	timeout := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if _, initial := e.(DatasetChangedEvent); initial {
				continue
			}
			if e != event {
				t.Errorf("Got event %v, want %v", e, event)
			}
			return
		case <-timeout:
			t.Fatal("Timeout waiting for broadcast")
		}
	}
}

func TestManager_CloseIdempotent(t *testing.T) {
	stubNotify(t)
	mgr, _ := newTestManager(t, testCSV)

	ch, _ := mgr.Subscribe()
	if err := mgr.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	waitClosed(t, ch)
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- ErrorEvent{}

	cmd := WaitForEvent(ch)
	if msg := cmd(); msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = DatasetChangedEvent{}
	var _ ServiceEvent = LoadWarningEvent{}
	var _ ServiceEvent = ErrorEvent{}
}
