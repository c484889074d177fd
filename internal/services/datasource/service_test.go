package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const twoRows = "id,MasterItemNo,QtyShipped,UnitCost,TotalCost,UOM\n" +
	"1,100,2,10,20,EA\n" +
	"2,100,3,10,30,EA\n"

const threeRows = twoRows + "3,200,1,5,5,KG\n"

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return svc
}

func waitFor(t *testing.T, svc *Service, want EventType, timeout time.Duration) Event {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case ev := <-svc.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %v event", want)
			return Event{}
		}
	}
}

func TestNew_LoadsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeDataset(t, path, twoRows)

	svc := newTestService(t, Config{Path: path})

	if got := svc.Table().Len(); got != 2 {
		t.Errorf("Table().Len() = %d, want 2", got)
	}
	if svc.LoadError() != nil {
		t.Errorf("LoadError() = %v, want nil", svc.LoadError())
	}
	if svc.Watching() {
		t.Error("watcher should be off when Watch is false")
	}

	ev := waitFor(t, svc, EventLoaded, 100*time.Millisecond)
	if ev.Table.Len() != 2 {
		t.Errorf("event table has %d rows, want 2", ev.Table.Len())
	}
}

func TestNew_MissingFileIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	svc := newTestService(t, Config{Path: path})

	if svc.Table() == nil {
		t.Fatal("Table() should never be nil")
	}
	if !svc.Table().Empty() {
		t.Error("table should be empty")
	}
	if svc.LoadError() == nil {
		t.Error("LoadError() should report the missing file")
	}

	ev := waitFor(t, svc, EventLoadFailed, 100*time.Millisecond)
	if ev.Error == nil {
		t.Error("EventLoadFailed should carry the error")
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeDataset(t, path, twoRows)

	svc := newTestService(t, Config{Path: path})
	before := svc.Table()

	writeDataset(t, path, threeRows)
	table, err := svc.Reload()
	if err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if table.Len() != 3 || svc.Table().Len() != 3 {
		t.Errorf("reloaded table has %d rows, want 3", svc.Table().Len())
	}
	if before.Len() != 2 {
		t.Error("previous snapshot must not change on reload")
	}
}

func TestReload_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeDataset(t, path, twoRows)

	svc := newTestService(t, Config{Path: path})

	writeDataset(t, path, "id,MasterItemNo,QtyShipped,UnitCost,TotalCost\n")
	if _, err := svc.Reload(); err == nil {
		t.Error("Reload() of a header-only file should report a warning")
	}
	if !svc.Table().Empty() {
		t.Error("reload replaces the snapshot even when it is empty")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeDataset(t, path, twoRows)

	svc := newTestService(t, Config{Path: path, Watch: true, Debounce: 20 * time.Millisecond})
	if !svc.Watching() {
		t.Fatal("watcher should be running")
	}
	waitFor(t, svc, EventLoaded, 100*time.Millisecond)

	writeDataset(t, path, threeRows)

	ev := waitFor(t, svc, EventReloaded, 2*time.Second)
	if ev.Table.Len() != 3 {
		t.Errorf("reloaded table has %d rows, want 3", ev.Table.Len())
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeDataset(t, path, twoRows)

	svc := newTestService(t, Config{Path: path, Watch: true, Debounce: 10 * time.Millisecond})
	waitFor(t, svc, EventLoaded, 100*time.Millisecond)

	writeDataset(t, filepath.Join(dir, "other.csv"), threeRows)

	select {
	case ev := <-svc.Events():
		t.Errorf("unexpected event %v for unrelated file", ev.Type)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestClose_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeDataset(t, path, twoRows)

	svc, err := New(Config{Path: path, Watch: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("first Close() = %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestEventTypeString(t *testing.T) {
	tests := map[EventType]string{
		EventLoaded:     "loaded",
		EventReloaded:   "reloaded",
		EventLoadFailed: "load_failed",
		EventError:      "error",
		EventType(42):   "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("EventType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}
