package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	originalLogger := Logger
	Logger = zap.New(core).Sugar()
	defer func() { Logger = originalLogger }()

	tests := []struct {
		name  string
		fn    func(msg string, args ...any)
		level zapcore.Level
		msg   string
	}{
		{"Info", Info, zapcore.InfoLevel, "info message"},
		{"Error", Error, zapcore.ErrorLevel, "error message"},
		{"Warn", Warn, zapcore.WarnLevel, "warn message"},
		{"Debug", Debug, zapcore.DebugLevel, "debug message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.TakeAll()
			tt.fn(tt.msg, "rows", 3)

			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if entries[0].Message != tt.msg {
				t.Errorf("expected msg %q, got %q", tt.msg, entries[0].Message)
			}
			if entries[0].Level != tt.level {
				t.Errorf("expected level %v, got %v", tt.level, entries[0].Level)
			}
			if got := entries[0].ContextMap()["rows"]; got != int64(3) {
				t.Errorf("expected rows field 3, got %v", got)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	if Logger == nil {
		t.Error("Logger should be initialized")
	}
	Info("discarded before Init")
}

func TestInitWritesJSONFile(t *testing.T) {
	originalLogger := Logger
	defer func() { Logger = originalLogger }()

	path := filepath.Join(t.TempDir(), "mft.log")
	if err := Init(path, "not-a-level"); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	Debug("hidden at info level")
	Warn("dataset reload failed", "path", "data.csv")
	Sync()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("log line is not JSON: %v", err)
		}
		lines = append(lines, rec)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["msg"] != "dataset reload failed" || lines[0]["path"] != "data.csv" {
		t.Errorf("unexpected record %v", lines[0])
	}
}
