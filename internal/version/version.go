// Package version reports build metadata. Values come from ldflags and fall
// back to git when the binary was built without them.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Set via -ldflags "-X github.com/j-veylop/material-forecast-tui/internal/version.Version=...".
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	mu   sync.Mutex
	once sync.Once

	resolved struct {
		version, commit, date string
	}

	execCommand = exec.CommandContext
)

const gitTimeout = 2 * time.Second

func ensureInitialized() {
	mu.Lock()
	defer mu.Unlock()

	once.Do(func() {
		resolved.version, resolved.commit, resolved.date = Version, Commit, Date
		if resolved.date == "" {
			resolved.date = time.Now().Format("2006-01-02")
		}
		if resolved.commit == "" {
			resolved.commit = gitOutput("unknown", "describe", "--always", "--dirty")
		}
		if resolved.version == "" {
			resolved.version = gitOutput("dev", "describe", "--tags", "--abbrev=0")
		}
	})
}

// gitOutput runs git with args and returns its trimmed stdout, or fallback.
func gitOutput(fallback string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	cmd := execCommand(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fallback
	}
	if s := strings.TrimSpace(out.String()); s != "" {
		return s
	}
	return fallback
}

// Reset clears resolved values so the next call resolves them again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	resolved.version, resolved.commit, resolved.date = "", "", ""
}

// GetVersion returns the release tag, or "dev".
func GetVersion() string {
	ensureInitialized()
	return resolved.version
}

// GetCommit returns the commit the binary was built from, or "unknown".
func GetCommit() string {
	ensureInitialized()
	return resolved.commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return resolved.date
}

// Info returns a one-line version string.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("mft %s (commit: %s, built: %s, %s/%s)",
		resolved.version, resolved.commit, resolved.date, runtime.GOOS, runtime.GOARCH)
}
