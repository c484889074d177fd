package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestHelperProcess is not a real test. It stands in for git when
// execCommand is replaced.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("FAKE_GIT_COMMIT_FAIL") == "1" {
			os.Exit(1)
		}
		_, _ = os.Stdout.WriteString("abc1234")
	case "--tags":
		if os.Getenv("FAKE_GIT_TAG_FAIL") == "1" {
			os.Exit(1)
		}
		if os.Getenv("FAKE_GIT_TAG_EMPTY") != "1" {
			_, _ = os.Stdout.WriteString("v0.3.0\n")
		}
	}
}

func fakeGit(env map[string]string) func(ctx context.Context, name string, arg ...string) *exec.Cmd {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, arg...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		return cmd
	}
}

func TestResolveFromGit(t *testing.T) {
	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	tests := []struct {
		name       string
		env        map[string]string
		wantVer    string
		wantCommit string
	}{
		{"tag and commit", nil, "v0.3.0", "abc1234"},
		{"commit fails", map[string]string{"FAKE_GIT_COMMIT_FAIL": "1"}, "v0.3.0", "unknown"},
		{"no tags", map[string]string{"FAKE_GIT_TAG_FAIL": "1"}, "dev", "abc1234"},
		{"empty tag output", map[string]string{"FAKE_GIT_TAG_EMPTY": "1"}, "dev", "abc1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execCommand = fakeGit(tt.env)
			Reset()

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, "mft "+tt.wantVer) || !strings.Contains(info, tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() {
		Version, Commit, Date = origVersion, origCommit, origDate
		Reset()
	})

	Version, Commit, Date = "1.2.3", "deadbeef", "2026-01-02"
	Reset()

	if GetVersion() != "1.2.3" || GetCommit() != "deadbeef" || GetDate() != "2026-01-02" {
		t.Errorf("ldflags values not used: %s", Info())
	}
}

func TestGetDate(t *testing.T) {
	Reset()
	if GetDate() == "" {
		t.Error("GetDate() returned empty string")
	}
}
