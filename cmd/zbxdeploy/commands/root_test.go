package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured stderr: %v", err)
	}
	return string(data)
}

// TestRunEchoesFlagError tests that an unknown flag produces both a
// non-nil error and a message on the operator's terminal
func TestRunEchoesFlagError(t *testing.T) {
	cmd := newRootCommand("dev", "none", "unknown")
	cmd.SetArgs([]string{"install", "--bogus-flag"})

	var runErr error
	stderr := captureStderr(t, func() {
		runErr = run(context.Background(), cmd)
	})

	if runErr == nil {
		t.Fatal("expected flag error")
	}
	if !strings.Contains(stderr, "unknown flag") {
		t.Errorf("error not echoed to stderr: %q", stderr)
	}
}

// TestRunEchoesConfigError tests that a config load failure is echoed
// before the non-zero exit
func TestRunEchoesConfigError(t *testing.T) {
	cmd := newRootCommand("dev", "none", "unknown")
	cmd.SetArgs([]string{"facts", "--config", filepath.Join(t.TempDir(), "absent.yaml")})

	var runErr error
	stderr := captureStderr(t, func() {
		runErr = run(context.Background(), cmd)
	})

	if runErr == nil {
		t.Fatal("expected config error")
	}
	if !strings.Contains(stderr, "absent.yaml") {
		t.Errorf("error not echoed to stderr: %q", stderr)
	}
}

type recordingCloser struct {
	closed bool
}

func (r *recordingCloser) Close() error {
	r.closed = true
	return nil
}

// TestRunClosesRunLog tests that the run log handle opened by the
// persistent pre-run hook is closed when the command tree finishes
func TestRunClosesRunLog(t *testing.T) {
	rc := &recordingCloser{}
	logCloser = rc

	cmd := newRootCommand("dev", "none", "unknown")
	cmd.SetArgs([]string{"--help"})
	cmd.SetOut(io.Discard)

	if err := run(context.Background(), cmd); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !rc.closed {
		t.Error("run log not closed")
	}
	if logCloser != nil {
		t.Error("closer not cleared after use")
	}
}
