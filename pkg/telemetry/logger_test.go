package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TestInitWritesRunLog tests that log events land in the run log file
func TestInitWritesRunLog(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "run.log")

	closer, err := Init(Config{Level: "debug", LogFile: logFile})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	log.Info().Str("step", "verify").Msg("test event")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	if !strings.Contains(string(data), "test event") {
		t.Errorf("event missing from run log: %q", data)
	}
}

// TestInitAppends tests that a second run appends rather than truncates
func TestInitAppends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "run.log")

	closer, err := Init(Config{Level: "info", LogFile: logFile})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	log.Info().Msg("first run")
	closer.Close()

	closer, err = Init(Config{Level: "info", LogFile: logFile})
	if err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	log.Info().Msg("second run")
	closer.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Errorf("runs missing from log: %q", data)
	}
}

// TestInitWithoutFile tests console-only logging
func TestInitWithoutFile(t *testing.T) {
	closer, err := Init(Config{Level: "info"})
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("nop closer returned error: %v", err)
	}
}

// TestParseLevel tests level parsing with info as the fallback
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
