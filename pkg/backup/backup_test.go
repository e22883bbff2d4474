package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
)

// fakeRunner records shell scripts and serves a fixed exit code
type fakeRunner struct {
	scripts  []string
	exitCode int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (execx.Result, error) {
	return execx.Result{Command: name}, nil
}

func (f *fakeRunner) RunShell(_ context.Context, script string) (execx.Result, error) {
	f.scripts = append(f.scripts, script)
	return execx.Result{Command: script, ExitCode: f.exitCode}, nil
}

func seedConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "zabbix_server.conf"), []byte("DBName=zabbix\n"), 0644); err != nil {
		t.Fatalf("failed to seed config dir: %v", err)
	}
	return dir
}

// TestCreateSet tests a complete backup set: config directory copied,
// database dumped, entries listed
func TestCreateSet(t *testing.T) {
	base := t.TempDir()
	confDir := seedConfigDir(t)
	runner := &fakeRunner{}

	m := NewManager(base, runner, []Dir{{Path: confDir}})
	set, err := m.Create(context.Background(), "mysql")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(set.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", set.Entries)
	}

	copied := filepath.Join(set.Dir, filepath.Base(confDir), "zabbix_server.conf")
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("config file not copied: %v", err)
	}

	if len(runner.scripts) != 1 || !strings.Contains(runner.scripts[0], "mysqldump zabbix") {
		t.Errorf("unexpected dump scripts: %v", runner.scripts)
	}
	dumpPath := filepath.Join(set.Dir, "zabbix.sql")
	if !strings.Contains(runner.scripts[0], execx.Quote(dumpPath)) {
		t.Errorf("dump path not quoted into the set directory: %q", runner.scripts[0])
	}
}

// TestCreatePostgresDump tests the engine-specific dump command
func TestCreatePostgresDump(t *testing.T) {
	runner := &fakeRunner{}
	m := NewManager(t.TempDir(), runner, []Dir{{Path: seedConfigDir(t)}})

	if _, err := m.Create(context.Background(), "pgsql"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(runner.scripts) != 1 || !strings.Contains(runner.scripts[0], "pg_dump zabbix") {
		t.Errorf("unexpected dump scripts: %v", runner.scripts)
	}
}

// TestCreateMissingRequiredDir tests that a missing required config
// directory aborts the set and removes the partial directory
func TestCreateMissingRequiredDir(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	m := NewManager(base, &fakeRunner{}, []Dir{{Path: missing}})
	if _, err := m.Create(context.Background(), "mysql"); err == nil {
		t.Fatal("expected error for missing required directory")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("failed to list base dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("partial set left behind: %v", entries)
	}
}

// TestCreateMissingOptionalDir tests that absent optional directories are
// skipped without failing the set
func TestCreateMissingOptionalDir(t *testing.T) {
	confDir := seedConfigDir(t)
	missing := filepath.Join(t.TempDir(), "apache2")

	m := NewManager(t.TempDir(), &fakeRunner{}, []Dir{
		{Path: confDir},
		{Path: missing, Optional: true},
	})

	set, err := m.Create(context.Background(), "mysql")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(set.Entries) != 2 {
		t.Errorf("expected config dir plus dump, got %v", set.Entries)
	}
}

// TestCreateDumpFailure tests that a failing dump aborts the set and
// removes the partial directory
func TestCreateDumpFailure(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, &fakeRunner{exitCode: 2}, []Dir{{Path: seedConfigDir(t)}})

	if _, err := m.Create(context.Background(), "mysql"); err == nil {
		t.Fatal("expected error for failed dump")
	}

	entries, _ := os.ReadDir(base)
	if len(entries) != 0 {
		t.Errorf("partial set left behind: %v", entries)
	}
}

// TestCreateUnknownDatabase tests rejection of an unknown engine kind
func TestCreateUnknownDatabase(t *testing.T) {
	m := NewManager(t.TempDir(), &fakeRunner{}, []Dir{{Path: seedConfigDir(t)}})
	if _, err := m.Create(context.Background(), "oracle"); err == nil {
		t.Fatal("expected error for unknown database kind")
	}
}

// TestDefaultConfigDirs tests that only the product directory is required
func TestDefaultConfigDirs(t *testing.T) {
	dirs := DefaultConfigDirs()
	for _, d := range dirs {
		if d.Path == "/etc/zabbix" && d.Optional {
			t.Error("/etc/zabbix must be required")
		}
		if d.Path != "/etc/zabbix" && !d.Optional {
			t.Errorf("%s must be optional", d.Path)
		}
	}
}
