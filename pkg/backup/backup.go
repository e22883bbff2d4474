// Package backup snapshots configuration directories and the product
// database into a timestamped set before mutating operations. A set either
// completes fully or the run aborts; partial backups are never usable and
// prior sets are never overwritten or deleted.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/rs/zerolog/log"
)

// Set describes a completed backup.
type Set struct {
	Dir       string    `json:"dir"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []string  `json:"entries"`
}

// Manager creates backup sets.
type Manager struct {
	// BaseDir is where timestamped set directories are created.
	BaseDir string

	// ConfigDirs lists directories to snapshot. Required entries abort the
	// backup when missing; optional ones are copied only if present.
	ConfigDirs []Dir

	runner execx.Runner
}

// Dir is a configuration directory to include in a set.
type Dir struct {
	Path     string
	Optional bool
}

// DefaultConfigDirs returns the directories snapshotted for a deployment.
// The product config directory is required; web-server directories are
// optional since only one family is present on any given host.
func DefaultConfigDirs() []Dir {
	return []Dir{
		{Path: "/etc/zabbix"},
		{Path: "/etc/apache2", Optional: true},
		{Path: "/etc/httpd", Optional: true},
		{Path: "/etc/nginx", Optional: true},
	}
}

// NewManager creates a backup manager rooted at baseDir.
func NewManager(baseDir string, runner execx.Runner, dirs []Dir) *Manager {
	return &Manager{
		BaseDir:    baseDir,
		ConfigDirs: dirs,
		runner:     runner,
	}
}

// Create produces a fresh, uniquely timestamped backup set containing the
// configuration directories and a dump of the product database. Any single
// copy or dump failure is fatal; the partial directory is removed
// best-effort and an error is returned.
func (m *Manager) Create(ctx context.Context, database string) (*Set, error) {
	now := time.Now()
	dir := filepath.Join(m.BaseDir, now.Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	set := &Set{Dir: dir, CreatedAt: now}

	for _, cd := range m.ConfigDirs {
		info, err := os.Stat(cd.Path)
		if err != nil || !info.IsDir() {
			if cd.Optional {
				log.Debug().Str("dir", cd.Path).Msg("Optional config directory absent, skipping")
				continue
			}
			m.discard(dir)
			return nil, fmt.Errorf("config directory %s is not available: %w", cd.Path, err)
		}

		dest := filepath.Join(dir, filepath.Base(cd.Path))
		if err := os.CopyFS(dest, os.DirFS(cd.Path)); err != nil {
			m.discard(dir)
			return nil, fmt.Errorf("failed to copy %s: %w", cd.Path, err)
		}
		set.Entries = append(set.Entries, dest)

		log.Info().Str("dir", cd.Path).Str("dest", dest).Msg("Config directory backed up")
	}

	dumpPath, err := m.dumpDatabase(ctx, dir, database)
	if err != nil {
		m.discard(dir)
		return nil, err
	}
	set.Entries = append(set.Entries, dumpPath)

	log.Info().
		Str("dir", dir).
		Int("entries", len(set.Entries)).
		Msg("Backup set completed")

	return set, nil
}

// dumpDatabase exports the product database via the engine's native tool.
func (m *Manager) dumpDatabase(ctx context.Context, dir, database string) (string, error) {
	dumpPath := filepath.Join(dir, "zabbix.sql")

	var script string
	switch database {
	case "mysql":
		script = fmt.Sprintf("mysqldump zabbix > %s", execx.Quote(dumpPath))
	case "pgsql":
		script = fmt.Sprintf("sudo -u postgres pg_dump zabbix > %s", execx.Quote(dumpPath))
	default:
		return "", fmt.Errorf("unknown database kind %q", database)
	}

	res, err := m.runner.RunShell(ctx, script)
	if err != nil {
		return "", fmt.Errorf("failed to run database dump: %w", err)
	}
	if !res.Ok() {
		return "", fmt.Errorf("database dump exited %d: %s", res.ExitCode, res.Output)
	}

	log.Info().Str("dump", dumpPath).Msg("Database dumped")
	return dumpPath, nil
}

// discard removes a partial set. Failures are logged only; the abort error
// from the failed copy is what surfaces to the operator.
func (m *Manager) discard(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove partial backup set")
	}
}
