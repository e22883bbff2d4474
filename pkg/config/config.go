// Package config loads the tool's own configuration: filesystem locations
// for logs, backups, the run-history store, and the declarative settings
// consumed by the reconciler. This is distinct from the product
// configuration the reconciler mutates.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds tool settings. Zero values are filled from defaults.
type Config struct {
	// DataDir is the working directory for logs, backups, and the run store.
	DataDir string `yaml:"data_dir" validate:"required"`

	// LogFile is the append-only run log. Defaults under DataDir.
	LogFile string `yaml:"log_file"`

	// BackupDir is where timestamped backup sets are created.
	BackupDir string `yaml:"backup_dir"`

	// StorePath is the sqlite run-history database.
	StorePath string `yaml:"store_path"`

	// DeclarationFile is the declarative key=value settings file.
	DeclarationFile string `yaml:"declaration_file" validate:"required"`

	// TargetConfigFile is the product config the reconciler mutates.
	TargetConfigFile string `yaml:"target_config_file" validate:"required"`

	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDerived()
	return cfg
}

// Load reads a YAML config file and fills unset fields from the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.fillDerived()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// fillDerived fills unset fields, deriving paths relative to DataDir so a
// config file that overrides only data_dir relocates everything under it.
func (c *Config) fillDerived() {
	if c.DataDir == "" {
		c.DataDir = "/var/lib/zbxdeploy"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "logs", "zbxdeploy.log")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.DataDir, "backups")
	}
	if c.StorePath == "" {
		c.StorePath = filepath.Join(c.DataDir, "zbxdeploy.db")
	}
	if c.DeclarationFile == "" {
		c.DeclarationFile = filepath.Join(c.DataDir, "declared.conf")
	}
	if c.TargetConfigFile == "" {
		c.TargetConfigFile = "/etc/zabbix/zabbix_server.conf"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
