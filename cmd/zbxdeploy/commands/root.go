package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/config"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/telemetry"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config

	// logCloser closes the run log file after the command tree finishes.
	logCloser io.Closer
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	return run(ctx, newRootCommand(version, commit, buildDate))
}

// run executes the command tree. Every fatal error, including flag parse
// and config load failures, is echoed to the operator's terminal before the
// caller exits non-zero.
func run(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)

	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}

	if err != nil {
		ux.Failure(err.Error())
	}
	return err
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zbxdeploy",
		Short: "Zabbix server lifecycle deployer",
		Long: `zbxdeploy installs, upgrades, and uninstalls the Zabbix monitoring
server on a single Linux host.

It detects the target distribution and architecture, resolves the matching
package repository, drives the host's package and service managers through a
fixed step sequence, reconciles declared settings into the server
configuration, and takes a backup before any destructive operation.

Running two instances concurrently against the same host is unsupported.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			logCloser, err = telemetry.Init(telemetry.Config{Level: level, LogFile: cfg.LogFile})
			return err
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newUpgradeCommand())
	rootCmd.AddCommand(newUninstallCommand())
	rootCmd.AddCommand(newFactsCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
