package commands

import (
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/lifecycle"
	"github.com/spf13/cobra"
)

func newInstallCommand() *cobra.Command {
	var (
		version   string
		database  string
		webServer string
		mode      string
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the Zabbix server",
		Long: `Install the Zabbix server on this host.

The install sequence is fail-fast: the first failing step aborts the run
with a non-zero exit and nothing after it executes.

Steps:
  1. Confirm intent
  2. Install OS-level prerequisites
  3. Install the database engine and start its service
  4. Add the product repository and install the package set
  5. Start and enable services
  6. Create the database, user, and schema
  7. Reconcile declared settings into the server configuration

In default mode a fixed fallback database credential is used without
prompting; manual mode prompts for one.`,
		Example: `  # Install 6.0 with MySQL and Apache
  zbxdeploy install --version 6.0 --db mysql --webserver apache

  # Prompt for the database credential
  zbxdeploy install --version 6.0 --db pgsql --webserver nginx --mode manual

  # Non-interactive
  zbxdeploy install --version 6.0 --db mysql --webserver apache --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &lifecycle.Request{
				Action:    lifecycle.ActionInstall,
				Mode:      lifecycle.Mode(mode),
				Version:   version,
				Database:  database,
				WebServer: webServer,
			}
			return runAction(cmd.Context(), req, assumeYes)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "product version (5.0, 6.0, 6.4)")
	cmd.Flags().StringVar(&database, "db", "", "database kind (mysql, pgsql)")
	cmd.Flags().StringVar(&webServer, "webserver", "", "web server kind (apache, nginx)")
	cmd.Flags().StringVar(&mode, "mode", "default", "credential mode (default, manual)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("webserver")

	return cmd
}
