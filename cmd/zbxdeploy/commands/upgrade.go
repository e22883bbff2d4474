package commands

import (
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/lifecycle"
	"github.com/spf13/cobra"
)

func newUpgradeCommand() *cobra.Command {
	var (
		version   string
		database  string
		webServer string
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade an installed Zabbix server",
		Long: `Upgrade the Zabbix server on this host to a new version.

A full backup set (configuration directories plus a database dump) is taken
before anything mutates; a backup failure aborts the upgrade. Only packages
that are already installed are upgraded, and the run ends with a strict
version verification: if the installed server does not report the requested
version, the run fails even though every command succeeded.`,
		Example: `  # Upgrade to 6.4
  zbxdeploy upgrade --version 6.4 --db mysql --webserver apache

  # Non-interactive
  zbxdeploy upgrade --version 6.4 --db mysql --webserver apache --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &lifecycle.Request{
				Action:    lifecycle.ActionUpgrade,
				Version:   version,
				Database:  database,
				WebServer: webServer,
			}
			return runAction(cmd.Context(), req, assumeYes)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "target product version (5.0, 6.0, 6.4)")
	cmd.Flags().StringVar(&database, "db", "", "database kind (mysql, pgsql)")
	cmd.Flags().StringVar(&webServer, "webserver", "", "web server kind (apache, nginx)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	cmd.MarkFlagRequired("version")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("webserver")

	return cmd
}
