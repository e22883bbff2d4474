package commands

import (
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/lifecycle"
	"github.com/spf13/cobra"
)

func newUninstallCommand() *cobra.Command {
	var (
		database  string
		dropDB    bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the Zabbix server from this host",
		Long: `Remove the Zabbix server, its packages, and its repository
registration from this host.

Cleanup is best-effort: a failing command is logged as a warning and the
remaining steps still run, since a partially-uninstalled system is safer to
leave than abandoning cleanup. Finding no installed product packages is a
no-op, not an error.

Dropping the database is offered interactively and always preceded by a
backup set. With --yes the offer is declined and the database is kept.`,
		Example: `  # Interactive uninstall
  zbxdeploy uninstall

  # Known database kind, skip the engine question
  zbxdeploy uninstall --db mysql

  # Non-interactive: packages removed, database kept
  zbxdeploy uninstall --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &lifecycle.Request{
				Action:       lifecycle.ActionUninstall,
				Database:     database,
				DropDatabase: dropDB,
			}
			return runAction(cmd.Context(), req, assumeYes)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "database kind (mysql, pgsql), asked interactively when omitted")
	cmd.Flags().BoolVar(&dropDB, "drop-database", false, "drop the product database and user without asking")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")

	return cmd
}
