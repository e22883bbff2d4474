package commands

import (
	"fmt"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/reconcile"
	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	var (
		declarationFile string
		targetFile      string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Apply declared settings to the server configuration",
		Long: `Merge the declarative key=value file into the server configuration
without running a full lifecycle action.

For every declared key, all existing assignments in the target (commented
out or not) are removed and one fresh assignment is appended. Keys not
mentioned in the declaration are left untouched. The target is shadow-copied
to <target>.bak first. Reapplying the same declaration is idempotent.`,
		Example: `  # Use the configured declaration and target paths
  zbxdeploy reconcile

  # Explicit paths
  zbxdeploy reconcile --declaration ./declared.conf --target /etc/zabbix/zabbix_server.conf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			declaration := declarationFile
			if declaration == "" {
				declaration = cfg.DeclarationFile
			}
			target := targetFile
			if target == "" {
				target = cfg.TargetConfigFile
			}

			applied, err := reconcile.Apply(declaration, target)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d settings to %s\n", applied, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&declarationFile, "declaration", "", "declaration file (defaults from config)")
	cmd.Flags().StringVar(&targetFile, "target", "", "target config file (defaults from config)")

	return cmd
}
