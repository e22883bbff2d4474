package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
	"github.com/spf13/cobra"
)

func newFactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Show the probed target environment",
		Long: `Probe and print the target environment: distribution id, OS version,
and normalized CPU architecture.

The same probe runs at the start of every lifecycle action; this command
exposes it standalone so the detection can be checked before committing to
an install or upgrade.`,
		Example: `  # Human-readable output
  zbxdeploy facts

  # JSON output
  zbxdeploy facts --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := platform.Probe(cmd.Context(), execx.NewLocal())
			if err != nil {
				return err
			}

			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(env)
			}

			fmt.Printf("Distribution: %s %s\n", env.DistroID, env.OSVersion)
			fmt.Printf("Architecture: %s (raw %s)\n", env.Arch, env.RawArch)
			fmt.Printf("Package family: %s\n", env.Family())
			if !platform.Supported(env.DistroID) {
				fmt.Println("Warning: this distribution is not supported")
			}
			return nil
		},
	}

	return cmd
}
