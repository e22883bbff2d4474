package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/stores"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var (
		limit     int
		showSteps string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List lifecycle runs recorded in the local run store, newest first.

Each run records its action, target version, final status, and the captured
output of every step, so a failed run can be diagnosed without re-running.`,
		Example: `  # Recent runs
  zbxdeploy history

  # Step details for one run
  zbxdeploy history --steps <run-id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stores.NewSQLiteStore(cfg.StorePath)
			if err != nil {
				return err
			}
			if err := store.Init(cmd.Context()); err != nil {
				return err
			}
			defer store.Close()

			if showSteps != "" {
				steps, err := store.ListSteps(cmd.Context(), showSteps)
				if err != nil {
					return err
				}
				if jsonOutput {
					return json.NewEncoder(os.Stdout).Encode(steps)
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SEQ\tNAME\tSTATUS\tDURATION")
				for _, s := range steps {
					fmt.Fprintf(w, "%d\t%s\t%s\t%dms\n", s.Seq, s.Name, s.Status, s.DurationMS)
				}
				return w.Flush()
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(runs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tACTION\tVERSION\tSTATUS\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Action, r.Version, r.Status, r.StartedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&showSteps, "steps", "", "show step records for the given run id")

	return cmd
}
