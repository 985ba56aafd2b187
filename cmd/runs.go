package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	runsKind  string
	runsLimit int
)

// runsCmd prints the run ledger.
var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "Show recorded harvest runs",
	Long: `Runs prints recent harvest runs as JSON, newest first. With an id it prints that
run, including the failing stage, offset and parent of a failed run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		if a.ledger == nil {
			return errors.New("run ledger is not available")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(args) == 1 {
			run, err := a.ledger.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return enc.Encode(run)
		}
		runs, err := a.ledger.List(ctx, runsKind, runsLimit)
		if err != nil {
			return err
		}
		return enc.Encode(runs)
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsKind, "kind", "", "Only show runs of this artifact kind")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs")
	RootCmd.AddCommand(runsCmd)
}
