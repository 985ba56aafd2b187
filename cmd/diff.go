package cmd

import (
	"fmt"
	"time"

	"pns-snapshot/core/ledger"
	"pns-snapshot/core/reconcile"
	"pns-snapshot/feature/accounts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	diffBefore string
	diffAfter  string
	diffDryRun bool
)

// diffCmd writes the surplus report between two all_accounts artifacts.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Report accounts that appeared or vanished between two snapshots",
	Long: `Diff compares two all_accounts artifacts by account id. Accounts present in
only one snapshot are surplus; their domain names are folded into one set where
every occurrence toggles membership, so a name moving between two surplus
accounts cancels out. The result is written as a surplus_accounts artifact.

Examples:
  # Compare the two newest snapshots
  diff

  # Compare explicit artifacts
  diff --before all_accounts1668091204.json --after all_accounts1669365039.json`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffBefore, "before", "", "Earlier all_accounts artifact (default: second newest)")
	diffCmd.Flags().StringVar(&diffAfter, "after", "", "Later all_accounts artifact (default: newest)")
	diffCmd.Flags().BoolVar(&diffDryRun, "dry-run", false, "Report only, do not write the surplus artifact")
	RootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	before, after := diffBefore, diffAfter
	if before == "" || after == "" {
		older, newer, err := accounts.LatestPair(ctx, a.store)
		if err != nil {
			return err
		}
		if before == "" {
			before = older
		}
		if after == "" {
			after = newer
		}
	}

	var tracker *ledger.Tracker
	if !diffDryRun {
		if tracker, err = a.ledger.Track(ctx, accounts.KindSurplus, a.metrics, a.logger); err != nil {
			return err
		}
	}
	takenAt := time.Now()

	spec := &reconcile.Spec{Source: accounts.NewSource(a.store)}
	surplus, report, err := accounts.Surplus(ctx, spec, before, after)
	if err != nil {
		if tracker != nil {
			return tracker.Fail(err)
		}
		return err
	}

	s := report.Summary
	a.logger.Info("Diff report",
		zap.String("before", before),
		zap.String("after", after),
		zap.Int("before_accounts", s.BeforeEntities),
		zap.Int("after_accounts", s.AfterEntities),
		zap.Int("only_before", s.OnlyBefore),
		zap.Int("only_after", s.OnlyAfter),
		zap.Int("toggled_domains", s.Toggled),
	)

	if diffDryRun {
		a.logger.Info("Dry-run mode: no artifact written.")
		return nil
	}
	art, err := a.store.Save(ctx, accounts.KindSurplus, takenAt, surplus)
	if err != nil {
		return tracker.Fail(fmt.Errorf("failed to write %s artifact: %w", accounts.KindSurplus, err))
	}
	a.logger.Info("Surplus artifact written", zap.String("artifact", art.Name))
	return tracker.Succeed(art.Name, len(surplus), 0)
}
