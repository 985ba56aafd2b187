package cmd

import (
	"errors"

	"pns-snapshot/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotsKind string
	pruneKeep     int
)

// snapshotsCmd is the parent command for artifact maintenance.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect and maintain stored artifacts",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored artifacts, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		list, err := a.store.List(cmd.Context(), snapshotsKind)
		if err != nil {
			return err
		}
		for _, art := range list {
			a.logger.Info("Artifact",
				zap.String("name", art.Name),
				zap.String("kind", art.Kind),
				zap.Time("taken_at", art.TakenAt),
				zap.Int64("size", art.Size),
			)
		}
		a.logger.Info("Artifacts listed", zap.Int("count", len(list)))
		return nil
	},
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest artifacts of a kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotsKind == "" {
			return errors.New("prune requires --kind")
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		deleted, err := snapshot.Prune(cmd.Context(), a.store, snapshotsKind, pruneKeep)
		for _, name := range deleted {
			a.logger.Info("Artifact deleted", zap.String("artifact", name))
		}
		if err != nil {
			return err
		}
		a.logger.Info("Prune finished", zap.String("kind", snapshotsKind), zap.Int("deleted", len(deleted)), zap.Int("kept", pruneKeep))
		return nil
	},
}

func init() {
	snapshotsCmd.PersistentFlags().StringVar(&snapshotsKind, "kind", "", "Artifact kind (e.g. all_accounts)")
	snapshotsPruneCmd.Flags().IntVar(&pruneKeep, "keep", 5, "Number of newest artifacts to keep")

	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsPruneCmd)
	RootCmd.AddCommand(snapshotsCmd)
}
