package cmd

import (
	"fmt"

	"street-sync/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// snapshotsCmd groups snapshot maintenance commands.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage published street snapshots",
}

// snapshotsPurgeCmd removes archived snapshots past the retention window.
var snapshotsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete archived snapshots older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		w := snapshot.NewWriter(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Snapshot, rt.logger)
		purged, err := w.Purge(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to purge archive: %w", err)
		}
		rt.logger.Info("Archive purged",
			zap.Int("removed", purged),
			zap.Int("retention_days", rt.cfg.Snapshot.RetentionDays),
		)
		return nil
	},
}

// snapshotsListCmd prints the pages of the current snapshot.
var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages of the current snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		w := snapshot.NewWriter(rt.store, rt.cfg.Storage.Bucket, rt.cfg.Snapshot, rt.logger)
		names, err := w.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list snapshot: %w", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	snapshotsCmd.AddCommand(snapshotsPurgeCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	RootCmd.AddCommand(snapshotsCmd)
}
