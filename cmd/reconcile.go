package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"street-sync/core/feed"
	"street-sync/feature/streets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile streets command
	feedLocation  string
	dryRunStreets bool
	pageSize      int
	showProgress  bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the address feed against the canonical registry",
}

// streetsReconcileCmd runs one street reconciliation.
var streetsReconcileCmd = &cobra.Command{
	Use:   "streets",
	Short: "Reconcile streets and write the paginated snapshot",
	Long: `Reads the street feed, matches every street and number range against the
canonical registry and writes the result as JSON pages to object storage.
The previous snapshot is moved to the archive folder first.

Examples:
  # Use the configured feed source
  reconcile streets

  # Read a local file without writing a snapshot
  reconcile streets --feed ./BAF_20261016.dat --dry-run

  # Download the feed and write 500 streets per page
  reconcile streets --feed https://example.org/BAF.dat --page-size 500`,
	RunE: runStreetsReconcile,
}

func init() {
	reconcileCmd.AddCommand(streetsReconcileCmd)

	streetsReconcileCmd.Flags().StringVar(&feedLocation, "feed", "", "Feed file path or http(s) URL (overrides configuration)")
	streetsReconcileCmd.Flags().BoolVar(&dryRunStreets, "dry-run", false, "Match and report without writing the snapshot")
	streetsReconcileCmd.Flags().IntVar(&pageSize, "page-size", 0, "Streets per snapshot page (overrides configuration)")
	streetsReconcileCmd.Flags().BoolVar(&showProgress, "progress", false, "Render a progress bar while reading the feed")

	RootCmd.AddCommand(reconcileCmd)
}

// applyFeedFlag points the feed configuration at a single location.
func applyFeedFlag(cfg *feed.Config, location string) {
	if location == "" {
		return
	}
	cfg.Path, cfg.URL, cfg.Object = "", "", ""
	if feed.IsRemote(location) {
		cfg.URL = location
		return
	}
	cfg.Path = location
}

func runStreetsReconcile(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	applyFeedFlag(&rt.cfg.Feed, feedLocation)
	if pageSize > 0 {
		rt.cfg.Snapshot.PageSize = pageSize
	}

	svc := streets.NewService(rt.store, rt.cfg.Storage.Bucket, rt.logger, rt.db, rt.cfg.Feed, rt.cfg.Snapshot)
	if showProgress {
		feedCfg := rt.cfg.Feed
		open := func(ctx context.Context) (io.ReadCloser, error) {
			return feed.Open(ctx, feedCfg, rt.store, rt.cfg.Storage.Bucket)
		}
		svc.WithFeed(withProgress(open, feedSize(feedCfg), os.Stderr))
	}
	report, err := svc.Run(cmd.Context(), streets.RunOptions{DryRun: dryRunStreets})
	if report != nil {
		fmt.Print(report.String())
	}
	if err != nil {
		return fmt.Errorf("street reconciliation failed: %w", err)
	}

	if report.Snapshot != nil && len(report.Snapshot.Failed) > 0 {
		rt.logger.Warn("Some snapshot pages could not be written", zap.Strings("failed", report.Snapshot.Failed))
	}
	return nil
}
