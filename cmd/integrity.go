package cmd

import (
	"encoding/json"
	"fmt"

	"street-sync/feature/streets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the registry schema and the snapshot bucket",
	Long: `Verifies that the registry database has every column the reconciliation
reads and that the snapshot bucket exists (it is created when missing).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		// A failed connection is reported by the schema check
		if db, err := connectRegistry(rt); err != nil {
			rt.logger.Warn("Registry database connection failed", zap.Error(err))
		} else {
			rt.db = db
		}

		svc := streets.NewService(rt.store, rt.cfg.Storage.Bucket, rt.logger, rt.db, rt.cfg.Feed, rt.cfg.Snapshot)
		report := svc.CheckIntegrity(cmd.Context())

		if jsonOutput {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Println("\n=== Street Sync Integrity ===")
			fmt.Printf("Missing Columns: %d\n", len(report.MissingColumns))
			for _, c := range report.MissingColumns {
				fmt.Printf("  - %s\n", c)
			}
			if report.SchemaError != "" {
				fmt.Printf("Schema Error: %s\n", report.SchemaError)
			}
			if report.StorageError != "" {
				fmt.Printf("Storage Error: %s\n", report.StorageError)
			}
			fmt.Printf("Current Snapshot Pages: %d\n", report.CurrentPages)
		}

		if !report.OK() {
			return fmt.Errorf("integrity check failed")
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().Bool("json", false, "Print the report as JSON")
	RootCmd.AddCommand(integrityCmd)
}
