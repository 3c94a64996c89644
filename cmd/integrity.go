package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"qr-registry/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool
var jsonFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the record store and media bucket",
	Long:  `Checks the media bucket layout, cross-checks record media refs against stored objects and verifies the record table schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the media bucket and prefix",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// mediaCmd represents the integrity media command
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Cross-check record media refs against stored objects",
	Long:  `Lists every object under the media prefix and reports records whose media is missing or foreign, and objects no record refers to. Use --json to save the full report.`,
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the record table schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCmd, mediaCmd, schemaCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket or prefix folder")
	mediaCmd.Flags().BoolVar(&jsonFlag, "json", false, "Save the detailed report as JSON")
}

func runIntegrityChecks(ctx context.Context, runStorage, runMedia, runSchema bool) {
	a, err := bootstrap(ctx)
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.close()
	logg := a.log

	svc := integrity.NewService(a.blobs, a.cfg.Storage.Bucket, a.cfg.Storage.MediaPrefix, logg, a.db, a.engine.All)
	onlyStorage := runStorage && !runMedia && !runSchema

	if runStorage {
		logg.Info("Checking media storage...", zap.String("bucket", a.cfg.Storage.Bucket))
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Fatal("Storage check failed", zap.Error(err))
		}

		if report.Healthy() {
			logg.Info("Storage is intact.")
		} else {
			logg.Warn("Storage layout incomplete",
				zap.Bool("bucket_exists", report.BucketExists),
				zap.Bool("prefix_present", report.PrefixPresent),
			)

			if onlyStorage && fixFlag {
				logg.Info("Fixing storage...")
				if err := svc.FixStorage(ctx, report); err != nil {
					logg.Fatal("Failed to fix storage", zap.Error(err))
				}
				logg.Info("Storage fixed successfully.")
			} else if onlyStorage {
				logg.Info("Run with --fix to create the missing bucket or folder.")
			}
		}
	}

	if runMedia {
		logg.Info("Checking record media (this might take a while)...")
		start := time.Now()
		report, err := svc.CheckMedia(ctx)
		if err != nil {
			logg.Error("Media check failed", zap.Error(err))
		} else {
			if jsonFlag {
				filename := fmt.Sprintf("integrity_media_%d.json", time.Now().Unix())
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					logg.Error("Failed to marshal media report", zap.Error(err))
				} else if err := os.WriteFile(filename, data, 0644); err != nil {
					logg.Error("Failed to save media report", zap.Error(err))
				} else {
					logg.Info("Detailed JSON report saved", zap.String("file", filename))
				}
			}

			fmt.Println("\n=== Media Integrity Metrics ===")
			fmt.Printf("Records: %d\n", report.Records)
			fmt.Printf("Objects: %d\n", report.Objects)
			fmt.Printf("Missing Media: %d\n", len(report.MissingMedia))
			fmt.Printf("Foreign Media: %d\n", len(report.Foreign))
			fmt.Printf("Orphan Objects: %d\n", len(report.Orphans))
			fmt.Printf("Execution Time: %s\n", time.Since(start).String())
		}
	}

	if runSchema {
		logg.Info("Checking record table schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
			return
		}
		if report.Matched {
			logg.Info("Record table matches the model.", zap.String("driver", report.Driver))
			return
		}
		logg.Warn("Record table mismatches found", zap.String("driver", report.Driver))
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
}
