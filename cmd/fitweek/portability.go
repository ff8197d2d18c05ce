package fitweek

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/saadjs/fitweek/internal/excel"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	importIn     string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workouts and week plan (json, csv, or xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withPlanner(func(p *service.Planner) error {
			switch strings.ToLower(strings.TrimSpace(exportFormat)) {
			case "json":
				b, err := json.MarshalIndent(service.ExportSnapshot(p), "", "  ")
				if err != nil {
					return fmt.Errorf("marshal export json: %w", err)
				}
				if err := os.WriteFile(exportOut, b, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
			case "csv":
				var buf bytes.Buffer
				if err := service.WritePlanCSV(&buf, p); err != nil {
					return err
				}
				if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write export csv: %w", err)
				}
			case "xlsx":
				f, err := excel.ExportWeekPlan(p.Plan(), p.Catalog())
				if err != nil {
					return err
				}
				defer f.Close()
				if err := f.SaveAs(exportOut); err != nil {
					return fmt.Errorf("write export xlsx: %w", err)
				}
			default:
				return fmt.Errorf("unsupported --format %q (use json, csv, or xlsx)", exportFormat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s\n", exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a json snapshot written by export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		snap, err := service.DecodeSnapshot(raw)
		if err != nil {
			return err
		}
		return withPlanner(func(p *service.Planner) error {
			report, err := service.ImportSnapshot(p, snap, service.ImportOptions{
				Mode:   service.ImportMode(importMode),
				DryRun: importDryRun,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import report: workouts_added=%d workouts_skipped=%d entries_added=%d dangling=%d\n",
				report.WorkoutsAdded, report.WorkoutsSkipped, report.EntriesAdded, report.DanglingEntries)
			if importDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Dry-run import validated %s\n", importIn)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported data from %s\n", importIn)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json, csv, or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Import mode: merge|replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing data")
}
