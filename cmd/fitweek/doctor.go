package fitweek

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/fitweek/internal/service"
	"github.com/saadjs/fitweek/internal/store"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			kv := store.NewSQLiteKV(sqldb)
			report, err := service.RunDoctor(kv, doctorFix, plannerOptions()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog record: %s\n", report.Catalog)
			fmt.Fprintf(out, "Plan record: %s\n", report.Plan)
			fmt.Fprintf(out, "Dangling entries: %d\n", report.DanglingEntries)
			fmt.Fprintf(out, "Duplicate workout ids: %d\n", report.DuplicateWorkoutIDs)
			if doctorFix {
				fmt.Fprintf(out, "Repaired records: %d\n", report.RepairedRecords)
				fmt.Fprintf(out, "Pruned entries: %d\n", report.PrunedEntries)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(kv, false)
				if err != nil {
					return err
				}
			}
			records, err := kv.List()
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(out, "record %s\t%d bytes\t%d writes\t%s\n", r.Key, r.SizeBytes, r.WriteCount, r.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Prune dangling entries and reset corrupt records")
}
