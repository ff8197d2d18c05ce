package fitweek

import (
	"fmt"

	"github.com/saadjs/fitweek/internal/service"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize local fitweek database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withPlanner(func(p *service.Planner) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fitweek database at %s (%d workouts)\n", path, len(p.Catalog()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
