package fitweek

import (
	"fmt"
	"strings"

	"github.com/saadjs/fitweek/internal/service"
	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Manage the workout library",
}

var workoutSearch string

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(func(p *service.Planner) error {
			groups := p.SearchCatalog(workoutSearch)
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workouts match your search.")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, g := range groups {
				fmt.Fprintf(out, "%s\t%d\n", g.Category, len(g.Workouts))
				for _, w := range g.Workouts {
					badge := ""
					if w.Custom {
						badge = "\tcustom"
					}
					fmt.Fprintf(out, "  %s\t%s\t%s%s\n", w.ID, w.Name, durationLabel(w.Duration), badge)
				}
			}
			return nil
		})
	},
}

var (
	workoutName     string
	workoutCategory string
	workoutDuration string
	workoutNotes    string
)

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a custom workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(func(p *service.Planner) error {
			w, err := p.CreateCustomWorkout(service.CustomWorkoutInput{
				Name:     workoutName,
				Category: workoutCategory,
				Duration: workoutDuration,
				Notes:    workoutNotes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added workout %q (%s)\n", w.Name, w.ID)
			return nil
		})
	},
}

var workoutCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List suggested workout categories",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(service.Categories, "\n"))
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutListCmd, workoutAddCmd, workoutCategoriesCmd)

	workoutListCmd.Flags().StringVar(&workoutSearch, "search", "", "Filter by name, notes, or category")
	workoutAddCmd.Flags().StringVar(&workoutName, "name", "", "Workout name")
	workoutAddCmd.Flags().StringVar(&workoutCategory, "category", "Legs", "Workout category")
	workoutAddCmd.Flags().StringVar(&workoutDuration, "duration", "", "Duration in minutes (optional)")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "Notes")
}
