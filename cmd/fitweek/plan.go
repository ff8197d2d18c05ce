package fitweek

import (
	"fmt"
	"io"

	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the week plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the week plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(func(p *service.Planner) error {
			renderPlan(cmd.OutOrStdout(), p, p.Plan())
			return nil
		})
	},
}

var planAddCmd = &cobra.Command{
	Use:   "add <day> <workout-id>",
	Short: "Schedule a workout on a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayArg(args[0])
		if err != nil {
			return err
		}
		return withPlanner(func(p *service.Planner) error {
			if _, ok := p.Workout(args[1]); !ok {
				logger.Warn("scheduling workout that is not in the library", "id", args[1])
			}
			plan, err := p.AddToDay(day, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s on %s (%s)\n", p.Label(model.Entry{WorkoutID: args[1]}), day, workoutCountLabel(len(plan[day])))
			return nil
		})
	},
}

var planRemoveCmd = &cobra.Command{
	Use:   "remove <day> <position>",
	Short: "Remove the scheduled workout at a position shown by plan show",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayArg(args[0])
		if err != nil {
			return err
		}
		index, err := parsePositionArg(args[1])
		if err != nil {
			return err
		}
		return withPlanner(func(p *service.Planner) error {
			removed := p.Plan()[day]
			plan, err := p.RemoveEntry(day, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s (%s)\n", p.Label(removed[index]), day, workoutCountLabel(len(plan[day])))
			return nil
		})
	},
}

var planClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear every day of the week plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlanner(func(p *service.Planner) error {
			if _, err := p.ClearPlan(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared week plan")
			return nil
		})
	},
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate <goal>",
	Short: "Replace the week plan with one generated from a goal preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := service.LookupGoal(args[0]); !ok {
			return fmt.Errorf("unknown goal %q (see plan goals)", args[0])
		}
		return withPlanner(func(p *service.Planner) error {
			plan, err := p.GeneratePlan(args[0])
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), p, plan)
			return nil
		})
	},
}

var planGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List goal presets",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "GOAL\tDESCRIPTION")
		for _, g := range service.GoalPresets() {
			fmt.Fprintf(out, "%s\t%s\n", g.Name, g.Description)
		}
	},
}

func renderPlan(out io.Writer, p *service.Planner, plan model.WeekPlan) {
	for _, d := range model.Days {
		fmt.Fprintf(out, "%s\t%s\n", d, workoutCountLabel(len(plan[d])))
		for i, e := range plan[d] {
			w, ok := p.Workout(e.WorkoutID)
			if !ok {
				fmt.Fprintf(out, "  %d. %s\t—\n", i+1, service.UnknownWorkoutLabel)
				continue
			}
			meta := w.Category
			if w.Duration != nil {
				meta = fmt.Sprintf("%s • %d min", w.Category, *w.Duration)
			}
			fmt.Fprintf(out, "  %d. %s\t%s\n", i+1, w.Name, meta)
		}
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd, planAddCmd, planRemoveCmd, planClearCmd, planGenerateCmd, planGoalsCmd)
}
