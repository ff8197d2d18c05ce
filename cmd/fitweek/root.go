package fitweek

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/saadjs/fitweek/internal/app"
	"github.com/saadjs/fitweek/internal/config"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool

	cfg    config.Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:           "fitweek",
	Short:         "fitweek plans your training week from your terminal",
	Long:          "fitweek is a local-first weekly fitness planner with a workout library, custom workouts, and goal-based week generation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := app.ConfigDir()
		if err != nil {
			return err
		}
		loaded, err := config.Load(dir, app.ConfigFileName())
		if err != nil {
			return err
		}
		cfg = loaded
		level, _ := config.ParseLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")
}
