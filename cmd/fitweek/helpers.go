package fitweek

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/saadjs/fitweek/internal/app"
	"github.com/saadjs/fitweek/internal/db"
	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/saadjs/fitweek/internal/store"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func withPlanner(run func(*service.Planner) error) error {
	return withDB(func(sqldb *sql.DB) error {
		p := service.NewPlanner(store.NewSQLiteKV(sqldb), plannerOptions()...)
		if err := p.Init(); err != nil {
			return err
		}
		defer p.Teardown()
		return run(p)
	})
}

func plannerOptions() []service.Option {
	opts := []service.Option{service.WithLogger(logger)}
	if cfg.Seed != 0 {
		opts = append(opts, service.WithSeed(cfg.Seed))
	}
	return opts
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}

func parseDayArg(value string) (model.Day, error) {
	d, ok := model.ParseDay(value)
	if !ok {
		return "", fmt.Errorf("invalid day %q (use mon..sun)", value)
	}
	return d, nil
}

// parsePositionArg turns a 1-based position as shown by "plan show" into an index.
func parsePositionArg(value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("position must be > 0")
	}
	return v - 1, nil
}

func workoutCountLabel(n int) string {
	if n == 1 {
		return "1 workout"
	}
	return fmt.Sprintf("%d workouts", n)
}

func durationLabel(d *int) string {
	if d == nil {
		return "—"
	}
	return fmt.Sprintf("%d min", *d)
}
