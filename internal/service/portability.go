package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/fitweek/internal/model"
)

const snapshotVersion = 1

type Snapshot struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Workouts   model.Catalog  `json:"workouts"`
	Plan       model.WeekPlan `json:"plan"`
}

type ImportMode string

const (
	ImportModeReplace ImportMode = "replace"
	ImportModeMerge   ImportMode = "merge"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	WorkoutsAdded   int `json:"workouts_added"`
	WorkoutsSkipped int `json:"workouts_skipped"`
	EntriesAdded    int `json:"entries_added"`
	DanglingEntries int `json:"dangling_entries"`
}

func ExportSnapshot(p *Planner) Snapshot {
	return Snapshot{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC(),
		Workouts:   p.Catalog(),
		Plan:       p.Plan(),
	}
}

// DecodeSnapshot validates both embedded records with the same decoders the
// planner uses; unlike loading, a bad snapshot is an error.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var envelope struct {
		Version    int             `json:"version"`
		ExportedAt time.Time       `json:"exported_at"`
		Workouts   json.RawMessage `json:"workouts"`
		Plan       json.RawMessage `json:"plan"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if envelope.Version > snapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot version %d is newer than supported version %d", envelope.Version, snapshotVersion)
	}
	catalog, err := DecodeCatalog(envelope.Workouts)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot workouts: %w", err)
	}
	plan, err := DecodePlan(envelope.Plan)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot plan: %w", err)
	}
	for i, w := range catalog {
		if strings.TrimSpace(w.ID) == "" || strings.TrimSpace(w.Name) == "" {
			return Snapshot{}, fmt.Errorf("snapshot workout %d: id and name are required", i+1)
		}
	}
	return Snapshot{Version: envelope.Version, ExportedAt: envelope.ExportedAt, Workouts: catalog, Plan: plan}, nil
}

func normalizeImportMode(mode ImportMode) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(string(mode)))) {
	case "", ImportModeMerge:
		return ImportModeMerge, nil
	case ImportModeReplace:
		return ImportModeReplace, nil
	default:
		return "", fmt.Errorf("unsupported import mode %q (use merge or replace)", mode)
	}
}

// ImportSnapshot either replaces both records or merges: unseen workouts are
// prepended in snapshot order and snapshot entries are appended per day.
func ImportSnapshot(p *Planner, snap Snapshot, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	mode, err := normalizeImportMode(opts.Mode)
	if err != nil {
		return report, err
	}

	var catalog model.Catalog
	var plan model.WeekPlan
	switch mode {
	case ImportModeReplace:
		catalog = snap.Workouts.Clone()
		plan = snap.Plan.Clone()
		report.WorkoutsAdded = len(catalog)
		report.EntriesAdded = plan.Total()
	case ImportModeMerge:
		current := p.Catalog()
		added := make(model.Catalog, 0)
		for _, w := range snap.Workouts {
			if _, ok := current.Find(w.ID); ok {
				report.WorkoutsSkipped++
				continue
			}
			if _, ok := added.Find(w.ID); ok {
				report.WorkoutsSkipped++
				continue
			}
			added = append(added, w)
		}
		report.WorkoutsAdded = len(added)
		catalog = append(added, current...)

		plan = p.Plan()
		for _, d := range model.Days {
			plan[d] = append(plan[d], snap.Plan[d]...)
			report.EntriesAdded += len(snap.Plan[d])
		}
	}

	for _, d := range model.Days {
		for _, e := range plan[d] {
			if _, ok := catalog.Find(e.WorkoutID); !ok {
				report.DanglingEntries++
			}
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := p.ReplaceState(catalog, plan); err != nil {
		return report, err
	}
	return report, nil
}

var planCSVHeader = []string{"day", "position", "workout_id", "name", "category", "duration_min"}

// WritePlanCSV writes one row per scheduled entry in day order.
func WritePlanCSV(w io.Writer, p *Planner) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(planCSVHeader); err != nil {
		return fmt.Errorf("write plan csv header: %w", err)
	}
	plan := p.Plan()
	for _, d := range model.Days {
		for i, e := range plan[d] {
			record := []string{string(d), strconv.Itoa(i+1), e.WorkoutID, UnknownWorkoutLabel, "", ""}
			if wk, ok := p.Workout(e.WorkoutID); ok {
				record[3] = wk.Name
				record[4] = wk.Category
				if wk.Duration != nil {
					record[5] = strconv.Itoa(*wk.Duration)
				}
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write plan csv row: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush plan csv: %w", err)
	}
	return nil
}
