package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saadjs/fitweek/internal/model"
)

var (
	ErrCorruptPlan = errors.New("corrupt plan record")
	ErrUnknownDay  = errors.New("unknown day")
	ErrEntryIndex  = errors.New("entry index out of range")
)

const UnknownWorkoutLabel = "Unknown workout"

func EmptyPlan() model.WeekPlan {
	plan := make(model.WeekPlan, len(model.Days))
	for _, d := range model.Days {
		plan[d] = []model.Entry{}
	}
	return plan
}

// DecodePlan requires every day key to be present and hold a JSON array.
// Keys other than the seven days are ignored. An element without a usable
// workoutId keeps its position as an entry with an empty id, which never
// resolves to a workout.
func DecodePlan(raw []byte) (model.WeekPlan, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPlan, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrCorruptPlan)
	}

	plan := make(model.WeekPlan, len(model.Days))
	for _, d := range model.Days {
		value, ok := fields[string(d)]
		if !ok {
			return nil, fmt.Errorf("%w: missing day %s", ErrCorruptPlan, d)
		}
		trimmed := bytes.TrimSpace(value)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: day %s is not a list", ErrCorruptPlan, d)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: day %s: %v", ErrCorruptPlan, d, err)
		}
		entries := make([]model.Entry, 0, len(items))
		for _, item := range items {
			entries = append(entries, model.Entry{WorkoutID: entryWorkoutID(item)})
		}
		plan[d] = entries
	}
	return plan, nil
}

func entryWorkoutID(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	return jsonText(fields["workoutId"])
}

func withEntryAdded(plan model.WeekPlan, day model.Day, workoutID string) (model.WeekPlan, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownDay, day)
	}
	next := plan.Clone()
	next[day] = append(next[day], model.Entry{WorkoutID: workoutID})
	return next, nil
}

func withEntryRemoved(plan model.WeekPlan, day model.Day, index int) (model.WeekPlan, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownDay, day)
	}
	if index < 0 || index >= len(plan[day]) {
		return nil, fmt.Errorf("%w: %s has %d entries, got index %d", ErrEntryIndex, day, len(plan[day]), index)
	}
	next := plan.Clone()
	entries := next[day]
	next[day] = append(entries[:index], entries[index+1:]...)
	return next, nil
}
