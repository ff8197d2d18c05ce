package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/saadjs/fitweek/internal/model"
)

const CategoryOther = "Other"

var ErrNameRequired = errors.New("workout name is required")

// ErrCorruptCatalog marks a persisted catalog record that cannot be used.
var ErrCorruptCatalog = errors.New("corrupt catalog record")

type builtinWorkout struct {
	name     string
	category string
	duration int
}

var builtinWorkouts = []builtinWorkout{
	{name: "Leg Day (Glutes + Quads)", category: "Legs", duration: 60},
	{name: "Arms (Biceps + Triceps)", category: "Arms", duration: 45},
	{name: "Back + Shoulders", category: "Back", duration: 55},
	{name: "Pilates Flow", category: "Pilates", duration: 35},
	{name: "Zone 2 Cardio", category: "Cardio", duration: 30},
	{name: "Flexibility (Splits Focus)", category: "Flexibility", duration: 25},
	{name: "Rest / Walk", category: "Rest", duration: 20},
}

// Categories offered when authoring a workout. Users may still type their own.
var Categories = []string{"Legs", "Arms", "Back", "Shoulders", "Core", "Pilates", "Cardio", "Flexibility", "Rest"}

func NewWorkoutID() string {
	return uuid.NewString()
}

// DefaultCatalog builds the built-in set with fresh ids on every call.
func DefaultCatalog(newID func() string) model.Catalog {
	if newID == nil {
		newID = NewWorkoutID
	}
	out := make(model.Catalog, 0, len(builtinWorkouts))
	for _, b := range builtinWorkouts {
		d := b.duration
		out = append(out, model.Workout{
			ID:       newID(),
			Name:     b.name,
			Category: b.category,
			Duration: &d,
			Notes:    "",
		})
	}
	return out
}

// DecodeCatalog accepts any JSON array holding at least one workout object.
// Fields are read leniently so records written by other clients survive: a
// duration that is not a positive whole number becomes nil and a non-string
// text field keeps its literal. Elements that are not objects are dropped.
func DecodeCatalog(raw []byte) (model.Catalog, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no workouts", ErrCorruptCatalog)
	}
	out := make(model.Catalog, 0, len(items))
	for _, item := range items {
		w, ok := decodeWorkout(item)
		if !ok {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no workout objects", ErrCorruptCatalog)
	}
	return out, nil
}

func decodeWorkout(raw json.RawMessage) (model.Workout, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Workout{}, false
	}
	return model.Workout{
		ID:       jsonText(fields["id"]),
		Name:     jsonText(fields["name"]),
		Category: jsonText(fields["category"]),
		Duration: ParseDurationMinutes(jsonText(fields["duration"])),
		Notes:    jsonText(fields["notes"]),
		Custom:   jsonBool(fields["custom"]),
	}, true
}

// jsonText returns a JSON string's value or a number's literal; anything
// else reads as empty.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func jsonBool(raw json.RawMessage) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

type CustomWorkoutInput struct {
	Name     string
	Category string
	Duration string
	Notes    string
}

func buildCustomWorkout(in CustomWorkoutInput, newID func() string) (model.Workout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Workout{}, ErrNameRequired
	}
	return model.Workout{
		ID:       newID(),
		Name:     name,
		Category: strings.TrimSpace(in.Category),
		Duration: ParseDurationMinutes(in.Duration),
		Notes:    strings.TrimSpace(in.Notes),
		Custom:   true,
	}, nil
}

// ParseDurationMinutes returns nil for blank, non-numeric or non-positive input.
func ParseDurationMinutes(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		n = int(f)
	}
	if n <= 0 {
		return nil
	}
	return &n
}

type CatalogGroup struct {
	Category string          `json:"category"`
	Workouts []model.Workout `json:"workouts"`
}

// SearchWorkouts filters by a case-insensitive substring of name, notes or
// category and groups the matches by category in lexicographic order.
func SearchWorkouts(catalog model.Catalog, query string) []CatalogGroup {
	q := strings.ToLower(strings.TrimSpace(query))

	byCategory := map[string][]model.Workout{}
	for _, w := range catalog {
		if q != "" &&
			!strings.Contains(strings.ToLower(w.Name), q) &&
			!strings.Contains(strings.ToLower(w.Notes), q) &&
			!strings.Contains(strings.ToLower(w.Category), q) {
			continue
		}
		key := w.Category
		if strings.TrimSpace(key) == "" {
			key = CategoryOther
		}
		byCategory[key] = append(byCategory[key], w)
	}

	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]CatalogGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, CatalogGroup{Category: k, Workouts: byCategory[k]})
	}
	return out
}
