package service

import (
	"math/rand/v2"
	"strings"

	"github.com/saadjs/fitweek/internal/model"
)

type DayCategories struct {
	Day        model.Day
	Categories []string
}

type GoalPreset struct {
	Name        string
	Description string
	Schedule    []DayCategories
}

var goalPresets = []GoalPreset{
	{
		Name:        "glutes",
		Description: "Lower-body focus with two leg days",
		Schedule: []DayCategories{
			{Day: model.Monday, Categories: []string{"Legs"}},
			{Day: model.Tuesday, Categories: []string{"Core", "Pilates"}},
			{Day: model.Wednesday, Categories: []string{"Cardio"}},
			{Day: model.Thursday, Categories: []string{"Legs"}},
			{Day: model.Friday, Categories: []string{"Back", "Shoulders"}},
			{Day: model.Saturday, Categories: []string{"Flexibility"}},
			{Day: model.Sunday, Categories: []string{"Rest"}},
		},
	},
	{
		Name:        "balanced",
		Description: "One session per muscle group across the week",
		Schedule: []DayCategories{
			{Day: model.Monday, Categories: []string{"Legs"}},
			{Day: model.Tuesday, Categories: []string{"Arms"}},
			{Day: model.Wednesday, Categories: []string{"Cardio"}},
			{Day: model.Thursday, Categories: []string{"Back", "Shoulders"}},
			{Day: model.Friday, Categories: []string{"Core", "Pilates"}},
			{Day: model.Saturday, Categories: []string{"Flexibility"}},
			{Day: model.Sunday, Categories: []string{"Rest"}},
		},
	},
	{
		Name:        "mobility",
		Description: "Pilates and flexibility with light cardio",
		Schedule: []DayCategories{
			{Day: model.Monday, Categories: []string{"Pilates"}},
			{Day: model.Tuesday, Categories: []string{"Flexibility"}},
			{Day: model.Wednesday, Categories: []string{"Cardio"}},
			{Day: model.Thursday, Categories: []string{"Core", "Pilates"}},
			{Day: model.Friday, Categories: []string{"Flexibility"}},
			{Day: model.Saturday, Categories: []string{"Cardio"}},
			{Day: model.Sunday, Categories: []string{"Rest"}},
		},
	},
	{
		Name:        "lean",
		Description: "Cardio-heavy week with strength in between",
		Schedule: []DayCategories{
			{Day: model.Monday, Categories: []string{"Cardio"}},
			{Day: model.Tuesday, Categories: []string{"Legs"}},
			{Day: model.Wednesday, Categories: []string{"Cardio"}},
			{Day: model.Thursday, Categories: []string{"Arms", "Back"}},
			{Day: model.Friday, Categories: []string{"Cardio"}},
			{Day: model.Saturday, Categories: []string{"Core", "Pilates"}},
			{Day: model.Sunday, Categories: []string{"Rest"}},
		},
	},
}

func GoalPresets() []GoalPreset {
	out := make([]GoalPreset, len(goalPresets))
	copy(out, goalPresets)
	return out
}

func LookupGoal(goal string) (GoalPreset, bool) {
	goal = strings.ToLower(strings.TrimSpace(goal))
	for _, g := range goalPresets {
		if g.Name == goal {
			return g, true
		}
	}
	return GoalPreset{}, false
}

// GeneratePlan builds a fresh plan for goal by picking one matching catalog
// workout per scheduled day. Days with no candidates stay empty and an
// unknown goal yields an empty plan. A nil rng uses the global source.
func GeneratePlan(goal string, catalog model.Catalog, rng *rand.Rand) model.WeekPlan {
	plan := EmptyPlan()
	preset, ok := LookupGoal(goal)
	if !ok {
		return plan
	}
	for _, slot := range preset.Schedule {
		candidates := workoutsInCategories(catalog, slot.Categories)
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[pickIndex(rng, len(candidates))]
		plan[slot.Day] = append(plan[slot.Day], model.Entry{WorkoutID: pick.ID})
	}
	return plan
}

func workoutsInCategories(catalog model.Catalog, categories []string) []model.Workout {
	out := make([]model.Workout, 0)
	for _, w := range catalog {
		for _, c := range categories {
			if strings.EqualFold(strings.TrimSpace(w.Category), c) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func pickIndex(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
