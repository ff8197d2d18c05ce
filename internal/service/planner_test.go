package service_test

import (
	"testing"

	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/saadjs/fitweek/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFallsBackToDefaults(t *testing.T) {
	cases := map[string]*string{
		"missing":   nil,
		"empty":     strPtr(`[]`),
		"malformed": strPtr(`not json`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newTestKV(t)
			if raw != nil {
				require.NoError(t, kv.Put(service.KeyWorkouts, []byte(*raw)))
			}
			p := service.NewPlanner(kv)
			catalog := p.LoadCatalog()
			require.Len(t, catalog, 7)
			assert.Equal(t, "Leg Day (Glutes + Quads)", catalog[0].Name)
		})
	}
}

func TestInitSeedsDefaultCatalogSoIDsAreStable(t *testing.T) {
	kv := newTestKV(t)

	first := newReadyPlanner(t, kv)
	second := newReadyPlanner(t, kv)
	assert.Equal(t, first.Catalog(), second.Catalog())

	_, found, err := kv.Get(service.KeyWorkouts)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInitKeepsCatalogWithLooseFields(t *testing.T) {
	kv := newTestKV(t)
	raw := `[{"id":"mine","name":"Tempo Run","category":"Cardio","duration":30.5,"notes":"","custom":true}]`
	require.NoError(t, kv.Put(service.KeyWorkouts, []byte(raw)))
	plan := `{"Mon":[{"workoutId":"mine"}],"Tue":[],"Wed":[],"Thu":[],"Fri":[],"Sat":[],"Sun":[]}`
	require.NoError(t, kv.Put(service.KeyPlan, []byte(plan)))

	p := newReadyPlanner(t, kv)
	require.Len(t, p.Catalog(), 1)
	assert.Equal(t, "Tempo Run", p.Label(model.Entry{WorkoutID: "mine"}))

	stored, found, err := kv.Get(service.KeyWorkouts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, raw, string(stored))
}

func TestLoadPlanFallsBackToEmptyPlan(t *testing.T) {
	cases := map[string]*string{
		"missing":     nil,
		"malformed":   strPtr(`{"Mon":`),
		"missing day": strPtr(`{"Mon":[{"workoutId":"x"}],"Tue":[],"Wed":[],"Thu":[],"Fri":[],"Sat":[]}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newTestKV(t)
			if raw != nil {
				require.NoError(t, kv.Put(service.KeyPlan, []byte(*raw)))
			}
			p := service.NewPlanner(kv)
			assert.Equal(t, service.EmptyPlan(), p.LoadPlan())
		})
	}
}

func TestAddToDayAppendsOnlyToThatDay(t *testing.T) {
	kv := newTestKV(t)
	p := newReadyPlanner(t, kv)
	id := p.Catalog()[0].ID

	before := p.Plan()
	for _, day := range model.Days {
		after, err := p.AddToDay(day, id)
		require.NoError(t, err)
		require.Len(t, after[day], len(before[day])+1)
		assert.Equal(t, id, after[day][len(after[day])-1].WorkoutID)
		for _, other := range model.Days {
			if other != day {
				assert.Equal(t, before[other], after[other])
			}
		}
		before = after
	}

	reloaded := newReadyPlanner(t, kv)
	assert.Equal(t, p.Plan(), reloaded.Plan())
}

func TestAddToDayIgnoresEmptyWorkoutID(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	_, err := p.AddToDay(model.Monday, "a")
	require.NoError(t, err)
	before := p.Plan()

	after, err := p.AddToDay(model.Monday, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, before, p.Plan())
}

func TestAddToDayRejectsUnknownDay(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	_, err := p.AddToDay(model.Day("Funday"), "a")
	require.ErrorIs(t, err, service.ErrUnknownDay)
}

func TestAddToDayAllowsDanglingReference(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	plan, err := p.AddToDay(model.Friday, "no-such-workout")
	require.NoError(t, err)
	assert.Equal(t, service.UnknownWorkoutLabel, p.Label(plan[model.Friday][0]))
}

func TestRemoveEntryIsPositional(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	for _, id := range []string{"a", "b", "a", "c"} {
		_, err := p.AddToDay(model.Wednesday, id)
		require.NoError(t, err)
	}

	plan, err := p.RemoveEntry(model.Wednesday, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.Entry{{WorkoutID: "a"}, {WorkoutID: "b"}, {WorkoutID: "c"}}, plan[model.Wednesday])

	plan, err = p.RemoveEntry(model.Wednesday, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.Entry{{WorkoutID: "b"}, {WorkoutID: "c"}}, plan[model.Wednesday])
}

func TestRemoveEntryRejectsOutOfRange(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	_, err := p.AddToDay(model.Monday, "a")
	require.NoError(t, err)

	_, err = p.RemoveEntry(model.Monday, 1)
	require.ErrorIs(t, err, service.ErrEntryIndex)
	_, err = p.RemoveEntry(model.Monday, -1)
	require.ErrorIs(t, err, service.ErrEntryIndex)
	assert.Len(t, p.Plan()[model.Monday], 1)
}

func TestClearPlanPersistsEmptyPlan(t *testing.T) {
	kv := newTestKV(t)
	p := newReadyPlanner(t, kv)
	_, err := p.AddToDay(model.Saturday, "a")
	require.NoError(t, err)

	plan, err := p.ClearPlan()
	require.NoError(t, err)
	assert.Equal(t, service.EmptyPlan(), plan)
	assert.Equal(t, service.EmptyPlan(), newReadyPlanner(t, kv).Plan())
}

func TestCreateCustomWorkoutRequiresName(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	before := p.Catalog()

	_, err := p.CreateCustomWorkout(service.CustomWorkoutInput{Name: "   ", Category: "Legs"})
	require.ErrorIs(t, err, service.ErrNameRequired)
	assert.Equal(t, before, p.Catalog())
}

func TestCreateCustomWorkoutPrependsAndPersists(t *testing.T) {
	kv := newTestKV(t)
	p := newReadyPlanner(t, kv)
	before := p.Catalog()

	w, err := p.CreateCustomWorkout(service.CustomWorkoutInput{Name: " Leg Press ", Category: "Legs", Duration: "40", Notes: ""})
	require.NoError(t, err)
	assert.Equal(t, "Leg Press", w.Name)
	assert.True(t, w.Custom)
	assert.Equal(t, intPtr(40), w.Duration)

	catalog := p.Catalog()
	require.Len(t, catalog, len(before)+1)
	assert.Equal(t, w, catalog[0])
	assert.Equal(t, before, catalog[1:])

	assert.Equal(t, catalog, newReadyPlanner(t, kv).Catalog())
}

func TestCreateCustomWorkoutBlankDurationIsAbsent(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	w, err := p.CreateCustomWorkout(service.CustomWorkoutInput{Name: "Stretch", Category: "Flexibility", Duration: "soon"})
	require.NoError(t, err)
	assert.Nil(t, w.Duration)
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	kv := &flakyKV{KV: newTestKV(t)}
	p := newReadyPlanner(t, kv)
	catalog := p.Catalog()
	plan := p.Plan()

	kv.failPuts = true
	_, err := p.AddToDay(model.Monday, catalog[0].ID)
	require.Error(t, err)
	_, err = p.CreateCustomWorkout(service.CustomWorkoutInput{Name: "Row"})
	require.Error(t, err)
	_, err = p.GeneratePlan("balanced")
	require.Error(t, err)

	assert.Equal(t, catalog, p.Catalog())
	assert.Equal(t, plan, p.Plan())
}

func TestReplaceStateFailureKeepsBothRecords(t *testing.T) {
	kv := &flakyKV{KV: newTestKV(t)}
	p := newReadyPlanner(t, kv)
	_, err := p.AddToDay(model.Friday, p.Catalog()[3].ID)
	require.NoError(t, err)
	catalog := p.Catalog()
	plan := p.Plan()

	kv.breakBatch = true
	next := model.Catalog{{ID: "only", Name: "Only", Category: "Legs"}}
	err = p.ReplaceState(next, service.EmptyPlan())
	require.Error(t, err)

	assert.Equal(t, catalog, p.Catalog())
	assert.Equal(t, plan, p.Plan())

	stored := newReadyPlanner(t, kv.KV)
	assert.Equal(t, catalog, stored.Catalog())
	assert.Equal(t, plan, stored.Plan())
}

func TestLoadCatalogPersistsSeededDefaults(t *testing.T) {
	kv := newTestKV(t)
	p := service.NewPlanner(kv)
	loaded := p.LoadCatalog()

	assert.Equal(t, loaded, newReadyPlanner(t, kv).Catalog())
}

func TestLoadCatalogKeepsStateWhenSeedFails(t *testing.T) {
	kv := &flakyKV{KV: newTestKV(t)}
	p := newReadyPlanner(t, kv)
	before := p.Catalog()

	require.NoError(t, kv.KV.Put(service.KeyWorkouts, []byte(`not json`)))
	kv.failPuts = true
	loaded := p.LoadCatalog()

	require.Len(t, loaded, 7)
	assert.NotEqual(t, before[0].ID, loaded[0].ID)
	assert.Equal(t, before, p.Catalog())
}

func TestMutationsRequireInit(t *testing.T) {
	p := service.NewPlanner(newTestKV(t))
	_, err := p.AddToDay(model.Monday, "a")
	require.ErrorIs(t, err, service.ErrNotInitialized)

	require.NoError(t, p.Init())
	p.Teardown()
	_, err = p.ClearPlan()
	require.ErrorIs(t, err, service.ErrNotInitialized)
}

func TestSearchCatalogUsesPlannerState(t *testing.T) {
	p := newReadyPlanner(t, newTestKV(t))
	_, err := p.CreateCustomWorkout(service.CustomWorkoutInput{Name: "Kettlebell Swings", Category: "Core", Notes: "hinge"})
	require.NoError(t, err)

	groups := p.SearchCatalog("HINGE")
	require.Len(t, groups, 1)
	assert.Equal(t, "Core", groups[0].Category)
}

func TestPlannerReadsRecordsWrittenByStore(t *testing.T) {
	kv := newTestKV(t)
	plan := service.EmptyPlan()
	plan[model.Thursday] = []model.Entry{{WorkoutID: "x"}}
	require.NoError(t, store.Save(kv, service.KeyPlan, plan))

	p := newReadyPlanner(t, kv)
	assert.Equal(t, plan, p.Plan())
}

func strPtr(s string) *string {
	return &s
}
