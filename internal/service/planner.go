package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/store"
)

const (
	KeyWorkouts = "wfp_workouts_v1"
	KeyPlan     = "wfp_plan_v1"
)

var ErrNotInitialized = errors.New("planner is not initialized")

// Planner owns the in-memory catalog and week plan and writes every change
// through to the store before it becomes visible. It is not safe for
// concurrent use.
type Planner struct {
	kv    store.KV
	log   *slog.Logger
	rng   *rand.Rand
	newID func() string

	catalog model.Catalog
	plan    model.WeekPlan
	ready   bool
}

type Option func(*Planner)

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

// WithSeed makes plan generation repeatable.
func WithSeed(seed uint64) Option {
	return func(p *Planner) { p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithIDFunc(f func() string) Option {
	return func(p *Planner) {
		if f != nil {
			p.newID = f
		}
	}
}

func NewPlanner(kv store.KV, opts ...Option) *Planner {
	p := &Planner{
		kv:    kv,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: NewWorkoutID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return p
}

// Init loads both records. A catalog that fell back to the built-in set is
// written back first.
func (p *Planner) Init() error {
	catalog, source := p.readCatalog()
	if source == catalogSeeded {
		if err := p.seedCatalog(catalog); err != nil {
			return err
		}
	}
	p.catalog = catalog
	p.plan = p.readPlan()
	p.ready = true
	p.log.Debug("planner ready", "workouts", len(p.catalog), "scheduled", p.plan.Total())
	return nil
}

// Teardown drops the in-memory state. The planner must be re-initialized
// before further use.
func (p *Planner) Teardown() {
	p.catalog = nil
	p.plan = nil
	p.ready = false
	p.log.Debug("planner torn down")
}

// LoadCatalog re-reads the persisted catalog, falling back to the built-in
// set when it is absent, unparsable or empty. Defaults replace the in-memory
// catalog only once they are stored.
func (p *Planner) LoadCatalog() model.Catalog {
	catalog, source := p.readCatalog()
	switch source {
	case catalogStored:
		p.catalog = catalog
	case catalogSeeded:
		if err := p.seedCatalog(catalog); err != nil {
			p.log.Warn("keeping current catalog", "error", err)
			break
		}
		p.catalog = catalog
	}
	return catalog.Clone()
}

// LoadPlan re-reads the persisted plan, falling back to an empty plan when it
// is absent or fails validation.
func (p *Planner) LoadPlan() model.WeekPlan {
	p.plan = p.readPlan()
	return p.plan.Clone()
}

func (p *Planner) Catalog() model.Catalog {
	return p.catalog.Clone()
}

func (p *Planner) Plan() model.WeekPlan {
	if p.plan == nil {
		return EmptyPlan()
	}
	return p.plan.Clone()
}

func (p *Planner) Workout(id string) (model.Workout, bool) {
	return p.catalog.Find(id)
}

// Label names the workout an entry points at, tolerating dangling ids.
func (p *Planner) Label(e model.Entry) string {
	if w, ok := p.catalog.Find(e.WorkoutID); ok {
		return w.Name
	}
	return UnknownWorkoutLabel
}

func (p *Planner) CreateCustomWorkout(in CustomWorkoutInput) (model.Workout, error) {
	if !p.ready {
		return model.Workout{}, ErrNotInitialized
	}
	w, err := buildCustomWorkout(in, p.newID)
	if err != nil {
		return model.Workout{}, err
	}
	next := make(model.Catalog, 0, len(p.catalog)+1)
	next = append(next, w)
	next = append(next, p.catalog...)
	if err := store.Save(p.kv, KeyWorkouts, next); err != nil {
		return model.Workout{}, fmt.Errorf("save catalog: %w", err)
	}
	p.catalog = next
	p.log.Debug("created custom workout", "id", w.ID, "name", w.Name, "category", w.Category)
	return w, nil
}

func (p *Planner) SearchCatalog(query string) []CatalogGroup {
	return SearchWorkouts(p.catalog, query)
}

// AddToDay appends an entry for workoutID. An empty id is ignored and the
// current plan is returned unchanged.
func (p *Planner) AddToDay(day model.Day, workoutID string) (model.WeekPlan, error) {
	if !p.ready {
		return nil, ErrNotInitialized
	}
	if strings.TrimSpace(workoutID) == "" {
		return p.plan.Clone(), nil
	}
	next, err := withEntryAdded(p.plan, day, workoutID)
	if err != nil {
		return nil, err
	}
	if err := p.commitPlan(next); err != nil {
		return nil, err
	}
	return p.plan.Clone(), nil
}

// RemoveEntry removes the entry at index within day. Duplicates of the same
// workout are distinct entries and only the one at index goes.
func (p *Planner) RemoveEntry(day model.Day, index int) (model.WeekPlan, error) {
	if !p.ready {
		return nil, ErrNotInitialized
	}
	next, err := withEntryRemoved(p.plan, day, index)
	if err != nil {
		return nil, err
	}
	if err := p.commitPlan(next); err != nil {
		return nil, err
	}
	return p.plan.Clone(), nil
}

func (p *Planner) ClearPlan() (model.WeekPlan, error) {
	if !p.ready {
		return nil, ErrNotInitialized
	}
	if err := p.commitPlan(EmptyPlan()); err != nil {
		return nil, err
	}
	return p.plan.Clone(), nil
}

// GeneratePlan replaces the stored plan with one built from the goal preset.
func (p *Planner) GeneratePlan(goal string) (model.WeekPlan, error) {
	if !p.ready {
		return nil, ErrNotInitialized
	}
	next := GeneratePlan(goal, p.catalog, p.rng)
	if err := p.commitPlan(next); err != nil {
		return nil, err
	}
	p.log.Debug("generated plan", "goal", goal, "scheduled", next.Total())
	return p.plan.Clone(), nil
}

// ReplaceState swaps both records in one write, used by import and doctor
// fixes. Nothing changes unless both records are stored.
func (p *Planner) ReplaceState(catalog model.Catalog, plan model.WeekPlan) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if len(catalog) == 0 {
		return fmt.Errorf("%w: no workouts", ErrCorruptCatalog)
	}
	nextCatalog := catalog.Clone()
	nextPlan := plan.Clone()
	catalogRecord, err := store.Encode(KeyWorkouts, nextCatalog)
	if err != nil {
		return err
	}
	planRecord, err := store.Encode(KeyPlan, nextPlan)
	if err != nil {
		return err
	}
	if err := p.kv.PutMany(catalogRecord, planRecord); err != nil {
		return fmt.Errorf("save catalog and plan: %w", err)
	}
	p.catalog = nextCatalog
	p.plan = nextPlan
	return nil
}

func (p *Planner) commitPlan(next model.WeekPlan) error {
	if err := store.Save(p.kv, KeyPlan, next); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	p.plan = next
	return nil
}

type catalogSource int

const (
	catalogStored catalogSource = iota
	// catalogSeeded means the record was missing or unusable.
	catalogSeeded
	// catalogUnread means the store failed; the defaults are not persisted.
	catalogUnread
)

func (p *Planner) readCatalog() (model.Catalog, catalogSource) {
	raw, found, err := p.kv.Get(KeyWorkouts)
	if err != nil {
		p.log.Warn("read catalog failed, using built-in workouts", "error", err)
		return DefaultCatalog(p.newID), catalogUnread
	}
	if !found {
		return DefaultCatalog(p.newID), catalogSeeded
	}
	catalog, err := DecodeCatalog(raw)
	if err != nil {
		p.log.Warn("discarding stored catalog", "error", err)
		return DefaultCatalog(p.newID), catalogSeeded
	}
	return catalog, catalogStored
}

// seedCatalog writes the built-in catalog back so its ids stay stable
// across runs.
func (p *Planner) seedCatalog(catalog model.Catalog) error {
	if err := store.Save(p.kv, KeyWorkouts, catalog); err != nil {
		return fmt.Errorf("seed default catalog: %w", err)
	}
	p.log.Info("seeded default catalog", "workouts", len(catalog))
	return nil
}

func (p *Planner) readPlan() model.WeekPlan {
	raw, found, err := p.kv.Get(KeyPlan)
	if err != nil {
		p.log.Warn("read plan failed, using empty plan", "error", err)
		return EmptyPlan()
	}
	if !found {
		return EmptyPlan()
	}
	plan, err := DecodePlan(raw)
	if err != nil {
		p.log.Warn("discarding stored plan", "error", err)
		return EmptyPlan()
	}
	return plan
}
