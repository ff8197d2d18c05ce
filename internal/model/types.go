package model

import "strings"

type Workout struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Duration *int   `json:"duration"`
	Notes    string `json:"notes"`
	Custom   bool   `json:"custom,omitempty"`
}

// Catalog is ordered most-recent-first for custom workouts, built-ins after.
type Catalog []Workout

func (c Catalog) Find(id string) (Workout, bool) {
	for _, w := range c {
		if w.ID == id {
			return w, true
		}
	}
	return Workout{}, false
}

func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Days is the fixed display and storage order of a week.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
	"sun": Sunday, "sunday": Sunday,
}

// ParseDay accepts short or long day names in any case.
func ParseDay(s string) (Day, bool) {
	d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

type Entry struct {
	WorkoutID string `json:"workoutId"`
}

// WeekPlan always carries all seven day keys.
type WeekPlan map[Day][]Entry

func (p WeekPlan) Clone() WeekPlan {
	out := make(WeekPlan, len(Days))
	for _, d := range Days {
		entries := make([]Entry, len(p[d]))
		copy(entries, p[d])
		out[d] = entries
	}
	return out
}

func (p WeekPlan) Total() int {
	n := 0
	for _, d := range Days {
		n += len(p[d])
	}
	return n
}
