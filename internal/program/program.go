package program

// Program is a declarative multi-week training plan, independent of any
// user's calendar dates.
type Program struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Version      string                 `json:"version"`
	Description  string                 `json:"description"`
	WorkoutTypes map[string]WorkoutType `json:"workoutTypes"`
	Schedule     ScheduleTemplate       `json:"schedule"`
}

type ScheduleTemplate struct {
	Length int    `json:"length,omitempty"`
	Unit   string `json:"unit,omitempty"`
	Weeks  []Week `json:"weeks"`
}

// Week lists day-template keys, one per day slot. A key may carry an
// alternate (" OR ") or an emphasis ("*") marker, see BaseWorkoutKey.
type Week struct {
	ID   string   `json:"id"`
	Days []string `json:"days"`
}

type WorkoutType struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	ColorClass  string    `json:"colorClass,omitempty"`
	Description string    `json:"description,omitempty"`
	RPERange    string    `json:"rpeRange,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Sections    []Section `json:"sections"`
}

type Section struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is used both for catalog entries (canonical defaults) and for
// the per-workout overrides inside a Section. Only ID is required.
type Exercise struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`

	DefaultSets  *int   `json:"defaultSets,omitempty"`
	DefaultReps  string `json:"defaultReps,omitempty"`
	DefaultRPE   string `json:"defaultRpe,omitempty"`
	DefaultNotes string `json:"defaultNotes,omitempty"`

	Sets  *int   `json:"sets,omitempty"`
	Reps  string `json:"reps,omitempty"`
	RPE   string `json:"rpe,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ExerciseCatalog struct {
	Categories map[string]Category `json:"categories"`
	Exercises  map[string]Exercise `json:"exercises"`
}

// Catalog is the validated, read-only pair of documents a session works with.
type Catalog struct {
	Program   *Program
	Exercises *ExerciseCatalog
}

// WorkoutType returns the workout type for a (possibly composite) day key.
func (p *Program) WorkoutType(dayKey string) (WorkoutType, bool) {
	if p == nil || p.WorkoutTypes == nil {
		return WorkoutType{}, false
	}
	wt, ok := p.WorkoutTypes[BaseWorkoutKey(dayKey)]
	return wt, ok
}

// DaysCount is the total number of day slots across all weeks.
func (p *Program) DaysCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, w := range p.Schedule.Weeks {
		count += len(w.Days)
	}
	return count
}
