package workout

import (
	"time"

	"github.com/2beens/programtracker/internal/schedule"
)

// Action is a user or system event the reducer knows how to apply.
type Action interface {
	Name() string
}

type SetViewMode struct {
	Mode ViewMode
}

// SetExpandedWorkout expands a single day, a nil WorkoutID collapses it.
type SetExpandedWorkout struct {
	WorkoutID *string
}

// SetStartDate moves the program on the calendar. The schedule is generated
// anew, progress that was not persisted yet is dropped. Persisted records
// are reconciled into the new schedule in the same transition.
type SetStartDate struct {
	Date      time.Time
	Persisted []schedule.PersistedDayRecord
}

// CompleteExercise toggles a single exercise of a day.
type CompleteExercise struct {
	Week       int
	Day        int
	ExerciseID string
}

// BatchComplete sets every listed exercise of a day to Completed.
type BatchComplete struct {
	Week        int
	Day         int
	ExerciseIDs []string
	Completed   bool
}

type UpdateNotes struct {
	Week  int
	Day   int
	Notes string
}

// ClearSchedule regenerates the schedule from the current start date,
// dropping all progress.
type ClearSchedule struct{}

// ApplyPersisted overlays records loaded from the progress store. It is
// ignored when the schedule was regenerated since the load started.
type ApplyPersisted struct {
	Records    []schedule.PersistedDayRecord
	Generation uint64
}

// MarkPersisted stores the id the progress store assigned to a day. It is
// ignored when the schedule was regenerated, or the day moved to another
// date, since the save was dispatched.
type MarkPersisted struct {
	Week       int
	Day        int
	Date       string
	ID         string
	Generation uint64
}

func (SetViewMode) Name() string        { return "set_view_mode" }
func (SetExpandedWorkout) Name() string { return "set_expanded_workout" }
func (SetStartDate) Name() string       { return "set_start_date" }
func (CompleteExercise) Name() string   { return "complete_exercise" }
func (BatchComplete) Name() string      { return "batch_complete" }
func (UpdateNotes) Name() string        { return "update_notes" }
func (ClearSchedule) Name() string      { return "clear_schedule" }
func (ApplyPersisted) Name() string     { return "apply_persisted" }
func (MarkPersisted) Name() string      { return "mark_persisted" }
