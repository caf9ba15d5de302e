package program

import (
	"fmt"
	"strings"
)

// ExerciseKey addresses one exercise instance within a generated schedule.
// Week and Day are 0-based indices into the schedule, Section is the
// lowercased section name. Two keys are equal iff all four parts are equal,
// so the struct can be used directly as a map key.
//
// The canonical string form (see String) is what completion maps and
// persisted rows are keyed by, and must never change:
//
//	week{w}-day{d}-{section}-{exerciseId}
type ExerciseKey struct {
	Week       int
	Day        int
	Section    string
	ExerciseID string
}

func NewExerciseKey(week, day int, section, exerciseID string) ExerciseKey {
	return ExerciseKey{
		Week:       week,
		Day:        day,
		Section:    strings.ToLower(section),
		ExerciseID: exerciseID,
	}
}

func (k ExerciseKey) String() string {
	return fmt.Sprintf("week%d-day%d-%s-%s", k.Week, k.Day, strings.ToLower(k.Section), k.ExerciseID)
}

// BelongsTo reports whether the key addresses an exercise of the given day.
func (k ExerciseKey) BelongsTo(week, day int) bool {
	return k.Week == week && k.Day == day
}
