package schedule

import (
	log "github.com/sirupsen/logrus"
)

// PersistedDayRecord is the shape of one day as the progress store keeps it.
type PersistedDayRecord struct {
	ID                  string               `json:"id"`
	Date                string               `json:"date"`
	WorkoutTypeKey      string               `json:"workoutTypeKey"`
	Notes               *string              `json:"notes,omitempty"`
	ExerciseCompletions []ExerciseCompletion `json:"exerciseCompletions"`
}

type ExerciseCompletion struct {
	ExerciseID string `json:"exerciseId"`
	Completed  bool   `json:"completed"`
}

// CompletedMap rebuilds the completion map of a day from its persisted rows.
func (r PersistedDayRecord) CompletedMap() map[string]bool {
	completed := make(map[string]bool, len(r.ExerciseCompletions))
	for _, ec := range r.ExerciseCompletions {
		completed[ec.ExerciseID] = ec.Completed
	}
	return completed
}

// RecordFromDay builds the save payload for a day: its full current state,
// never a delta.
func RecordFromDay(day DayWorkout) PersistedDayRecord {
	record := PersistedDayRecord{
		ID:                  day.ID,
		Date:                DateKey(day.Date),
		WorkoutTypeKey:      day.Workout,
		ExerciseCompletions: make([]ExerciseCompletion, 0, len(day.Completed)),
	}
	if day.UserNotes != nil {
		notes := *day.UserNotes
		record.Notes = &notes
	}
	for exerciseID, completed := range day.Completed {
		record.ExerciseCompletions = append(record.ExerciseCompletions, ExerciseCompletion{
			ExerciseID: exerciseID,
			Completed:  completed,
		})
	}
	return record
}

// Reconcile overlays persisted progress on a generated schedule, matching
// days by calendar date. Records without a matching day are ignored. When
// the store returns several records for one date, the last one wins.
// The generated schedule is left untouched, a new one is returned.
func Reconcile(generated Schedule, persisted []PersistedDayRecord) Schedule {
	if len(persisted) == 0 {
		return generated
	}

	byDate := make(map[string]PersistedDayRecord, len(persisted))
	for _, record := range persisted {
		if _, duplicate := byDate[record.Date]; duplicate {
			log.Debugf("reconcile: duplicate persisted record for [%s], keeping [%s]", record.Date, record.ID)
		}
		byDate[record.Date] = record
	}

	reconciled := make(Schedule, len(generated))
	matched := 0
	for w, week := range generated {
		var days []DayWorkout
		for d, day := range week {
			record, ok := byDate[DateKey(day.Date)]
			if !ok {
				continue
			}
			if days == nil {
				days = make([]DayWorkout, len(week))
				copy(days, week)
			}
			days[d] = ApplyRecord(day, record)
			matched++
		}
		if days == nil {
			// untouched weeks are shared with the generated schedule
			reconciled[w] = week
		} else {
			reconciled[w] = days
		}
	}

	if unmatched := len(byDate) - matched; unmatched > 0 {
		log.Debugf("reconcile: %d persisted records have no day in the schedule", unmatched)
	}

	return reconciled
}

// ApplyRecord returns day with the persisted id, completions and notes.
func ApplyRecord(day DayWorkout, record PersistedDayRecord) DayWorkout {
	day.ID = record.ID
	day.Completed = record.CompletedMap()
	day.UserNotes = nil
	if record.Notes != nil {
		notes := *record.Notes
		day.UserNotes = &notes
	}
	return day
}
