package workout

import (
	"maps"

	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/schedule"

	log "github.com/sirupsen/logrus"
)

// Reduce applies an action and returns the resulting state. It never fails:
// actions addressing a day outside the schedule, and unknown actions, leave
// the state as it is. Weeks and days an action does not touch are shared
// between the old and the new state.
func Reduce(p *program.Program, state State, action Action) State {
	switch a := action.(type) {
	case SetViewMode:
		state.ViewMode = a.Mode
		state.ExpandedWorkoutID = nil
		return state

	case SetExpandedWorkout:
		state.ExpandedWorkoutID = copyString(a.WorkoutID)
		return state

	case SetStartDate:
		state.StartDate = schedule.Midnight(a.Date)
		state.Schedule = schedule.Generate(state.StartDate, p)
		if len(a.Persisted) > 0 {
			state.Schedule = schedule.Reconcile(state.Schedule, a.Persisted)
		}
		state.Generation++
		return state

	case ClearSchedule:
		state.Schedule = schedule.Generate(state.StartDate, p)
		state.ExpandedWorkoutID = nil
		state.Generation++
		return state

	case CompleteExercise:
		return updateDay(state, a.Week, a.Day, func(day schedule.DayWorkout) schedule.DayWorkout {
			day.Completed = copyCompleted(day.Completed, 1)
			day.Completed[a.ExerciseID] = !day.Completed[a.ExerciseID]
			return day
		})

	case BatchComplete:
		return updateDay(state, a.Week, a.Day, func(day schedule.DayWorkout) schedule.DayWorkout {
			day.Completed = copyCompleted(day.Completed, len(a.ExerciseIDs))
			for _, id := range a.ExerciseIDs {
				day.Completed[id] = a.Completed
			}
			return day
		})

	case UpdateNotes:
		return updateDay(state, a.Week, a.Day, func(day schedule.DayWorkout) schedule.DayWorkout {
			notes := a.Notes
			day.UserNotes = &notes
			return day
		})

	case ApplyPersisted:
		if a.Generation != state.Generation {
			log.Debugf("apply persisted: generation %d is stale (current %d)", a.Generation, state.Generation)
			return state
		}
		state.Schedule = schedule.Reconcile(state.Schedule, a.Records)
		return state

	case MarkPersisted:
		if a.Generation != state.Generation {
			return state
		}
		return updateDay(state, a.Week, a.Day, func(day schedule.DayWorkout) schedule.DayWorkout {
			if schedule.DateKey(day.Date) == a.Date {
				day.ID = a.ID
			}
			return day
		})

	default:
		log.Warnf("reduce: unknown action %T", action)
		return state
	}
}

// updateDay copies the path to a single day and applies fn to it.
func updateDay(state State, week, day int, fn func(schedule.DayWorkout) schedule.DayWorkout) State {
	current, ok := state.Schedule.Day(week, day)
	if !ok {
		log.Tracef("reduce: day [%d/%d] out of range, ignored", week, day)
		return state
	}

	weeks := make(schedule.Schedule, len(state.Schedule))
	copy(weeks, state.Schedule)
	days := make([]schedule.DayWorkout, len(weeks[week]))
	copy(days, weeks[week])
	days[day] = fn(current)
	weeks[week] = days

	state.Schedule = weeks
	return state
}

func copyCompleted(completed map[string]bool, extra int) map[string]bool {
	c := make(map[string]bool, len(completed)+extra)
	maps.Copy(c, completed)
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
