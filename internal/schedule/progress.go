package schedule

import (
	"github.com/2beens/programtracker/internal/program"
)

type workoutResolver interface {
	Resolve(dayKey string) (*program.WorkoutProgram, bool)
}

// Progress aggregates day stats over a whole schedule.
type Progress struct {
	TotalDays            int     `json:"totalDays"`
	CompletedDays        int     `json:"completedDays"`
	InProgressDays       int     `json:"inProgressDays"`
	UnresolvedDays       int     `json:"unresolvedDays"`
	TotalExercises       int     `json:"totalExercises"`
	CompletedExercises   int     `json:"completedExercises"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

func DayStats(resolver workoutResolver, week, day int, dw DayWorkout) (program.DayStats, bool) {
	wp, ok := resolver.Resolve(dw.Workout)
	if !ok {
		return program.DayStats{}, false
	}
	return wp.Stats(week, day, dw.Completed), true
}

func ScheduleProgress(resolver workoutResolver, s Schedule) Progress {
	progress := Progress{}
	for w, week := range s {
		for d, dw := range week {
			progress.TotalDays++
			stats, ok := DayStats(resolver, w, d, dw)
			if !ok {
				progress.UnresolvedDays++
				continue
			}
			progress.TotalExercises += stats.TotalExercises
			progress.CompletedExercises += stats.CompletedCount
			switch {
			case stats.IsCompleted:
				progress.CompletedDays++
			case stats.InProgress:
				progress.InProgressDays++
			}
		}
	}
	if progress.TotalExercises > 0 {
		progress.CompletionPercentage = float64(progress.CompletedExercises) / float64(progress.TotalExercises) * 100
	}
	return progress
}
