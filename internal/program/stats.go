package program

// DayStats summarizes how much of a day's workout has been checked off.
type DayStats struct {
	CompletedCount       int     `json:"completedCount"`
	TotalExercises       int     `json:"totalExercises"`
	IsCompleted          bool    `json:"isCompleted"`
	InProgress           bool    `json:"inProgress"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// Stats counts completed exercises of this workout for the given slot.
// Keys in completed that do not belong to the workout are ignored.
func (wp *WorkoutProgram) Stats(week, day int, completed map[string]bool) DayStats {
	if wp == nil {
		return DayStats{}
	}

	stats := DayStats{}
	for _, id := range wp.InstanceIDs(week, day) {
		stats.TotalExercises++
		if completed[id] {
			stats.CompletedCount++
		}
	}
	if stats.TotalExercises > 0 {
		stats.CompletionPercentage = float64(stats.CompletedCount) / float64(stats.TotalExercises) * 100
	}
	stats.IsCompleted = stats.TotalExercises > 0 && stats.CompletedCount == stats.TotalExercises
	stats.InProgress = stats.CompletedCount > 0 && !stats.IsCompleted

	return stats
}
