package schedule

import (
	"time"

	"github.com/2beens/programtracker/internal/program"
)

const DateKeyLayout = "2006-01-02"

// DayWorkout is one dated instance of a day template.
// ID stays empty until the day was persisted once.
type DayWorkout struct {
	ID            string          `json:"id,omitempty"`
	UserProgramID string          `json:"userProgramId"`
	Date          time.Time       `json:"date"`
	Workout       string          `json:"workout"`
	Completed     map[string]bool `json:"completed"`
	UserNotes     *string         `json:"userNotes,omitempty"`
}

// Schedule is index-aligned with the program weeks: Schedule[w][d].
type Schedule [][]DayWorkout

// Day returns the day at the given indices, ok is false when out of range.
func (s Schedule) Day(week, day int) (DayWorkout, bool) {
	if week < 0 || week >= len(s) || day < 0 || day >= len(s[week]) {
		return DayWorkout{}, false
	}
	return s[week][day], true
}

func (s Schedule) DaysCount() int {
	count := 0
	for _, w := range s {
		count += len(w)
	}
	return count
}

// Midnight drops the time of day, keeping the date in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey is the date-only key days are matched by, e.g. 2024-01-31.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateKeyLayout, value)
}

// Generate lays the program weeks out on the calendar starting at startDate.
// Day d of week w lands on startDate + 7w + d calendar days. A nil program or
// a program without weeks yields an empty schedule.
func Generate(startDate time.Time, p *program.Program) Schedule {
	if p == nil || len(p.Schedule.Weeks) == 0 {
		return Schedule{}
	}

	start := Midnight(startDate)
	schedule := make(Schedule, len(p.Schedule.Weeks))
	for w, week := range p.Schedule.Weeks {
		days := make([]DayWorkout, len(week.Days))
		for d, workout := range week.Days {
			days[d] = DayWorkout{
				UserProgramID: p.ID,
				// AddDate keeps wall clock midnight across DST changes
				Date:      start.AddDate(0, 0, 7*w+d),
				Workout:   workout,
				Completed: map[string]bool{},
			}
		}
		schedule[w] = days
	}

	return schedule
}
