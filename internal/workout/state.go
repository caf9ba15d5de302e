package workout

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/schedule"
)

type ViewMode string

const (
	ViewModeCalendar ViewMode = "calendar"
	ViewModeList     ViewMode = "list"
)

var ErrUnknownViewMode = errors.New("unknown view mode")

func ParseViewMode(value string) (ViewMode, error) {
	switch mode := ViewMode(value); mode {
	case ViewModeCalendar, ViewModeList:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, value)
	}
}

// State is everything a tracker session renders from. States are values:
// the reducer never modifies a State it was given, so a State handed out
// by the Machine stays valid after further dispatches.
type State struct {
	Schedule          schedule.Schedule `json:"schedule"`
	ExpandedWorkoutID *string           `json:"expandedWorkoutId"`
	ViewMode          ViewMode          `json:"viewMode"`
	StartDate         time.Time         `json:"startDate"`
	// Generation increases every time the schedule is regenerated.
	// Saves dispatched for an older generation are discarded.
	Generation uint64 `json:"generation"`
}

func NewState(p *program.Program, startDate time.Time) State {
	start := schedule.Midnight(startDate)
	return State{
		Schedule:  schedule.Generate(start, p),
		ViewMode:  ViewModeCalendar,
		StartDate: start,
	}
}

// Day returns a day of the state's schedule.
func (s State) Day(week, day int) (schedule.DayWorkout, bool) {
	return s.Schedule.Day(week, day)
}
