package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/programtracker/internal/schedule"
)

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidRecord      = errors.New("invalid day record")
)

// Enrollment ties a user to a program run starting at StartDate.
type Enrollment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProgramID string    `json:"programId"`
	StartDate time.Time `json:"startDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists per-day progress of a user's program run.
type Store interface {
	// Load returns every persisted day of the run, ordered by date.
	Load(ctx context.Context, userID, programID string) ([]schedule.PersistedDayRecord, error)
	// Save upserts the day keyed by (user, program, date) together with its
	// exercise completions and returns the day record id.
	Save(ctx context.Context, userID, programID string, record schedule.PersistedDayRecord) (string, error)
	// Clear deletes every persisted day of the run.
	Clear(ctx context.Context, userID, programID string) error

	Enroll(ctx context.Context, userID, programID string, startDate time.Time) (_ Enrollment, created bool, _ error)
	Enrollment(ctx context.Context, userID, programID string) (Enrollment, error)
	SetStartDate(ctx context.Context, userID, programID string, startDate time.Time) error
}

func validateRecord(record schedule.PersistedDayRecord) (time.Time, error) {
	date, err := schedule.ParseDate(record.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date [%s]: %w", ErrInvalidRecord, record.Date, err)
	}
	for _, ec := range record.ExerciseCompletions {
		if ec.ExerciseID == "" {
			return time.Time{}, fmt.Errorf("%w: empty exercise id", ErrInvalidRecord)
		}
	}
	return date, nil
}

// recordsBuilder groups joined day/completion rows into records, keeping
// the row order of the days.
type recordsBuilder struct {
	records []schedule.PersistedDayRecord
	index   map[string]int
}

func newRecordsBuilder() *recordsBuilder {
	return &recordsBuilder{
		records: make([]schedule.PersistedDayRecord, 0),
		index:   make(map[string]int),
	}
}

func (b *recordsBuilder) add(id string, date time.Time, workoutTypeKey string, notes *string, exerciseID *string, completed *bool) {
	i, ok := b.index[id]
	if !ok {
		i = len(b.records)
		b.index[id] = i
		b.records = append(b.records, schedule.PersistedDayRecord{
			ID:                  id,
			Date:                schedule.DateKey(date),
			WorkoutTypeKey:      workoutTypeKey,
			Notes:               notes,
			ExerciseCompletions: make([]schedule.ExerciseCompletion, 0),
		})
	}
	if exerciseID == nil {
		return
	}
	ec := schedule.ExerciseCompletion{ExerciseID: *exerciseID}
	if completed != nil {
		ec.Completed = *completed
	}
	b.records[i].ExerciseCompletions = append(b.records[i].ExerciseCompletions, ec)
}
