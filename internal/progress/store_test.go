package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/programtracker/internal/progress"
	"github.com/2beens/programtracker/internal/schedule"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

// testStoreContract runs the behavior every Store implementation must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) progress.Store) {
	t.Run("load empty", func(t *testing.T) {
		store := newStore(t)
		records, err := store.Load(context.Background(), "user-1", "hybrid-12")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("save and load", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		id, err := store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-02",
			WorkoutTypeKey: "Hybrid B*",
			Notes:          strPtr("felt heavy"),
			ExerciseCompletions: []schedule.ExerciseCompletion{
				{ExerciseID: "week0-day1-main-pulldowns", Completed: true},
				{ExerciseID: "week0-day1-main-custom-drill", Completed: false},
			},
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		_, err = store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-01",
			WorkoutTypeKey: "Hybrid A",
		})
		require.NoError(t, err)

		records, err := store.Load(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		require.Len(t, records, 2)

		// ordered by date
		assert.Equal(t, "2024-01-01", records[0].Date)
		assert.Nil(t, records[0].Notes)
		assert.Empty(t, records[0].ExerciseCompletions)

		second := records[1]
		assert.Equal(t, id, second.ID)
		assert.Equal(t, "2024-01-02", second.Date)
		assert.Equal(t, "Hybrid B*", second.WorkoutTypeKey)
		require.NotNil(t, second.Notes)
		assert.Equal(t, "felt heavy", *second.Notes)
		assert.Equal(t, map[string]bool{
			"week0-day1-main-pulldowns":    true,
			"week0-day1-main-custom-drill": false,
		}, second.CompletedMap())
	})

	t.Run("save upserts by date", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		firstID, err := store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-03",
			WorkoutTypeKey: "Recovery",
			ExerciseCompletions: []schedule.ExerciseCompletion{
				{ExerciseID: "week0-day2-warm-up-arm-circles", Completed: true},
			},
		})
		require.NoError(t, err)

		notes := gofakeit.Sentence(8)
		secondID, err := store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-03",
			WorkoutTypeKey: "Recovery",
			Notes:          &notes,
			ExerciseCompletions: []schedule.ExerciseCompletion{
				{ExerciseID: "week0-day2-warm-up-arm-circles", Completed: false},
				{ExerciseID: "week0-day2-warm-up-band-pull-aparts", Completed: true},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, firstID, secondID)

		records, err := store.Load(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].Notes)
		assert.Equal(t, notes, *records[0].Notes)
		assert.Equal(t, map[string]bool{
			"week0-day2-warm-up-arm-circles":      false,
			"week0-day2-warm-up-band-pull-aparts": true,
		}, records[0].CompletedMap())
	})

	t.Run("runs are isolated", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		record := schedule.PersistedDayRecord{Date: "2024-01-01", WorkoutTypeKey: "Hybrid A"}
		_, err := store.Save(ctx, "user-1", "hybrid-12", record)
		require.NoError(t, err)
		_, err = store.Save(ctx, "user-2", "hybrid-12", record)
		require.NoError(t, err)
		_, err = store.Save(ctx, "user-1", "other-program", record)
		require.NoError(t, err)

		require.NoError(t, store.Clear(ctx, "user-1", "hybrid-12"))

		records, err := store.Load(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		assert.Empty(t, records)

		records, err = store.Load(ctx, "user-2", "hybrid-12")
		require.NoError(t, err)
		assert.Len(t, records, 1)
		records, err = store.Load(ctx, "user-1", "other-program")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("clear removes completions", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-01",
			WorkoutTypeKey: "Hybrid A",
			ExerciseCompletions: []schedule.ExerciseCompletion{
				{ExerciseID: "week0-day0-throwing-long-toss", Completed: true},
			},
		})
		require.NoError(t, err)
		require.NoError(t, store.Clear(ctx, "user-1", "hybrid-12"))
		// clearing an empty run is fine
		require.NoError(t, store.Clear(ctx, "user-1", "hybrid-12"))

		_, err = store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date:           "2024-01-01",
			WorkoutTypeKey: "Hybrid A",
		})
		require.NoError(t, err)
		records, err := store.Load(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].ExerciseCompletions)
	})

	t.Run("invalid record", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date: "01/02/2024",
		})
		assert.ErrorIs(t, err, progress.ErrInvalidRecord)

		_, err = store.Save(ctx, "user-1", "hybrid-12", schedule.PersistedDayRecord{
			Date: "2024-01-02",
			ExerciseCompletions: []schedule.ExerciseCompletion{
				{ExerciseID: "", Completed: true},
			},
		})
		assert.ErrorIs(t, err, progress.ErrInvalidRecord)

		records, err := store.Load(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("enrollment", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		_, err := store.Enrollment(ctx, "user-1", "hybrid-12")
		assert.True(t, errors.Is(err, progress.ErrEnrollmentNotFound))
		err = store.SetStartDate(ctx, "user-1", "hybrid-12", time.Now())
		assert.ErrorIs(t, err, progress.ErrEnrollmentNotFound)

		start := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
		enrollment, created, err := store.Enroll(ctx, "user-1", "hybrid-12", start)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, enrollment.ID)
		assert.Equal(t, "user-1", enrollment.UserID)
		assert.Equal(t, "hybrid-12", enrollment.ProgramID)
		assert.Equal(t, "2024-01-01", schedule.DateKey(enrollment.StartDate))
		assert.False(t, enrollment.CreatedAt.IsZero())

		// enrolling again keeps the first start date
		again, created, err := store.Enroll(ctx, "user-1", "hybrid-12", start.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, enrollment.ID, again.ID)
		assert.Equal(t, "2024-01-01", schedule.DateKey(again.StartDate))

		require.NoError(t, store.SetStartDate(ctx, "user-1", "hybrid-12", start.AddDate(0, 0, 14)))
		moved, err := store.Enrollment(ctx, "user-1", "hybrid-12")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-15", schedule.DateKey(moved.StartDate))
	})
}
