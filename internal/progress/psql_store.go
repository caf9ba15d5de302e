package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/programtracker/internal/schedule"
	"github.com/2beens/programtracker/internal/telemetry/tracing"
	"github.com/2beens/programtracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

func (s *PsqlStore) Load(ctx context.Context, userID, programID string) (_ []schedule.PersistedDayRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("program-id", programID))

	rows, err := s.db.Query(ctx, `
		SELECT w.id::text, w.date, w.workout_type_key, w.notes, ce.exercise_id, ce.completed
		FROM user_workouts w
		LEFT JOIN completed_exercises ce ON ce.user_workout_id = w.id
		WHERE w.user_id = $1 AND w.program_id = $2
		ORDER BY w.date, w.updated_at, ce.exercise_id
	`, userID, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builder := newRecordsBuilder()
	for rows.Next() {
		var (
			id, workoutTypeKey string
			date               time.Time
			notes, exerciseID  *string
			completed          *bool
		)
		if err := rows.Scan(&id, &date, &workoutTypeKey, &notes, &exerciseID, &completed); err != nil {
			return nil, err
		}
		builder.add(id, date, workoutTypeKey, notes, exerciseID, completed)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", len(builder.records)))
	return builder.records, nil
}

func (s *PsqlStore) Save(ctx context.Context, userID, programID string, record schedule.PersistedDayRecord) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("user-id", userID),
		attribute.String("program-id", programID),
		attribute.String("date", record.Date),
		attribute.Int("completions", len(record.ExerciseCompletions)),
	)

	date, err := validateRecord(record)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO user_workouts (id, user_id, program_id, date, workout_type_key, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id, program_id, date) DO UPDATE
		SET workout_type_key = EXCLUDED.workout_type_key,
		    notes = EXCLUDED.notes,
		    updated_at = now()
		RETURNING id::text
	`,
		uuid.New(), userID, programID, date, record.WorkoutTypeKey, record.Notes,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	if len(record.ExerciseCompletions) == 0 {
		return id, nil
	}

	batch := &pgx.Batch{}
	for _, ec := range record.ExerciseCompletions {
		batch.Queue(`
			INSERT INTO completed_exercises (user_workout_id, exercise_id, completed, updated_at)
			VALUES ($1::uuid, $2, $3, now())
			ON CONFLICT (user_workout_id, exercise_id) DO UPDATE
			SET completed = EXCLUDED.completed,
			    updated_at = now()
		`, id, ec.ExerciseID, ec.Completed)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", fmt.Errorf("upsert completions: %w", err)
	}

	return id, nil
}

func (s *PsqlStore) Clear(ctx context.Context, userID, programID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.clear")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("program-id", programID))

	tag, err := s.db.Exec(ctx, `
		DELETE FROM user_workouts
		WHERE user_id = $1 AND program_id = $2
	`, userID, programID)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int64("deleted", tag.RowsAffected()))
	return nil
}

func (s *PsqlStore) Enroll(ctx context.Context, userID, programID string, startDate time.Time) (_ Enrollment, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.enroll")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("program-id", programID))

	enrollment := Enrollment{}
	err = s.db.QueryRow(ctx, `
		INSERT INTO user_programs (id, user_id, program_id, start_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, user_id, program_id, start_date, created_at
	`,
		uuid.New(), userID, programID, schedule.Midnight(startDate),
	).Scan(&enrollment.ID, &enrollment.UserID, &enrollment.ProgramID, &enrollment.StartDate, &enrollment.CreatedAt)
	if pkg.IsUniqueViolationError(err) {
		// already enrolled, the existing start date stays
		enrollment, err = s.Enrollment(ctx, userID, programID)
		return enrollment, false, err
	}
	if err != nil {
		return Enrollment{}, false, err
	}

	return enrollment, true, nil
}

func (s *PsqlStore) Enrollment(ctx context.Context, userID, programID string) (_ Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.enrollment")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	enrollment := Enrollment{}
	err = s.db.QueryRow(ctx, `
		SELECT id::text, user_id, program_id, start_date, created_at
		FROM user_programs
		WHERE user_id = $1 AND program_id = $2
	`, userID, programID).
		Scan(&enrollment.ID, &enrollment.UserID, &enrollment.ProgramID, &enrollment.StartDate, &enrollment.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Enrollment{}, ErrEnrollmentNotFound
	}
	if err != nil {
		return Enrollment{}, err
	}

	return enrollment, nil
}

func (s *PsqlStore) SetStartDate(ctx context.Context, userID, programID string, startDate time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.set-start-date")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := s.db.Exec(ctx, `
		UPDATE user_programs
		SET start_date = $3
		WHERE user_id = $1 AND program_id = $2
	`, userID, programID, schedule.Midnight(startDate))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
