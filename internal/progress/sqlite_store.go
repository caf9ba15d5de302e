package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/programtracker/internal/schedule"
	"github.com/2beens/programtracker/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

// SQLiteStore keeps progress in a local SQLite file. It is meant for
// development and single-user setups.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and migrates it.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := pkg.EnsureParentDir(dbPath); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer, and the only way to share an in-memory database
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debugf("sqlite progress store ready: %s", dbPath)
	return s, nil
}

// NewMemorySQLiteStore creates an in-memory store, used in tests.
func NewMemorySQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStore(":memory:")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}

	if _, err := s.db.Exec(sqliteSchemaV1); err != nil {
		return fmt.Errorf("schema v1: %w", err)
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion))
	return err
}

const sqliteSchemaV1 = `
CREATE TABLE IF NOT EXISTS user_programs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	program_id  TEXT NOT NULL,
	start_date  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE (user_id, program_id)
);

CREATE TABLE IF NOT EXISTS user_workouts (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	program_id        TEXT NOT NULL,
	date              TEXT NOT NULL,
	workout_type_key  TEXT NOT NULL,
	notes             TEXT,
	updated_at        TEXT NOT NULL,
	UNIQUE (user_id, program_id, date)
);

CREATE TABLE IF NOT EXISTS completed_exercises (
	user_workout_id  TEXT NOT NULL REFERENCES user_workouts(id) ON DELETE CASCADE,
	exercise_id      TEXT NOT NULL,
	completed        INTEGER NOT NULL DEFAULT 0,
	updated_at       TEXT NOT NULL,
	PRIMARY KEY (user_workout_id, exercise_id)
);
`

func nowText() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) Load(ctx context.Context, userID, programID string) ([]schedule.PersistedDayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.date, w.workout_type_key, w.notes, ce.exercise_id, ce.completed
		FROM user_workouts w
		LEFT JOIN completed_exercises ce ON ce.user_workout_id = w.id
		WHERE w.user_id = ? AND w.program_id = ?
		ORDER BY w.date, w.updated_at, ce.exercise_id
	`, userID, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	builder := newRecordsBuilder()
	for rows.Next() {
		var (
			id, dateText, workoutTypeKey string
			notes, exerciseID            *string
			completed                    *bool
		)
		if err := rows.Scan(&id, &dateText, &workoutTypeKey, &notes, &exerciseID, &completed); err != nil {
			return nil, err
		}
		date, err := schedule.ParseDate(dateText)
		if err != nil {
			return nil, fmt.Errorf("day [%s] has invalid date [%s]: %w", id, dateText, err)
		}
		builder.add(id, date, workoutTypeKey, notes, exerciseID, completed)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return builder.records, nil
}

func (s *SQLiteStore) Save(ctx context.Context, userID, programID string, record schedule.PersistedDayRecord) (_ string, err error) {
	date, err := validateRecord(record)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit()
		}
	}()

	now := nowText()
	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO user_workouts (id, user_id, program_id, date, workout_type_key, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, program_id, date) DO UPDATE
		SET workout_type_key = excluded.workout_type_key,
		    notes = excluded.notes,
		    updated_at = excluded.updated_at
		RETURNING id
	`,
		uuid.NewString(), userID, programID, schedule.DateKey(date), record.WorkoutTypeKey, record.Notes, now,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, ec := range record.ExerciseCompletions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO completed_exercises (user_workout_id, exercise_id, completed, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_workout_id, exercise_id) DO UPDATE
			SET completed = excluded.completed,
			    updated_at = excluded.updated_at
		`, id, ec.ExerciseID, ec.Completed, now)
		if err != nil {
			return "", fmt.Errorf("upsert completion [%s]: %w", ec.ExerciseID, err)
		}
	}

	return id, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, userID, programID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM user_workouts
		WHERE user_id = ? AND program_id = ?
	`, userID, programID)
	if err != nil {
		return err
	}
	if deleted, err := res.RowsAffected(); err == nil {
		log.Tracef("sqlite progress store: cleared %d days of [%s/%s]", deleted, userID, programID)
	}
	return nil
}

func (s *SQLiteStore) Enroll(ctx context.Context, userID, programID string, startDate time.Time) (Enrollment, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO user_programs (id, user_id, program_id, start_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, program_id) DO NOTHING
	`, uuid.NewString(), userID, programID, schedule.DateKey(startDate), nowText())
	if err != nil {
		return Enrollment{}, false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return Enrollment{}, false, err
	}

	enrollment, err := s.Enrollment(ctx, userID, programID)
	if err != nil {
		return Enrollment{}, false, err
	}
	return enrollment, inserted > 0, nil
}

func (s *SQLiteStore) Enrollment(ctx context.Context, userID, programID string) (Enrollment, error) {
	enrollment := Enrollment{}
	var startDate, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, program_id, start_date, created_at
		FROM user_programs
		WHERE user_id = ? AND program_id = ?
	`, userID, programID).
		Scan(&enrollment.ID, &enrollment.UserID, &enrollment.ProgramID, &startDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Enrollment{}, ErrEnrollmentNotFound
	}
	if err != nil {
		return Enrollment{}, err
	}

	if enrollment.StartDate, err = schedule.ParseDate(startDate); err != nil {
		return Enrollment{}, fmt.Errorf("parse start date: %w", err)
	}
	if enrollment.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Enrollment{}, fmt.Errorf("parse created at: %w", err)
	}

	return enrollment, nil
}

func (s *SQLiteStore) SetStartDate(ctx context.Context, userID, programID string, startDate time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_programs
		SET start_date = ?
		WHERE user_id = ? AND program_id = ?
	`, schedule.DateKey(startDate), userID, programID)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
