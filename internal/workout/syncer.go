package workout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/programtracker/internal/schedule"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultSaveAttempts        = 3
	DefaultSaveInitialInterval = 200 * time.Millisecond
	DefaultSaveMaxInterval     = 5 * time.Second
)

var (
	ErrStaleGeneration = errors.New("schedule regenerated, save discarded")
	ErrDayNotFound     = errors.New("day not found in schedule")
	ErrSyncerClosed    = errors.New("syncer closed")
)

//go:generate mockgen -source=$GOFILE -destination=syncer_mocks_test.go -package=workout_test

type progressSaver interface {
	Save(ctx context.Context, userID, programID string, record schedule.PersistedDayRecord) (string, error)
}

type SyncerParams struct {
	Machine         *Machine
	Store           progressSaver
	UserID          string
	ProgramID       string
	Reporter        SaveReporter
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Syncer writes days behind the Machine: local state is updated first and
// stays authoritative, saves run asynchronously and are never rolled back.
// A failed attempt is retried with exponential backoff. A save whose
// schedule generation is outdated is not attempted again. Regenerations
// dispatched through Barrier never overlap a save in flight.
type Syncer struct {
	machine   *Machine
	store     progressSaver
	userID    string
	programID string
	reporter  SaveReporter

	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSyncer(params SyncerParams) *Syncer {
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = DefaultSaveAttempts
	}
	if params.InitialInterval <= 0 {
		params.InitialInterval = DefaultSaveInitialInterval
	}
	if params.MaxInterval <= 0 {
		params.MaxInterval = DefaultSaveMaxInterval
	}
	if params.Reporter == nil {
		params.Reporter = SaveReporterFunc(func(SaveResult) {})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Syncer{
		machine:         params.Machine,
		store:           params.Store,
		userID:          params.UserID,
		programID:       params.ProgramID,
		reporter:        params.Reporter,
		maxAttempts:     params.MaxAttempts,
		initialInterval: params.InitialInterval,
		maxInterval:     params.MaxInterval,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// SaveDay snapshots the day and saves it in the background. Cancelling ctx
// does not cancel the save, ctx only carries values such as the trace span.
// The snapshot is taken once no Barrier is running, so a save queued behind
// a regeneration writes the regenerated day.
func (s *Syncer) SaveDay(ctx context.Context, week, day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSyncerClosed
	}

	state := s.machine.State()
	dw, ok := state.Day(week, day)
	if !ok {
		return fmt.Errorf("save [%d/%d]: %w", week, day, ErrDayNotFound)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.save(context.WithoutCancel(ctx), week, day, state.Generation, schedule.RecordFromDay(dw))
	}()

	return nil
}

func (s *Syncer) save(ctx context.Context, week, day int, generation uint64, record schedule.PersistedDayRecord) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	started := time.Now()
	result := SaveResult{
		Week:       week,
		Day:        day,
		Date:       record.Date,
		Generation: generation,
	}

	operation := func() error {
		if s.machine.Generation() != generation {
			return backoff.Permanent(ErrStaleGeneration)
		}
		result.Attempts++
		id, err := s.store.Save(ctx, s.userID, s.programID, record)
		if err != nil {
			return err
		}
		result.Written = true
		result.RecordID = id
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.initialInterval
	expBackoff.MaxInterval = s.maxInterval
	// bounded by attempts only
	expBackoff.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(s.maxAttempts-1)), ctx)

	err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		log.Warnf("save day [%s] user [%s] program [%s]: attempt %d failed: %s, retrying in %s",
			record.Date, s.userID, s.programID, result.Attempts, err, next)
	})
	if err == nil {
		state := s.machine.Dispatch(MarkPersisted{
			Week:       week,
			Day:        day,
			Date:       record.Date,
			ID:         result.RecordID,
			Generation: generation,
		})
		if state.Generation != generation {
			err = ErrStaleGeneration
		}
	}

	result.Err = err
	result.Duration = time.Since(started)

	switch result.Status() {
	case SaveStatusSaved:
		log.Debugf("save day [%s] user [%s] program [%s]: saved as [%s] after %d attempt(s)",
			record.Date, s.userID, s.programID, result.RecordID, result.Attempts)
	case SaveStatusDiscarded:
		if result.Written {
			log.Warnf("save day [%s] user [%s] program [%s]: written, but generation %d outdated, id not applied",
				record.Date, s.userID, s.programID, generation)
		} else {
			log.Infof("save day [%s] user [%s] program [%s]: generation %d outdated, discarded",
				record.Date, s.userID, s.programID, generation)
		}
	default:
		log.Errorf("save day [%s] user [%s] program [%s]: giving up after %d attempt(s): %s",
			record.Date, s.userID, s.programID, result.Attempts, err)
	}

	s.reporter.ReportSave(result)
}

// Wait blocks until every save dispatched so far has finished. New saves
// are held back until it returns.
func (s *Syncer) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wg.Wait()
}

// Barrier waits for every save dispatched so far, then runs fn. New saves
// are held back until fn returns, so nothing written before fn can land
// after it, and nothing fn removes can be overwritten by an older save.
// Regenerating the schedule and clearing the store both run inside it.
func (s *Syncer) Barrier(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSyncerClosed
	}

	s.wg.Wait()
	return fn()
}

// Close stops accepting saves, aborts retries still waiting and waits for
// the in-flight saves.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cancel()
	s.wg.Wait()
}
