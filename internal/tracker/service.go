package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/progress"
	"github.com/2beens/programtracker/internal/schedule"
	"github.com/2beens/programtracker/internal/telemetry/metrics"
	"github.com/2beens/programtracker/internal/telemetry/tracing"
	"github.com/2beens/programtracker/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrNotEnrolled     = errors.New("user not enrolled in program")
	ErrDayNotFound     = errors.New("day not found")
	ErrUnknownExercise = errors.New("exercise not part of the day's workout")
	ErrSessionNotFound = errors.New("session not found")
	ErrServiceClosed   = errors.New("tracker service closed")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=tracker

type progressStore interface {
	Load(ctx context.Context, userID, programID string) ([]schedule.PersistedDayRecord, error)
	Save(ctx context.Context, userID, programID string, record schedule.PersistedDayRecord) (string, error)
	Clear(ctx context.Context, userID, programID string) error
	Enroll(ctx context.Context, userID, programID string, startDate time.Time) (progress.Enrollment, bool, error)
	Enrollment(ctx context.Context, userID, programID string) (progress.Enrollment, error)
	SetStartDate(ctx context.Context, userID, programID string, startDate time.Time) error
}

type preferencesStore interface {
	ViewMode(ctx context.Context, userID string) (workout.ViewMode, bool, error)
	SetViewMode(ctx context.Context, userID string, mode workout.ViewMode) error
}

type DayView struct {
	Week       int                     `json:"week"`
	Day        int                     `json:"day"`
	DayWorkout schedule.DayWorkout     `json:"dayWorkout"`
	Workout    *program.WorkoutProgram `json:"workout"`
	Stats      *program.DayStats       `json:"stats,omitempty"`
	SyncStatus SyncStatus              `json:"syncStatus"`
}

type ScheduleView struct {
	State      workout.State     `json:"state"`
	Progress   schedule.Progress `json:"progress"`
	SyncStatus SyncStatus        `json:"syncStatus"`
}

type ServiceParams struct {
	Catalog  *program.Catalog
	Resolver *program.Resolver
	Store    progressStore
	// optional
	Preferences         preferencesStore
	MetricsManager      *metrics.Manager
	SaveAttempts        int
	SaveInitialInterval time.Duration
	// SessionIdleTimeout closes sessions unused for that long, 0 keeps them
	// open until Close.
	SessionIdleTimeout time.Duration
	Now                func() time.Time
}

type sessionKey struct {
	userID    string
	programID string
}

// Service keeps one Session per (user, program) and routes every request
// through that session's state machine.
type Service struct {
	program             *program.Program
	resolver            *program.Resolver
	store               progressStore
	preferences         preferencesStore
	metricsManager      *metrics.Manager
	saveAttempts        int
	saveInitialInterval time.Duration
	sessionIdleTimeout  time.Duration
	now                 func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]*Session
	closed   bool

	stopEviction chan struct{}
	evictionDone chan struct{}
}

func NewService(params ServiceParams) *Service {
	if params.Now == nil {
		params.Now = time.Now
	}
	s := &Service{
		program:             params.Catalog.Program,
		resolver:            params.Resolver,
		store:               params.Store,
		preferences:         params.Preferences,
		metricsManager:      params.MetricsManager,
		saveAttempts:        params.SaveAttempts,
		saveInitialInterval: params.SaveInitialInterval,
		sessionIdleTimeout:  params.SessionIdleTimeout,
		now:                 params.Now,
		sessions:            make(map[sessionKey]*Session),
	}
	if s.sessionIdleTimeout > 0 {
		s.stopEviction = make(chan struct{})
		s.evictionDone = make(chan struct{})
		go s.evictionLoop()
	}
	return s
}

func (s *Service) evictionLoop() {
	defer close(s.evictionDone)

	interval := s.sessionIdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopEviction:
			return
		case <-ticker.C:
			if evicted := s.evictIdle(s.now()); evicted > 0 {
				log.Debugf("tracker service: %d idle sessions closed", evicted)
			}
		}
	}
}

// evictIdle closes the sessions not used since now minus the idle timeout.
// Their saves are flushed first, the next request reopens them from the store.
func (s *Service) evictIdle(now time.Time) int {
	if s.sessionIdleTimeout <= 0 {
		return 0
	}

	var idle []*Session
	s.mu.Lock()
	for key, sess := range s.sessions {
		if now.Sub(sess.lastUsed) < s.sessionIdleTimeout {
			continue
		}
		delete(s.sessions, key)
		idle = append(idle, sess)
		if s.metricsManager != nil {
			s.metricsManager.GaugeSessions.Dec()
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.close()
	}
	return len(idle)
}

func (s *Service) Program() *program.Program {
	return s.program
}

func (s *Service) checkProgram(programID string) error {
	if s.program == nil || programID != s.program.ID {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	return nil
}

// Enroll registers the user for the program. A nil startDate means today.
// Enrolling twice keeps the first start date.
func (s *Service) Enroll(ctx context.Context, userID, programID string, startDate *time.Time) (_ progress.Enrollment, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.enroll")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("program-id", programID))

	if err := s.checkProgram(programID); err != nil {
		return progress.Enrollment{}, false, err
	}

	start := s.now()
	if startDate != nil {
		start = *startDate
	}
	enrollment, created, err := s.store.Enroll(ctx, userID, programID, schedule.Midnight(start))
	if err != nil {
		return progress.Enrollment{}, false, fmt.Errorf("enroll: %w", err)
	}

	log.Debugf("user [%s] enrolled in [%s] starting %s (new: %t)",
		userID, programID, schedule.DateKey(enrollment.StartDate), created)
	return enrollment, created, nil
}

// session returns the live session, opening it on first use.
func (s *Service) session(ctx context.Context, userID, programID string) (*Session, error) {
	if err := s.checkProgram(programID); err != nil {
		return nil, err
	}
	key := sessionKey{userID: userID, programID: programID}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}
	sess, ok := s.sessions[key]
	if ok {
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()
	if ok {
		if !sess.isLoaded() {
			_ = sess.load(ctx, s.store)
		}
		return sess, nil
	}

	enrollment, err := s.store.Enrollment(ctx, userID, programID)
	if errors.Is(err, progress.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("%w: user [%s] program [%s]", ErrNotEnrolled, userID, programID)
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	opened := s.openSession(ctx, enrollment)

	s.mu.Lock()
	if existing, ok := s.sessions[key]; ok || s.closed {
		s.mu.Unlock()
		// lost the race against a concurrent open
		opened.close()
		if !ok {
			return nil, ErrServiceClosed
		}
		existing.lastUsed = s.now()
		return existing, nil
	}
	opened.lastUsed = s.now()
	s.sessions[key] = opened
	if s.metricsManager != nil {
		s.metricsManager.GaugeSessions.Inc()
	}
	s.mu.Unlock()

	return opened, nil
}

func (s *Service) openSession(ctx context.Context, enrollment progress.Enrollment) *Session {
	state := workout.NewState(s.program, enrollment.StartDate)
	if s.preferences != nil {
		mode, ok, err := s.preferences.ViewMode(ctx, enrollment.UserID)
		if err != nil {
			log.Warnf("get view mode of [%s]: %s", enrollment.UserID, err)
		} else if ok {
			state.ViewMode = mode
		}
	}

	sess := &Session{
		UserID:    enrollment.UserID,
		ProgramID: enrollment.ProgramID,
		machine:   workout.NewMachine(s.program, state),
	}
	sess.syncer = workout.NewSyncer(workout.SyncerParams{
		Machine:         sess.machine,
		Store:           s.store,
		UserID:          enrollment.UserID,
		ProgramID:       enrollment.ProgramID,
		Reporter:        workout.MultiReporter{sess, workout.SaveReporterFunc(s.reportSaveMetrics)},
		MaxAttempts:     s.saveAttempts,
		InitialInterval: s.saveInitialInterval,
	})

	// a failed load is not fatal, the next read retries it
	_ = sess.load(ctx, s.store)

	log.Debugf("session [%s/%s] opened, start date %s",
		sess.UserID, sess.ProgramID, schedule.DateKey(enrollment.StartDate))
	return sess
}

func (s *Service) reportSaveMetrics(result workout.SaveResult) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterSaves.WithLabelValues(string(result.Status())).Inc()
	s.metricsManager.CounterSaveAttempts.Add(float64(result.Attempts))
	s.metricsManager.HistogramSaveDuration.Observe(result.Duration.Seconds())
}

func (s *Service) dispatch(sess *Session, action workout.Action) workout.State {
	if s.metricsManager != nil {
		s.metricsManager.CounterActions.WithLabelValues(action.Name()).Inc()
	}
	return sess.machine.Dispatch(action)
}

func (s *Service) Schedule(ctx context.Context, userID, programID string) (_ ScheduleView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.schedule")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return ScheduleView{}, err
	}
	return s.scheduleView(sess), nil
}

func (s *Service) scheduleView(sess *Session) ScheduleView {
	state := sess.machine.State()
	return ScheduleView{
		State:      state,
		Progress:   schedule.ScheduleProgress(s.resolver, state.Schedule),
		SyncStatus: sess.SyncStatus(),
	}
}

func (s *Service) Day(ctx context.Context, userID, programID string, week, day int) (_ DayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.day")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return DayView{}, err
	}
	return s.dayView(sess, sess.machine.State(), week, day)
}

func (s *Service) dayView(sess *Session, state workout.State, week, day int) (DayView, error) {
	dw, ok := state.Day(week, day)
	if !ok {
		return DayView{}, fmt.Errorf("%w: week %d day %d", ErrDayNotFound, week, day)
	}

	view := DayView{
		Week:       week,
		Day:        day,
		DayWorkout: dw,
		SyncStatus: sess.SyncStatus(),
	}
	if wp, ok := s.resolver.Resolve(dw.Workout); ok {
		view.Workout = wp.ForDay(week, day)
		stats := wp.Stats(week, day, dw.Completed)
		view.Stats = &stats
	}
	return view, nil
}

// checkExercises makes sure every id is an exercise instance of the day.
func (s *Service) checkExercises(state workout.State, week, day int, exerciseIDs ...string) error {
	dw, ok := state.Day(week, day)
	if !ok {
		return fmt.Errorf("%w: week %d day %d", ErrDayNotFound, week, day)
	}
	wp, ok := s.resolver.Resolve(dw.Workout)
	if !ok {
		return fmt.Errorf("%w: day has no workout", ErrUnknownExercise)
	}
	instances := make(map[string]bool)
	for _, id := range wp.InstanceIDs(week, day) {
		instances[id] = true
	}
	for _, id := range exerciseIDs {
		if !instances[id] {
			return fmt.Errorf("%w: %s", ErrUnknownExercise, id)
		}
	}
	return nil
}

// mutateDay applies a day action locally, then saves the day behind it.
func (s *Service) mutateDay(ctx context.Context, sess *Session, week, day int, action workout.Action) (DayView, error) {
	state := s.dispatch(sess, action)
	if err := sess.saveDay(ctx, week, day); err != nil {
		return DayView{}, err
	}
	return s.dayView(sess, state, week, day)
}

func (s *Service) ToggleExercise(ctx context.Context, userID, programID string, week, day int, exerciseID string) (_ DayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.toggle-exercise")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("exercise-id", exerciseID))

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return DayView{}, err
	}
	if err := s.checkExercises(sess.machine.State(), week, day, exerciseID); err != nil {
		return DayView{}, err
	}

	return s.mutateDay(ctx, sess, week, day, workout.CompleteExercise{
		Week:       week,
		Day:        day,
		ExerciseID: exerciseID,
	})
}

func (s *Service) BatchComplete(ctx context.Context, userID, programID string, week, day int, exerciseIDs []string, completed bool) (_ DayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.batch-complete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("exercises", len(exerciseIDs)), attribute.Bool("completed", completed))

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return DayView{}, err
	}
	if err := s.checkExercises(sess.machine.State(), week, day, exerciseIDs...); err != nil {
		return DayView{}, err
	}

	return s.mutateDay(ctx, sess, week, day, workout.BatchComplete{
		Week:        week,
		Day:         day,
		ExerciseIDs: exerciseIDs,
		Completed:   completed,
	})
}

func (s *Service) UpdateNotes(ctx context.Context, userID, programID string, week, day int, notes string) (_ DayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.update-notes")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return DayView{}, err
	}
	if _, ok := sess.machine.State().Day(week, day); !ok {
		return DayView{}, fmt.Errorf("%w: week %d day %d", ErrDayNotFound, week, day)
	}

	return s.mutateDay(ctx, sess, week, day, workout.UpdateNotes{
		Week:  week,
		Day:   day,
		Notes: notes,
	})
}

// SetStartDate regenerates the schedule from date. It runs behind the
// session's saves in flight, so none of them can overwrite a day of the new
// schedule. The persisted days matching the new dates are applied in the same
// transition.
func (s *Service) SetStartDate(ctx context.Context, userID, programID string, date time.Time) (_ ScheduleView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.set-start-date")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("start-date", schedule.DateKey(date)))

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return ScheduleView{}, err
	}

	var persistErr, loadErr error
	err = sess.syncer.Barrier(func() error {
		persistErr = s.store.SetStartDate(ctx, userID, programID, date)

		var records []schedule.PersistedDayRecord
		records, loadErr = s.store.Load(ctx, userID, programID)
		s.dispatch(sess, workout.SetStartDate{Date: date, Persisted: records})
		return nil
	})
	if err != nil {
		return ScheduleView{}, fmt.Errorf("set start date: %w", err)
	}

	if loadErr != nil {
		log.Errorf("load progress of [%s/%s]: %s", userID, programID, loadErr)
		sess.loadFailed(loadErr)
	}
	if persistErr != nil {
		log.Errorf("persist start date of [%s/%s]: %s", userID, programID, persistErr)
		sess.setSyncError("save start date failed: %s", persistErr)
	}

	return s.scheduleView(sess), nil
}

func (s *Service) SetViewMode(ctx context.Context, userID, programID string, mode workout.ViewMode) (_ ScheduleView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.set-view-mode")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := workout.ParseViewMode(string(mode)); err != nil {
		return ScheduleView{}, err
	}
	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return ScheduleView{}, err
	}

	s.dispatch(sess, workout.SetViewMode{Mode: mode})
	if s.preferences != nil {
		if err := s.preferences.SetViewMode(ctx, userID, mode); err != nil {
			log.Warnf("store view mode of [%s]: %s", userID, err)
		}
	}

	return s.scheduleView(sess), nil
}

func (s *Service) SetExpandedWorkout(ctx context.Context, userID, programID string, workoutID *string) (_ ScheduleView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.set-expanded")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return ScheduleView{}, err
	}

	s.dispatch(sess, workout.SetExpandedWorkout{WorkoutID: workoutID})
	return s.scheduleView(sess), nil
}

// ClearSchedule drops all progress of the run, locally and in the store.
// The clear runs behind the saves in flight and ahead of any save issued
// after the local reset, so the store ends up holding only the latter.
func (s *Service) ClearSchedule(ctx context.Context, userID, programID string) (_ ScheduleView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.clear-schedule")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	sess, err := s.session(ctx, userID, programID)
	if err != nil {
		return ScheduleView{}, err
	}

	var clearErr error
	err = sess.syncer.Barrier(func() error {
		s.dispatch(sess, workout.ClearSchedule{})
		clearErr = s.store.Clear(ctx, userID, programID)
		return nil
	})
	if err != nil {
		return ScheduleView{}, fmt.Errorf("clear schedule: %w", err)
	}
	if clearErr != nil {
		sess.setSyncError("clear failed: %s", clearErr)
		return ScheduleView{}, fmt.Errorf("clear progress: %w", clearErr)
	}

	return s.scheduleView(sess), nil
}

// CloseSession waits for the session's saves and forgets it. The next
// request opens a fresh session from the store.
func (s *Service) CloseSession(ctx context.Context, userID, programID string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.tracker.close-session")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	key := sessionKey{userID: userID, programID: programID}
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
		if s.metricsManager != nil {
			s.metricsManager.GaugeSessions.Dec()
		}
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: user [%s] program [%s]", ErrSessionNotFound, userID, programID)
	}
	sess.close()
	return nil
}

// Close closes every session, waiting for their saves.
func (s *Service) Close() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[sessionKey]*Session)
	s.mu.Unlock()

	if s.stopEviction != nil && !alreadyClosed {
		close(s.stopEviction)
		<-s.evictionDone
	}

	for _, sess := range sessions {
		sess.close()
		if s.metricsManager != nil {
			s.metricsManager.GaugeSessions.Dec()
		}
	}
	log.Debugf("tracker service closed, %d sessions flushed", len(sessions))
}
