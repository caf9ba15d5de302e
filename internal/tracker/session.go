package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/programtracker/internal/workout"

	log "github.com/sirupsen/logrus"
)

// SyncStatus tells the client how far the store lags behind the local state.
type SyncStatus struct {
	Loaded         bool       `json:"loaded"`
	PendingSaves   int        `json:"pendingSaves"`
	SavedCount     int        `json:"savedCount"`
	FailedCount    int        `json:"failedCount"`
	DiscardedCount int        `json:"discardedCount"`
	LastSavedAt    *time.Time `json:"lastSavedAt,omitempty"`
	SyncError      string     `json:"syncError,omitempty"`
}

// Session is one user's live run of a program: the state machine plus the
// write-behind syncer feeding the progress store.
type Session struct {
	UserID    string
	ProgramID string

	machine *workout.Machine
	syncer  *workout.Syncer
	// guarded by the owning Service's mutex
	lastUsed time.Time

	mu     sync.Mutex
	status SyncStatus
}

var _ workout.SaveReporter = (*Session)(nil)

func (sess *Session) ReportSave(result workout.SaveResult) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.status.PendingSaves > 0 {
		sess.status.PendingSaves--
	}
	switch result.Status() {
	case workout.SaveStatusSaved:
		sess.status.SavedCount++
		savedAt := time.Now()
		sess.status.LastSavedAt = &savedAt
		sess.status.SyncError = ""
	case workout.SaveStatusDiscarded:
		sess.status.DiscardedCount++
	default:
		sess.status.FailedCount++
		sess.status.SyncError = fmt.Sprintf("save %s failed: %s", result.Date, result.Err)
	}
}

func (sess *Session) SyncStatus() SyncStatus {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	status := sess.status
	if status.LastSavedAt != nil {
		savedAt := *status.LastSavedAt
		status.LastSavedAt = &savedAt
	}
	return status
}

func (sess *Session) setSyncError(format string, args ...any) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.status.SyncError = fmt.Sprintf(format, args...)
}

func (sess *Session) isLoaded() bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.status.Loaded
}

// load overlays the persisted days on the current schedule. A failed load
// keeps the generated schedule and is retried on the next read.
func (sess *Session) load(ctx context.Context, store progressStore) error {
	generation := sess.machine.Generation()
	records, err := store.Load(ctx, sess.UserID, sess.ProgramID)
	if err != nil {
		log.Errorf("load progress of [%s/%s]: %s", sess.UserID, sess.ProgramID, err)
		sess.loadFailed(err)
		return err
	}

	sess.machine.Dispatch(workout.ApplyPersisted{
		Records:    records,
		Generation: generation,
	})

	sess.mu.Lock()
	sess.status.Loaded = true
	sess.status.SyncError = ""
	sess.mu.Unlock()

	log.Debugf("session [%s/%s]: %d persisted days loaded", sess.UserID, sess.ProgramID, len(records))
	return nil
}

// loadFailed marks the local schedule as not backed by the store, the next
// read loads it again.
func (sess *Session) loadFailed(err error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.status.Loaded = false
	sess.status.SyncError = fmt.Sprintf("load failed: %s", err)
}

func (sess *Session) saveDay(ctx context.Context, week, day int) error {
	sess.mu.Lock()
	sess.status.PendingSaves++
	sess.mu.Unlock()

	if err := sess.syncer.SaveDay(ctx, week, day); err != nil {
		sess.mu.Lock()
		sess.status.PendingSaves--
		sess.mu.Unlock()
		return err
	}
	return nil
}

// close lets the in-flight saves finish, then stops the syncer.
func (sess *Session) close() {
	sess.syncer.Wait()
	sess.syncer.Close()
}
