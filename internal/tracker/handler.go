package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/programtracker/internal/program"
	"github.com/2beens/programtracker/internal/progress"
	"github.com/2beens/programtracker/internal/schedule"
	"github.com/2beens/programtracker/internal/workout"
	"github.com/2beens/programtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=tracker

type trackerService interface {
	Program() *program.Program
	Enroll(ctx context.Context, userID, programID string, startDate *time.Time) (progress.Enrollment, bool, error)
	Schedule(ctx context.Context, userID, programID string) (ScheduleView, error)
	Day(ctx context.Context, userID, programID string, week, day int) (DayView, error)
	ToggleExercise(ctx context.Context, userID, programID string, week, day int, exerciseID string) (DayView, error)
	BatchComplete(ctx context.Context, userID, programID string, week, day int, exerciseIDs []string, completed bool) (DayView, error)
	UpdateNotes(ctx context.Context, userID, programID string, week, day int, notes string) (DayView, error)
	SetStartDate(ctx context.Context, userID, programID string, date time.Time) (ScheduleView, error)
	SetViewMode(ctx context.Context, userID, programID string, mode workout.ViewMode) (ScheduleView, error)
	SetExpandedWorkout(ctx context.Context, userID, programID string, workoutID *string) (ScheduleView, error)
	ClearSchedule(ctx context.Context, userID, programID string) (ScheduleView, error)
	CloseSession(ctx context.Context, userID, programID string) error
}

type EnrollRequest struct {
	StartDate string `json:"startDate,omitempty"`
}

type EnrollResponse struct {
	Enrollment progress.Enrollment `json:"enrollment"`
	Created    bool                `json:"created"`
}

type BatchCompleteRequest struct {
	ExerciseIDs []string `json:"exerciseIds"`
	Completed   bool     `json:"completed"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type StartDateRequest struct {
	StartDate string `json:"startDate"`
}

type ViewModeRequest struct {
	ViewMode string `json:"viewMode"`
}

type ExpandedRequest struct {
	WorkoutID *string `json:"workoutId"`
}

type Handler struct {
	service trackerService
}

func NewHandler(service trackerService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the tracker routes on r. Mutating routes are
// wrapped in limit (e.g. the rate limiter), a nil limit leaves them as is.
func (handler *Handler) SetupRoutes(r *mux.Router, limit mux.MiddlewareFunc) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	mutation := func(h http.HandlerFunc) http.Handler {
		return limit(h)
	}

	r.HandleFunc("/program", handler.HandleGetProgram).Methods("GET", "OPTIONS").Name("get-program")

	const base = "/users/{userId}/programs/{programId}"
	const dayPath = base + "/weeks/{week:[0-9]+}/days/{day:[0-9]+}"

	r.HandleFunc(base+"/schedule", handler.HandleGetSchedule).Methods("GET", "OPTIONS").Name("get-schedule")
	r.HandleFunc(dayPath, handler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day")

	r.Handle(base+"/enroll", mutation(handler.HandleEnroll)).Methods("POST", "OPTIONS").Name("enroll")
	r.Handle(dayPath+"/exercises/batch", mutation(handler.HandleBatchComplete)).Methods("POST", "OPTIONS").Name("batch-complete")
	r.Handle(dayPath+"/exercises/{exerciseId}/toggle", mutation(handler.HandleToggleExercise)).Methods("POST", "OPTIONS").Name("toggle-exercise")
	r.Handle(dayPath+"/notes", mutation(handler.HandleUpdateNotes)).Methods("PUT", "OPTIONS").Name("update-notes")
	r.Handle(base+"/start-date", mutation(handler.HandleSetStartDate)).Methods("PUT", "OPTIONS").Name("set-start-date")
	r.Handle(base+"/view-mode", mutation(handler.HandleSetViewMode)).Methods("PUT", "OPTIONS").Name("set-view-mode")
	r.Handle(base+"/expanded", mutation(handler.HandleSetExpanded)).Methods("PUT", "OPTIONS").Name("set-expanded")
	r.Handle(base+"/schedule", mutation(handler.HandleClearSchedule)).Methods("DELETE", "OPTIONS").Name("clear-schedule")
	r.Handle(base+"/session", mutation(handler.HandleCloseSession)).Methods("DELETE", "OPTIONS").Name("close-session")
}

func (handler *Handler) HandleGetProgram(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, handler.service.Program(), http.StatusOK)
}

func (handler *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)

	var req EnrollRequest
	if err := decodeBody(r, &req, true); err != nil {
		http.Error(w, "invalid enroll request", http.StatusBadRequest)
		return
	}

	var startDate *time.Time
	if req.StartDate != "" {
		date, err := schedule.ParseDate(req.StartDate)
		if err != nil {
			http.Error(w, "invalid start date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		startDate = &date
	}

	enrollment, created, err := handler.service.Enroll(r.Context(), userID, programID, startDate)
	if err != nil {
		writeError(w, "enroll", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	pkg.WriteJSON(w, EnrollResponse{Enrollment: enrollment, Created: created}, status)
}

func (handler *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	view, err := handler.service.Schedule(r.Context(), userID, programID)
	if err != nil {
		writeError(w, "get schedule", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	week, day, err := dayVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := handler.service.Day(r.Context(), userID, programID, week, day)
	if err != nil {
		writeError(w, "get day", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleToggleExercise(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	week, day, err := dayVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	exerciseID := mux.Vars(r)["exerciseId"]

	view, err := handler.service.ToggleExercise(r.Context(), userID, programID, week, day, exerciseID)
	if err != nil {
		writeError(w, "toggle exercise", err)
		return
	}
	// saved behind the response
	pkg.WriteJSON(w, view, http.StatusAccepted)
}

func (handler *Handler) HandleBatchComplete(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	week, day, err := dayVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req BatchCompleteRequest
	if err := decodeBody(r, &req, false); err != nil {
		http.Error(w, "invalid batch request", http.StatusBadRequest)
		return
	}
	if len(req.ExerciseIDs) == 0 {
		http.Error(w, "error, exercise ids empty", http.StatusBadRequest)
		return
	}

	view, err := handler.service.BatchComplete(r.Context(), userID, programID, week, day, req.ExerciseIDs, req.Completed)
	if err != nil {
		writeError(w, "batch complete", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusAccepted)
}

func (handler *Handler) HandleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	week, day, err := dayVars(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req NotesRequest
	if err := decodeBody(r, &req, false); err != nil {
		http.Error(w, "invalid notes request", http.StatusBadRequest)
		return
	}

	view, err := handler.service.UpdateNotes(r.Context(), userID, programID, week, day, req.Notes)
	if err != nil {
		writeError(w, "update notes", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusAccepted)
}

func (handler *Handler) HandleSetStartDate(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)

	var req StartDateRequest
	if err := decodeBody(r, &req, false); err != nil {
		http.Error(w, "invalid start date request", http.StatusBadRequest)
		return
	}
	date, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		http.Error(w, "invalid start date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	view, err := handler.service.SetStartDate(r.Context(), userID, programID, date)
	if err != nil {
		writeError(w, "set start date", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleSetViewMode(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)

	var req ViewModeRequest
	if err := decodeBody(r, &req, false); err != nil {
		http.Error(w, "invalid view mode request", http.StatusBadRequest)
		return
	}
	mode, err := workout.ParseViewMode(req.ViewMode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := handler.service.SetViewMode(r.Context(), userID, programID, mode)
	if err != nil {
		writeError(w, "set view mode", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleSetExpanded(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)

	var req ExpandedRequest
	if err := decodeBody(r, &req, false); err != nil {
		http.Error(w, "invalid expanded request", http.StatusBadRequest)
		return
	}

	view, err := handler.service.SetExpandedWorkout(r.Context(), userID, programID, req.WorkoutID)
	if err != nil {
		writeError(w, "set expanded", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleClearSchedule(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	view, err := handler.service.ClearSchedule(r.Context(), userID, programID)
	if err != nil {
		writeError(w, "clear schedule", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	userID, programID := runVars(r)
	if err := handler.service.CloseSession(r.Context(), userID, programID); err != nil {
		writeError(w, "close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func runVars(r *http.Request) (userID, programID string) {
	vars := mux.Vars(r)
	return vars["userId"], vars["programId"]
}

func dayVars(r *http.Request) (week, day int, err error) {
	vars := mux.Vars(r)
	week, err = strconv.Atoi(vars["week"])
	if err != nil {
		return 0, 0, errors.New("error, week NaN")
	}
	day, err = strconv.Atoi(vars["day"])
	if err != nil {
		return 0, 0, errors.New("error, day NaN")
	}
	return week, day, nil
}

func decodeBody(r *http.Request, target any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		log.Tracef("decode [%s] body: %s", r.URL.Path, err)
	}
	return err
}

func writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrProgramNotFound),
		errors.Is(err, ErrNotEnrolled),
		errors.Is(err, ErrDayNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, workout.ErrDayNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnknownExercise),
		errors.Is(err, workout.ErrUnknownViewMode):
		status = http.StatusBadRequest
	case errors.Is(err, ErrServiceClosed),
		errors.Is(err, workout.ErrSyncerClosed):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
		http.Error(w, fmt.Sprintf("%s failed", op), status)
		return
	}
	log.Tracef("%s: %s", op, err)
	http.Error(w, fmt.Sprintf("%s: %s", op, err), status)
}
