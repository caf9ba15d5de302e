package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/programtracker/internal/telemetry/metrics"
	"github.com/2beens/programtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// PanicRecovery turns a handler panic into a 500. The session of the user
// stays open, a panic in one request does not take down others.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				routeName := "unknown"
				if route := mux.CurrentRoute(req); route != nil && route.GetName() != "" {
					routeName = route.GetName()
				}
				log.WithFields(log.Fields{
					"route":   routeName,
					"user-id": mux.Vars(req)["userId"],
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
