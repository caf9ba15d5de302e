package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes is plenty for the tracker's JSON bodies; a batch of
// every exercise of a day is a few KB.
const DefaultMaxBodyBytes = 64 << 10

// LimitAndDrainBody caps the request body at maxBytes and drains what the
// handler left unread, so keep-alive connections can be reused.
func LimitAndDrainBody(maxBytes int64) func(next http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
