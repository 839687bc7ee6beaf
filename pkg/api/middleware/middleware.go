package middleware

import (
	"net/http"
	"time"

	"github.com/cbodonnell/monopoly/pkg/log"
	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewLoggingMiddleware logs every request at debug level, and failed ones
// at warn level.
func NewLoggingMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				log.Warn("%s %s returned %d in %s", r.Method, r.URL.Path, rec.status, time.Since(start))
				return
			}
			log.Debug("%s %s returned %d in %s", r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}

// NewMethodMiddleware rejects everything but GET, HEAD and OPTIONS, since
// the API never changes the match.
func NewMethodMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		})
	}
}
