// Package middleware provides HTTP middleware for the cdrflow API.
package middleware

import (
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs the method, path, status, size and duration of every request
// together with its request ID.
func Logger(next http.Handler) http.Handler {
	return LoggerWith(log.Default())(next)
}

// LoggerWith returns a request logger writing to l.
func LoggerWith(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				reqID := chimiddleware.GetReqID(r.Context())
				if reqID == "" {
					reqID = "-"
				}
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				l.Printf("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path,
					status, ww.BytesWritten(), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
