package middleware

import (
	"net/http"
	"time"

	"github.com/bengeek06/pm-users-api/internal/metrics"
)

// Metrics records request counts and latency per response.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			collector.RecordRequest(r.Method, wrapped.status, time.Since(start))
		})
	}
}
