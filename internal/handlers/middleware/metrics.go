package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bakikhata/bakikhata/internal/metrics"
)

type metricsWriter struct {
	http.ResponseWriter
	status int
}

func (w *metricsWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.status = statusCode
}

func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			mw := &metricsWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(mw, r)

			metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(mw.status)).Inc()
			metrics.HTTPDuration.Observe(time.Since(start).Seconds())
		})
	}
}
