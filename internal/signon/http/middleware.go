package http

import (
	"net/http"
	"time"

	"github.com/oakheart/signon/internal/signon/metrics"
	"github.com/oakheart/signon/pkg/httpx"
)

// MetricsMiddleware records response status codes and request latency. With
// a nil collector it is a pass-through.
func MetricsMiddleware(collector *metrics.Collector) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			collector.RecordHTTPStatus(rw.status)
			collector.RecordHTTPLatency(time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
