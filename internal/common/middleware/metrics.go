package middleware

import (
	"net/http"
	"time"

	"github.com/central-university-dev/homework-bot/internal/common/metrics"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware считает запросы к известным эндпоинтам. Остальные пути пишутся как "other".
type MetricsMiddleware struct {
	paths map[string]struct{}
}

func NewMetricsMiddleware(paths ...string) *MetricsMiddleware {
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}

	return &MetricsMiddleware{paths: known}
}

func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(r.Method, m.pathLabel(r.URL.Path), rw.statusCode, time.Since(start))
	})
}

func (m *MetricsMiddleware) pathLabel(path string) string {
	if _, ok := m.paths[path]; ok {
		return path
	}

	return "other"
}
