package middleware

import (
	"net/http"
	"time"

	"github.com/mmvit/garudar/internal/server/metrics"
)

// MetricsMiddleware записывает длительность, статус и inflight для одного маршрута.
// route - шаблон ServeMux, чтобы метки не зависели от значений {id}.
func MetricsMiddleware(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RequestStarted()

			wrapped := wrapResponseWriter(w)
			defer func() {
				m.RequestFinished(r.Method, route, wrapped.statusCode, time.Since(start))
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
