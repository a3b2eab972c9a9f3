package middleware

import (
	"MyVault/internal/metrics"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// WithMetrics учитывает запрос в Prometheus. Метка route — шаблон маршрута chi,
// чтобы id в пути не раздували число рядов.
func WithMetrics(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rd := &responseData{status: http.StatusOK}
		h.ServeHTTP(&loggingResponseWriter{ResponseWriter: w, responseData: rd}, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.RecordRequest(r.Method, route, strconv.Itoa(rd.status), time.Since(start).Seconds())
	})
}
