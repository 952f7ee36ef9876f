package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/metrics"
)

// ObserveMiddleware logs each request at debug level and, when m is non-nil,
// records it by chi route pattern.
func ObserveMiddleware(m *metrics.Manager) func(http.Handler) http.Handler {
	log := logger.Named("api")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if m != nil {
				m.ObserveHTTP(route, status, elapsed)
			}
			log.Debug(r.Context(), "request",
				logger.String("method", r.Method),
				logger.String("route", route),
				logger.Int("status", status),
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.Float64("ms", float64(elapsed.Microseconds())/1000.0))
		})
	}
}
