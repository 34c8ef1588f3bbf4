package http

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Projection *ProjectionHandler
	Comparison *ComparisonHandler
	Goal       *GoalHandler
}

// NewRouter mounts every endpoint. /projection routes share the rate limiter;
// /healthz does not.
func NewRouter(h Handlers, limiter *RateLimiter, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	limited := func(path string, fn http.HandlerFunc) {
		mux.Handle(path, RateLimitMiddleware(limiter, log, fn))
	}

	limited("/projection/calculate", h.Projection.CalculateProjection)
	limited("/projection/report", h.Projection.Report)
	limited("/projection/shocks", h.Projection.Shocks)
	limited("/projection/history", h.Projection.History)
	limited("/projection/compare", h.Comparison.CompareTiers)
	limited("/projection/goal", h.Goal.RecommendDeposit)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})

	return LoggingMiddleware(log, mux)
}
