package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/piwik/pkg/logger"
)

// Check is a named readiness dependency, e.g. the Redis cookie store.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthCheckHandler answers "ALIVE" without checks. With checks it answers
// "READY", or 503 "NOT_READY" as soon as one of them fails.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		_, _ = w.Write([]byte("READY"))
	}
}
