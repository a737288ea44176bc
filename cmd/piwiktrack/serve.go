package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/piwik/pkg/httpserver"
	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/metrics"
	"github.com/dmitrymomot/piwik/pkg/redis"
	"github.com/dmitrymomot/piwik/pkg/tracker"
	"github.com/dmitrymomot/piwik/pkg/transport"
)

// serve runs a small site whose GET pages are tracked server side. Cookies
// live in the browser; a configured Redis store is only health checked.
func serve(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPrometheus(reg, cfg.MetricsNamespace)
	if err != nil {
		return err
	}

	checks, closeChecks, err := readinessChecks(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeChecks()

	handler := newSiteHandler(cfg.Tracker, log, reg, checks,
		tracker.WithLogger(log),
		tracker.WithMetrics(rec),
		tracker.WithSender(transport.NewSender()),
	)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, handler)
}

// readinessChecks reports the shared cookie backend on /healthz when it is
// Redis, so a site and the CLI feeding the same visitors fail together.
func readinessChecks(ctx context.Context, cfg appConfig) ([]httpserver.Check, func(), error) {
	if strings.ToLower(cfg.CookieStore) != storeRedis || cfg.Tracker.DisableCookies {
		return nil, func() {}, nil
	}
	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, func() {}, err
	}
	check := httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client, cfg.Redis.ConnectTimeout)}
	return []httpserver.Check{check}, func() { _ = client.Close() }, nil
}

func newSiteHandler(cfg tracker.Config, log *slog.Logger, gatherer prometheus.Gatherer, checks []httpserver.Check, opts ...tracker.Option) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log, checks...))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(tracker.Middleware(cfg, opts...))

		r.Get("/download/{file}", func(w http.ResponseWriter, r *http.Request) {
			if tr, ok := tracker.FromContext(r.Context()); ok {
				ev := tracker.Event{Category: "Download", Action: "click", Name: chi.URLParam(r, "file")}
				if u, err := tr.EventURL(ev); err == nil {
					go sendDetached(r.Context(), tr, u, log)
				}
			}
			fmt.Fprintf(w, "downloading %s\n", chi.URLParam(r, "file"))
		})
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "tracked %s\n", r.URL.Path)
		})
	})

	return r
}

func sendDetached(ctx context.Context, tr *tracker.Tracker, u string, log *slog.Logger) {
	if _, err := tr.SendURL(context.WithoutCancel(ctx), u); err != nil {
		log.Warn("event delivery failed", logger.Error(err))
	}
}
