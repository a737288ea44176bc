package tracker

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mileusna/useragent"

	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/logger"
)

// Middleware tracks a page view for every GET request from a non-bot client.
//
// A tracker bound to the request cookies is created per request and stored in
// the context (see FromContext) so handlers can add events or goals. The page
// view is composed before the handler runs, so the first-party cookies reach
// the response, and sent after it returns without blocking the response.
// The page title is the request path.
func Middleware(cfg Config, opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || isBot(r.UserAgent()) {
				next.ServeHTTP(w, r)
				return
			}

			store := cookie.NewHTTPStore(w, r)
			trackerOpts := append([]Option{WithCookieStore(store)}, opts...)
			trackerOpts = append(trackerOpts, WithRequest(r))

			t, err := NewFromConfig(cfg, trackerOpts...)
			if err != nil {
				slog.Default().ErrorContext(r.Context(), "tracker middleware misconfigured",
					logger.Component("piwik.middleware"), logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			pageView := t.PageViewURL(r.URL.Path)

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), t)))

			// the handler is done with t, so the send may run on its own
			ctx := context.WithoutCancel(r.Context())
			go func() {
				_, _ = t.SendURL(ctx, pageView)
			}()
		})
	}
}

func isBot(ua string) bool {
	if ua == "" {
		return true
	}
	return useragent.Parse(ua).Bot
}
