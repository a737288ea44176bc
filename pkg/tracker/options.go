package tracker

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/piwik/pkg/clientip"
	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/metrics"
	"github.com/dmitrymomot/piwik/pkg/transport"
)

// Option configures a Tracker at construction.
type Option func(*Tracker)

// WithCookieStore enables first-party cookies through store.
func WithCookieStore(store cookie.Store) Option {
	return func(t *Tracker) { t.cookies = store }
}

// WithoutCookies disables cookie reads and writes.
func WithoutCookies() Option {
	return func(t *Tracker) { t.cookieSupport = false }
}

func WithCookieDomain(domain string) Option {
	return func(t *Tracker) { t.cookieDomain = fixupDomain(domain) }
}

func WithCookiePath(path string) Option {
	return func(t *Tracker) {
		if path != "" {
			t.cookiePath = path
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(t *Tracker) {
		if rec != nil {
			t.metrics = rec
		}
	}
}

// WithSender replaces the HTTP sender, e.g. to share a pool between trackers.
func WithSender(s *transport.Sender) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sender = s
		}
	}
}

// WithHTTPClient builds the sender around client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Tracker) {
		t.sender = transport.NewSender(transport.WithHTTPClient(client))
	}
}

// WithClock overrides the time source for visit timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithURL sets the page URL before cookies are read, so a host-derived
// cookie domain is known from the start.
func WithURL(u string) Option {
	return func(t *Tracker) { t.pageURL = u }
}

// WithRequest initialises page URL, referrer, IP, user agent, language and
// cookie domain from r after all other options. See FromRequest.
func WithRequest(r *http.Request) Option {
	return func(t *Tracker) { t.initRequest = r }
}

// WithIPResolver sets how FromRequest finds the visitor address.
func WithIPResolver(res *clientip.Resolver) Option {
	return func(t *Tracker) {
		if res != nil {
			t.ipResolver = res
		}
	}
}

func WithTokenAuth(token string) Option {
	return func(t *Tracker) { t.tokenAuth = token }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.requestTimeout = d
		}
	}
}

// WithUserAgent sets the visitor user agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(t *Tracker) { t.userAgent = ua }
}

func WithBulkTracking() Option {
	return func(t *Tracker) { t.bulk = true }
}

func WithoutSendImage() Option {
	return func(t *Tracker) { t.sendImage = false }
}
