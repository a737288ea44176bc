package tracker_test

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/tracker"
	"github.com/dmitrymomot/piwik/pkg/trackertest"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newTracker builds a cookie-less tracker for site 1 with a fixed clock.
func newTracker(t *testing.T, opts ...tracker.Option) *tracker.Tracker {
	t.Helper()
	base := []tracker.Option{tracker.WithClock(fixedClock), tracker.WithoutCookies()}
	tr, err := tracker.New(1, "http://stats.example.org", append(base, opts...)...)
	require.NoError(t, err)
	return tr
}

// newCollector starts a fake collector and a tracker reporting to it.
func newCollector(t *testing.T, opts ...tracker.Option) (*trackertest.Collector, *tracker.Tracker) {
	t.Helper()
	c := trackertest.New()
	t.Cleanup(c.Close)

	base := []tracker.Option{tracker.WithClock(fixedClock), tracker.WithoutCookies()}
	tr, err := tracker.New(1, c.URL(), append(base, opts...)...)
	require.NoError(t, err)
	return c, tr
}

func query(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

type recorder struct {
	mu       sync.Mutex
	requests []string
	failures []string
	queue    int
}

func (r *recorder) ObserveRequest(kind string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, kind)
}

func (r *recorder) ObserveFailure(kind, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, kind+":"+reason)
}

func (r *recorder) SetQueueSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = n
}
