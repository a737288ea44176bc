package tracker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/clientip"
	"github.com/dmitrymomot/piwik/pkg/cookie"
	"github.com/dmitrymomot/piwik/pkg/tracker"
	"github.com/dmitrymomot/piwik/pkg/trackertest"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "https://www.example.org/shop?item=1", nil)
	r.Header.Set("Referer", "https://search.example/?q=shoes")
	r.Header.Set("User-Agent", "Mozilla/5.0 test")
	r.Header.Set("Accept-Language", "en-us;q=0.5,fr")
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	tr := newTracker(t)
	tr.FromRequest(r)

	q := query(t, tr.PageViewURL(""))
	assert.Equal(t, "https://www.example.org/shop?item=1", q.Get("url"))
	assert.Equal(t, "https://search.example/?q=shoes", q.Get("urlref"))
	assert.Equal(t, "203.0.113.7", q.Get("cip"))
}

func TestFromRequest_ForwardedProtoAndHeaders(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t, tracker.WithIPResolver(clientip.NewResolver()))

	r := httptest.NewRequest(http.MethodGet, "http://example.org:8080/a", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.Header.Set("User-Agent", "Mozilla/5.0 test")
	r.Header.Set("Accept-Language", "en-us;q=0.5,FR")
	tr.FromRequest(r)

	_, err := tr.TrackPageView(context.Background(), "")
	require.NoError(t, err)

	hit, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "https://example.org:8080/a", hit.Query.Get("url"))
	assert.Equal(t, "192.0.2.1", hit.Query.Get("cip"), "proxy headers are not trusted")
	assert.Equal(t, "Mozilla/5.0 test", hit.Header.Get("User-Agent"))
	assert.Equal(t, "fr,en-US", hit.Header.Get("Accept-Language"))
}

func TestFromRequest_MalformedLanguageIsPassedThrough(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en;q=abc")
	tr.FromRequest(r)

	_, err := tr.Ping(context.Background())
	require.NoError(t, err)
	hit, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "en;q=abc", hit.Header.Get("Accept-Language"))
}

func TestWithRequest_CookieDomainFromHost(t *testing.T) {
	t.Parallel()
	store := cookie.NewMemoryStore()
	r := httptest.NewRequest(http.MethodGet, "http://www.example.org:8080/", nil)

	tr, err := tracker.New(1, "http://stats.example.org", tracker.WithCookieStore(store), tracker.WithRequest(r))
	require.NoError(t, err)
	tr.PageViewURL("")

	_, err = store.Get(cookieName("id", "example.org/"))
	assert.NoError(t, err)

	again, err := tracker.New(1, "http://stats.example.org", tracker.WithCookieStore(store), tracker.WithRequest(r))
	require.NoError(t, err)
	assert.Equal(t, tr.VisitorID(), again.VisitorID())
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := tracker.FromContext(context.Background())
	assert.False(t, ok)

	tr := newTracker(t)
	got, ok := tracker.FromContext(tracker.WithContext(context.Background(), tr))
	require.True(t, ok)
	assert.Same(t, tr, got)
}

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestMiddleware(t *testing.T) {
	t.Parallel()
	c := trackertest.New()
	t.Cleanup(c.Close)

	var fromHandler *tracker.Tracker
	handler := tracker.Middleware(tracker.Config{SiteID: 3, URL: c.URL()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromHandler, _ = tracker.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "http://www.example.org/products?page=2", nil)
	r.Header.Set("User-Agent", chromeUA)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, fromHandler)
	assert.Equal(t, 3, fromHandler.SiteID())

	var names []string
	for _, ck := range w.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, "_pk_id.3."+tracker.SHA1Hex([]byte("example.org/"))[:4])
	assert.Contains(t, names, "_pk_ses.3."+tracker.SHA1Hex([]byte("example.org/"))[:4])

	require.Eventually(t, func() bool { return len(c.Hits()) == 1 }, time.Second, 10*time.Millisecond)
	hit, _ := c.Last()
	assert.Equal(t, "3", hit.Query.Get("idsite"))
	assert.Equal(t, "/products", hit.Query.Get("action_name"))
	assert.Equal(t, "http://www.example.org/products?page=2", hit.Query.Get("url"))
	assert.Equal(t, chromeUA, hit.Header.Get("User-Agent"))
}

func TestMiddleware_Skips(t *testing.T) {
	t.Parallel()
	c := trackertest.New()
	t.Cleanup(c.Close)

	calls := 0
	handler := tracker.Middleware(tracker.Config{SiteID: 1, URL: c.URL()})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, ok := tracker.FromContext(r.Context())
			assert.False(t, ok)
		}),
	)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/form", strings.NewReader("a=1")),
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodGet, "/", nil),
	}
	requests[0].Header.Set("User-Agent", chromeUA)
	requests[2].Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")

	for _, r := range requests {
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}

	assert.Equal(t, 3, calls)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Hits())
}

func TestMiddleware_InvalidConfigPassesThrough(t *testing.T) {
	t.Parallel()

	called := false
	handler := tracker.Middleware(tracker.Config{SiteID: 1})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", chromeUA)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, called)
}
