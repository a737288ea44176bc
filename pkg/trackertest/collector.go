package trackertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Hit is one request received by the collector.
type Hit struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// BulkPayload is the JSON body of a bulk POST.
type BulkPayload struct {
	Requests  []string `json:"requests"`
	TokenAuth string   `json:"token_auth,omitempty"`
}

// Bulk decodes the body as a bulk payload.
func (h Hit) Bulk() (BulkPayload, error) {
	var p BulkPayload
	err := json.Unmarshal(h.Body, &p)
	return p, err
}

// Collector is a fake Piwik endpoint serving /piwik.php and /proxy-piwik.php.
// It records every hit and answers with a configurable status and delay.
type Collector struct {
	srv *httptest.Server

	mu     sync.Mutex
	hits   []Hit
	status int
	delay  time.Duration
}

// New starts a collector. Close it when done, e.g. with t.Cleanup.
func New() *Collector {
	c := &Collector{status: http.StatusNoContent}

	r := chi.NewRouter()
	for _, path := range []string{"/piwik.php", "/proxy-piwik.php"} {
		r.Get(path, c.record)
		r.Post(path, c.record)
	}
	r.Get("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/piwik.php?"+r.URL.RawQuery, http.StatusFound)
	})

	c.srv = httptest.NewServer(r)
	return c
}

// URL is the server root, suitable as the tracker collector URL.
func (c *Collector) URL() string { return c.srv.URL }

// Client returns a client bound to the collector.
func (c *Collector) Client() *http.Client { return c.srv.Client() }

func (c *Collector) Close() { c.srv.Close() }

// SetStatus changes the status code of later responses.
func (c *Collector) SetStatus(code int) {
	c.mu.Lock()
	c.status = code
	c.mu.Unlock()
}

// SetDelay holds later responses for d, or until the client gives up.
func (c *Collector) SetDelay(d time.Duration) {
	c.mu.Lock()
	c.delay = d
	c.mu.Unlock()
}

// Hits returns a copy of the recorded hits in arrival order.
func (c *Collector) Hits() []Hit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Hit(nil), c.hits...)
}

// Last returns the most recent hit.
func (c *Collector) Last() (Hit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.hits) == 0 {
		return Hit{}, false
	}
	return c.hits[len(c.hits)-1], true
}

// Reset forgets the recorded hits.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.hits = nil
	c.mu.Unlock()
}

func (c *Collector) record(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	c.mu.Lock()
	c.hits = append(c.hits, Hit{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Query:    r.URL.Query(),
		Header:   r.Header.Clone(),
		Body:     body,
	})
	status, delay := c.status, c.delay
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	w.WriteHeader(status)
}
