package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Request describes a single call to the collector.
type Request struct {
	Method         string
	URL            string
	UserAgent      string
	AcceptLanguage string
	// Body is sent as application/json when non-empty.
	Body    []byte
	Timeout time.Duration
}

// Result carries what the tracker observes from a response.
type Result struct {
	StatusCode int
	// URL is the final requested URL after redirects.
	URL      string
	Duration time.Duration
}

// ResultHook is called after every request attempt.
type ResultHook func(req Request, res Result, err error)

// Sender performs collector requests. It never retries and never interprets
// the response body. Zero value is not usable; use NewSender.
type Sender struct {
	// client is reused across requests for connection pooling
	client           *http.Client
	defaultTimeout   time.Duration
	defaultUserAgent string
	onResult         ResultHook
}

// NewSender creates a sender backed by a pooled client from go-cleanhttp.
func NewSender(opts ...Option) *Sender {
	s := &Sender{
		client:           cleanhttp.DefaultPooledClient(),
		defaultTimeout:   DefaultTimeout,
		defaultUserAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Do sends req and reports the status code, the final URL and the elapsed time.
// Non-2xx statuses are returned as a Result, not as an error.
func (s *Sender) Do(ctx context.Context, req Request) (Result, error) {
	res, err := s.do(ctx, req)
	if s.onResult != nil {
		s.onResult(req, res, err)
	}
	return res, err
}

// PostJSON encodes data as the body of req and sends it as a POST.
// HTML characters are not escaped, so query strings inside the payload stay
// byte-identical.
func (s *Sender) PostJSON(ctx context.Context, req Request, data any) (Result, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	req.Method = http.MethodPost
	req.Body = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return s.Do(ctx, req)
}

func (s *Sender) do(ctx context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	start := time.Now()
	result := Result{URL: req.URL}

	// Layer timeout on top of parent context to respect both constraints
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, req.URL, body)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	ua := req.UserAgent
	if ua == "" {
		ua = s.defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	if req.AcceptLanguage != "" {
		httpReq.Header.Set("Accept-Language", req.AcceptLanguage)
	}

	resp, err := s.client.Do(httpReq)
	result.Duration = time.Since(start)
	if err != nil {
		if isTimeout(reqCtx, err) {
			return result, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
		}
		return result, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain a bounded amount so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	result.StatusCode = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		result.URL = resp.Request.URL.String()
	}

	return result, nil
}

func validate(req Request) error {
	switch req.Method {
	case http.MethodGet, http.MethodPost:
	default:
		return fmt.Errorf("%w: method %q", ErrUnsupportedMethod, req.Method)
	}

	if req.URL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return nil
}

func isTimeout(reqCtx context.Context, err error) bool {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
