package transport

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout applies when neither the request nor the sender sets one.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent when the request carries no visitor user agent.
	DefaultUserAgent = "piwik-go-tracker/1.0"
)

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the pooled client, e.g. for proxies or tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Sender) {
		if timeout > 0 {
			s.defaultTimeout = timeout
		}
	}
}

// WithUserAgent sets the user agent used when a request has none.
func WithUserAgent(ua string) Option {
	return func(s *Sender) {
		if ua != "" {
			s.defaultUserAgent = ua
		}
	}
}

// WithOnResult registers a hook invoked after every request.
// Useful for logging or metrics.
func WithOnResult(hook ResultHook) Option {
	return func(s *Sender) {
		s.onResult = hook
	}
}
