package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the Server.
type Option func(*config)

// WithAddr sets the listen address. Panics on an empty address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return func(c *config) { c.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.shutdownTimeout = d
		}
	}
}

// WithLogger logs the server lifecycle to l. Without it nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnStart registers fn to run once the listener is bound.
func WithOnStart(fn func(addr string)) Option {
	return func(c *config) {
		if fn != nil {
			c.onStart = append(c.onStart, fn)
		}
	}
}

// WithOnStop registers fn to run after a graceful shutdown, e.g. to flush a
// bulk tracker or close a cookie database.
func WithOnStop(fn func()) Option {
	return func(c *config) {
		if fn != nil {
			c.onStop = append(c.onStop, fn)
		}
	}
}
