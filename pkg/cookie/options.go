package cookie

import (
	"net/http"
	"time"
)

type Options struct {
	Path     string
	Domain   string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithExpires sets an absolute expiry instant.
func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = t
	}
}

func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// TTL returns how long a cookie written with these options lives relative to now.
// Zero means a session cookie without explicit expiry; negative means already expired.
func (o Options) TTL(now time.Time) time.Duration {
	switch {
	case o.MaxAge < 0:
		return -1
	case o.MaxAge > 0:
		return time.Duration(o.MaxAge) * time.Second
	case !o.Expires.IsZero():
		if d := o.Expires.Sub(now); d > 0 {
			return d
		}
		return -1
	}
	return 0
}

func (o Options) expired(now time.Time) bool {
	return o.TTL(now) < 0
}

// Apply returns a copy of base with opts applied.
func Apply(base Options, opts ...Option) Options {
	return applyOptions(base, opts)
}

// applyOptions creates a new Options struct by copying the base options
// and applying the provided option functions. The base options are not modified.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
