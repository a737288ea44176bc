package cookie

import "net/http"

// Config holds the attributes applied to cookies written by an HTTPStore.
// HttpOnly defaults to false so the JavaScript tracker can read the same cookies.
type Config struct {
	Path     string        `env:"COOKIE_PATH" envDefault:"/" yaml:"path"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:"" yaml:"domain"`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false" yaml:"secure"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"false" yaml:"http_only"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2" yaml:"same_site"` // 2 = SameSiteLaxMode
}

// DefaultConfig returns default cookie configuration
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

// Options converts the config into store options.
// Only non-zero values are applied.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 5)

	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.Secure {
		opts = append(opts, WithSecure(c.Secure))
	}
	if c.HttpOnly {
		opts = append(opts, WithHTTPOnly(c.HttpOnly))
	}
	if c.SameSite != 0 {
		opts = append(opts, WithSameSite(c.SameSite))
	}

	return opts
}

// NewHTTPStoreFromConfig creates an HTTPStore using cfg as defaults.
func NewHTTPStoreFromConfig(cfg Config, w http.ResponseWriter, r *http.Request, opts ...Option) *HTTPStore {
	return NewHTTPStore(w, r, append(cfg.Options(), opts...)...)
}
