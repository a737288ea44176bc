package tracker

import "time"

// Config is the environment or file driven tracker setup.
type Config struct {
	SiteID         int           `env:"PIWIK_SITE_ID" yaml:"site_id"`
	URL            string        `env:"PIWIK_URL" yaml:"url"`
	TokenAuth      string        `env:"PIWIK_TOKEN_AUTH" yaml:"token_auth"`
	RequestTimeout time.Duration `env:"PIWIK_REQUEST_TIMEOUT" envDefault:"30s" yaml:"request_timeout"`
	UserAgent      string        `env:"PIWIK_USER_AGENT" yaml:"user_agent"`
	CookieDomain   string        `env:"PIWIK_COOKIE_DOMAIN" yaml:"cookie_domain"`
	CookiePath     string        `env:"PIWIK_COOKIE_PATH" envDefault:"/" yaml:"cookie_path"`
	DisableCookies bool          `env:"PIWIK_DISABLE_COOKIES" yaml:"disable_cookies"`
	BulkTracking   bool          `env:"PIWIK_BULK_TRACKING" yaml:"bulk_tracking"`
	// DisableSendImage adds send_image=0 so the collector answers 204.
	DisableSendImage bool `env:"PIWIK_DISABLE_SEND_IMAGE" yaml:"disable_send_image"`
}

// NewFromConfig creates a tracker from cfg. opts are applied after the
// settings derived from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Tracker, error) {
	base := []Option{
		WithTokenAuth(cfg.TokenAuth),
		WithCookieDomain(cfg.CookieDomain),
		WithCookiePath(cfg.CookiePath),
	}
	if cfg.RequestTimeout > 0 {
		base = append(base, WithRequestTimeout(cfg.RequestTimeout))
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	if cfg.DisableCookies {
		base = append(base, WithoutCookies())
	}
	if cfg.BulkTracking {
		base = append(base, WithBulkTracking())
	}
	if cfg.DisableSendImage {
		base = append(base, WithoutSendImage())
	}
	return New(cfg.SiteID, cfg.URL, append(base, opts...)...)
}
