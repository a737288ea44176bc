// Package cookie defines the cookie capability used by the Piwik tracker and
// ships two implementations of it.
//
// # Overview
//
// The tracker never touches net/http cookies directly. It depends on the small
// `Store` interface:
//
//	type Store interface {
//	    Get(name string) (string, error)
//	    Set(name, value string, opts ...Option) error
//	}
//
// Implementations in this package:
//
//   • HTTPStore – reads the incoming request, writes Set-Cookie headers
//   • MemoryStore – an in-process jar with expiry, useful for tests and jobs
//
// pkg/redis and pkg/badger provide persistent stores with the same contract.
//
// # Usage
//
//	import "github.com/dmitrymomot/piwik/pkg/cookie"
//
//	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    store := cookie.NewHTTPStore(w, r, cookie.WithSecure(true))
//	    _ = store.Set("_pk_ses.1.1fff", "*", cookie.WithMaxAge(1800))
//	})
//
// # Configuration
//
// `Config` can be populated from environment variables via
// github.com/caarlos0/env. Only non-zero fields are applied.
//
//	cfg := cookie.DefaultConfig()
//	_ = env.Parse(&cfg)
//	store := cookie.NewHTTPStoreFromConfig(cfg, w, r)
//
// # Error Handling
//
// `ErrCookieNotFound` is returned for absent or expired cookies so callers can
// use `errors.Is`.
package cookie
