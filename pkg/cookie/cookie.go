package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Store is the cookie capability a tracker needs from its host.
// Get returns ErrCookieNotFound when the cookie is absent or expired.
type Store interface {
	Get(name string) (string, error)
	Set(name, value string, opts ...Option) error
}

// HTTPStore reads cookies from an incoming request and writes them to the
// response. Values written during the request are visible to later Get calls,
// so a tracker sees its own updates before the response is flushed.
// Not safe for concurrent use, same as the request it wraps.
type HTTPStore struct {
	w        http.ResponseWriter
	r        *http.Request
	defaults Options
	written  map[string]string
}

// NewHTTPStore creates a store bound to one request/response pair.
// Either side may be nil: a nil request reads nothing, a nil writer drops writes.
func NewHTTPStore(w http.ResponseWriter, r *http.Request, opts ...Option) *HTTPStore {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}

	return &HTTPStore{
		w:        w,
		r:        r,
		defaults: applyOptions(defaults, opts),
		written:  make(map[string]string),
	}
}

func (s *HTTPStore) Get(name string) (string, error) {
	if v, ok := s.written[name]; ok {
		if v == "" {
			return "", ErrCookieNotFound
		}
		return v, nil
	}

	if s.r == nil {
		return "", ErrCookieNotFound
	}

	c, err := s.r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

func (s *HTTPStore) Set(name, value string, opts ...Option) error {
	if name == "" {
		return ErrInvalidName
	}

	options := applyOptions(s.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
	if !options.Expires.IsZero() {
		c.Expires = options.Expires.UTC()
	}

	if options.expired(time.Now()) {
		s.written[name] = ""
	} else {
		s.written[name] = value
	}

	if s.w != nil {
		http.SetCookie(s.w, c)
	}
	return nil
}

// Delete expires the cookie on the client.
func (s *HTTPStore) Delete(name string) {
	_ = s.Set(name, "", WithMaxAge(-1), WithExpires(time.Unix(0, 0)))
}
