package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/piwik/pkg/cookie"
)

// CookieStore keeps tracker cookies in Redis for hosts without a browser
// cookie jar, such as workers or the command line sender. Each visitor gets
// its own namespace so several visitors can share one client.
type CookieStore struct {
	db        redis.UniversalClient
	prefix    string
	namespace string
	timeout   time.Duration
	now       func() time.Time
}

// CookieStoreOption configures a CookieStore.
type CookieStoreOption func(*CookieStore)

// WithKeyPrefix overrides the prefix from Config.
func WithKeyPrefix(prefix string) CookieStoreOption {
	return func(s *CookieStore) { s.prefix = prefix }
}

// WithOperationTimeout bounds every Redis call. Default 2s.
func WithOperationTimeout(d time.Duration) CookieStoreOption {
	return func(s *CookieStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewCookieStore creates a store for the visitor identified by namespace.
func NewCookieStore(client redis.UniversalClient, namespace string, opts ...CookieStoreOption) *CookieStore {
	s := &CookieStore{
		db:        client,
		prefix:    "piwik:cookie:",
		namespace: namespace,
		timeout:   2 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCookieStoreWithConfig takes the key prefix from cfg.
func NewCookieStoreWithConfig(client redis.UniversalClient, cfg Config, namespace string, opts ...CookieStoreOption) *CookieStore {
	return NewCookieStore(client, namespace, append([]CookieStoreOption{WithKeyPrefix(cfg.KeyPrefix)}, opts...)...)
}

func (s *CookieStore) key(name string) string {
	return s.prefix + s.namespace + ":" + name
}

// Get returns cookie.ErrCookieNotFound for missing or expired keys.
func (s *CookieStore) Get(name string) (string, error) {
	if name == "" {
		return "", cookie.ErrInvalidName
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.db.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", cookie.ErrCookieNotFound
	}
	if err != nil {
		return "", errors.Join(ErrCookieStore, err)
	}
	return val, nil
}

// Set stores value with the TTL derived from the cookie options. A zero TTL
// (session cookie) is kept without expiry; a negative one deletes the key.
func (s *CookieStore) Set(name, value string, opts ...cookie.Option) error {
	if name == "" {
		return cookie.ErrInvalidName
	}

	ttl := cookie.Apply(cookie.Options{}, opts...).TTL(s.now())

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var err error
	if ttl < 0 {
		err = s.db.Del(ctx, s.key(name)).Err()
	} else {
		err = s.db.Set(ctx, s.key(name), value, ttl).Err()
	}
	if err != nil {
		return errors.Join(ErrCookieStore, err)
	}
	return nil
}
