package badger

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/dmitrymomot/piwik/pkg/cookie"
)

// CookieStore implements cookie.Store with Badger entries whose TTL follows
// the cookie expiry.
type CookieStore struct {
	db        *badger.DB
	namespace string
	now       func() time.Time
}

func newCookieStore(db *badger.DB, namespace string) *CookieStore {
	return &CookieStore{db: db, namespace: namespace, now: time.Now}
}

func (s *CookieStore) key(name string) []byte {
	return []byte("cookie/" + s.namespace + "/" + name)
}

// Get returns cookie.ErrCookieNotFound for absent or expired entries.
func (s *CookieStore) Get(name string) (string, error) {
	if name == "" {
		return "", cookie.ErrInvalidName
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(name))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", cookie.ErrCookieNotFound
	}
	if err != nil {
		return "", errors.Join(ErrCookieStore, err)
	}
	return string(value), nil
}

// Set writes value; a negative TTL deletes the entry, zero stores it without expiry.
func (s *CookieStore) Set(name, value string, opts ...cookie.Option) error {
	if name == "" {
		return cookie.ErrInvalidName
	}

	ttl := cookie.Apply(cookie.Options{}, opts...).TTL(s.now())

	err := s.db.Update(func(txn *badger.Txn) error {
		if ttl < 0 {
			return txn.Delete(s.key(name))
		}
		entry := badger.NewEntry(s.key(name), []byte(value))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return errors.Join(ErrCookieStore, err)
	}
	return nil
}
