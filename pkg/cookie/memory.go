package cookie

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore keeps cookies in process memory and honours expiry.
// It stands in for a browser jar in tests and batch jobs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(name string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return "", ErrCookieNotFound
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.Delete(name)
		return "", ErrCookieNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Set(name, value string, opts ...Option) error {
	if name == "" {
		return ErrInvalidName
	}

	now := s.now()
	ttl := applyOptions(Options{}, opts).TTL(now)
	if ttl < 0 {
		s.Delete(name)
		return nil
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}

	s.mu.Lock()
	s.entries[name] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.mu.Unlock()
}

// Len reports the number of stored cookies, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
