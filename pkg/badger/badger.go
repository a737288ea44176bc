package badger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Config holds BadgerDB settings for the local cookie jar.
type Config struct {
	// Path to the database directory. Ignored when InMemory is set.
	Path string `env:"BADGER_PATH" envDefault:".piwik-cookies" yaml:"path"`
	// InMemory keeps everything in RAM, for tests.
	InMemory bool `env:"BADGER_IN_MEMORY" envDefault:"false" yaml:"in_memory"`
	// MemTableSizeMB bounds the memtable; cookie jars are tiny.
	MemTableSizeMB int64 `env:"BADGER_MEMTABLE_MB" envDefault:"8" yaml:"memtable_mb"`
}

// DB is an open cookie database. Close it when done.
type DB struct {
	db *badger.DB
}

// Option configures Open.
type Option func(*badger.Options)

// WithLogger routes badger's own logging to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *badger.Options) {
		if l != nil {
			*o = o.WithLogger(slogAdapter{l: l})
		}
	}
}

// Open opens or creates the database described by cfg.
// Badger logging is disabled unless WithLogger is given.
func Open(cfg Config, opts ...Option) (*DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ErrMissingPath
	}

	bopts := badger.DefaultOptions(cfg.Path).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	if cfg.InMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	if cfg.MemTableSizeMB > 0 {
		size := cfg.MemTableSizeMB << 20
		bopts = bopts.
			WithMemTableSize(size).
			WithBlockCacheSize(size / 2).
			WithIndexCacheSize(size / 4).
			WithValueLogFileSize(64 << 20)
	}
	for _, opt := range opts {
		opt(&bopts)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}
	return &DB{db: db}, nil
}

// Close flushes and closes the database.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("closing badger: %w", err)
	}
	return nil
}

// CookieStore returns a cookie.Store scoped to namespace, typically one
// namespace per tracked visitor.
func (d *DB) CookieStore(namespace string) *CookieStore {
	return newCookieStore(d.db, namespace)
}

type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.l.Error(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.l.Warn(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.l.Debug(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.l.Debug(fmt.Sprintf(format, args...))
}
