package badger

import "errors"

var (
	ErrMissingPath = errors.New("badger path is required unless running in memory")
	ErrOpen        = errors.New("failed to open badger database")
	ErrCookieStore = errors.New("badger cookie store operation failed")
)
