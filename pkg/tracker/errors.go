package tracker

import (
	"errors"

	"github.com/dmitrymomot/piwik/pkg/transport"
)

var (
	// ErrInvalidArgument is returned by validation before any state changes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidOperation is returned when an operation does not apply to the
	// current state, such as flushing an empty bulk queue.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrTransport = transport.ErrTransport
	// ErrTimeout means the collector did not answer in time. Nothing was
	// committed, so the same call can be reissued.
	ErrTimeout = transport.ErrTimeout
)
