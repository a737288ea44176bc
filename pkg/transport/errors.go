package transport

import "errors"

// Configuration errors fail before any I/O; ErrTimeout and ErrTransport come
// from the network and are surfaced to the caller unchanged.
var (
	ErrInvalidURL        = errors.New("invalid collector URL")
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrInvalidPayload    = errors.New("invalid request payload")
	ErrTimeout           = errors.New("collector request timeout")
	ErrTransport         = errors.New("collector request failed")
)
