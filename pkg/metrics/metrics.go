package metrics

import "time"

// Request kinds reported by the tracker.
const (
	KindSingle = "single"
	KindBulk   = "bulk"
)

// Recorder receives tracker observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ObserveRequest records a completed collector call. status is 0 when no
	// response was received.
	ObserveRequest(kind string, status int, d time.Duration)
	// ObserveFailure records a transport failure; reason is "timeout" or "transport".
	ObserveFailure(kind, reason string)
	// SetQueueSize reports the number of queued bulk requests.
	SetQueueSize(n int)
}

// Noop discards everything.
type Noop struct{}

func (Noop) ObserveRequest(string, int, time.Duration) {}
func (Noop) ObserveFailure(string, string)             {}
func (Noop) SetQueueSize(int)                          {}
