package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/piwik/pkg/logger"
	"github.com/dmitrymomot/piwik/pkg/metrics"
	"github.com/dmitrymomot/piwik/pkg/transport"
)

type bulkPayload struct {
	Requests  []string `json:"requests"`
	TokenAuth string   `json:"token_auth,omitempty"`
}

// EnableBulkTracking makes Track* calls queue their requests until Flush.
// token_auth is then sent once in the bulk body instead of in every URL.
func (t *Tracker) EnableBulkTracking() { t.bulk = true }

// StoredTrackingActions returns a copy of the queued requests.
func (t *Tracker) StoredTrackingActions() []string {
	return slices.Clone(t.queue)
}

func (t *Tracker) enqueue(c composed) {
	entry := c.url
	if t.userAgent != "" {
		entry += "&ua=" + PercentEncode(t.userAgent)
	}
	if t.language != "" {
		entry += "&lang=" + PercentEncode(t.language)
	}
	t.queue = append(t.queue, entry)
	t.commit(c)

	t.metrics.SetQueueSize(len(t.queue))
	t.log.Debug("tracking request queued", logger.Kind(c.kind), logger.QueueSize(len(t.queue)))
}

// Flush posts every queued request in one bulk call. The queue is emptied once
// the collector answered or the call failed for a reason other than a timeout.
// Flushing an empty queue returns ErrInvalidOperation.
func (t *Tracker) Flush(ctx context.Context) (*Response, error) {
	if len(t.queue) == 0 {
		return nil, fmt.Errorf("%w: bulk queue is empty", ErrInvalidOperation)
	}

	payload := bulkPayload{Requests: t.queue, TokenAuth: t.tokenAuth}
	res, err := t.send(ctx, metrics.KindBulk, transport.Request{URL: t.baseURL}, payload)
	if err != nil && errors.Is(err, ErrTimeout) {
		return nil, err
	}

	flushed := len(t.queue)
	t.queue = nil
	t.metrics.SetQueueSize(0)
	if err != nil {
		return nil, err
	}

	t.log.DebugContext(ctx, "bulk queue flushed", logger.QueueSize(flushed))
	return res, nil
}
