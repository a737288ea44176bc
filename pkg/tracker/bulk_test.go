package tracker_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/tracker"
)

func TestBulk_QueueAndFlush(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	c, tr := newCollector(t,
		tracker.WithTokenAuth("secret-token"),
		tracker.WithUserAgent("bulk agent"),
		tracker.WithMetrics(rec),
	)
	tr.EnableBulkTracking()
	ctx := context.Background()

	for i := range 20 {
		res, err := tr.TrackPageView(ctx, "page "+strconv.Itoa(i))
		require.NoError(t, err)
		assert.Nil(t, res)
	}

	queued := tr.StoredTrackingActions()
	require.Len(t, queued, 20)
	assert.Empty(t, c.Hits(), "nothing is sent before Flush")
	assert.Equal(t, 20, rec.queue)
	for _, entry := range queued {
		assert.NotContains(t, entry, "token_auth")
		assert.Contains(t, entry, "&ua=bulk%20agent")
	}

	res, err := tr.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, tr.StoredTrackingActions())
	assert.Equal(t, 0, rec.queue)

	hits := c.Hits()
	require.Len(t, hits, 1)
	assert.Equal(t, http.MethodPost, hits[0].Method)
	assert.Equal(t, "application/json", hits[0].Header.Get("Content-Type"))

	payload, err := hits[0].Bulk()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", payload.TokenAuth)
	require.Len(t, payload.Requests, 20)
	for i, entry := range payload.Requests {
		assert.Contains(t, entry, "&action_name=page%20"+strconv.Itoa(i)+"&", "call order is kept")
	}
	assert.Equal(t, queued, payload.Requests)
}

func TestBulk_WithoutToken(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t, tracker.WithBulkTracking())

	_, err := tr.TrackPageView(context.Background(), "x")
	require.NoError(t, err)
	_, err = tr.Flush(context.Background())
	require.NoError(t, err)

	hit, ok := c.Last()
	require.True(t, ok)
	assert.NotContains(t, string(hit.Body), "token_auth")
	assert.True(t, strings.Contains(string(hit.Body), "&rec=1"), "ampersands are not HTML-escaped")
	assert.NotContains(t, string(hit.Body), `\u0026`)
}

func TestBulk_FlushEmptyQueue(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t, tracker.WithBulkTracking())

	_, err := tr.Flush(context.Background())
	assert.ErrorIs(t, err, tracker.ErrInvalidOperation)
	assert.Empty(t, c.Hits())
}

func TestBulk_TimeoutKeepsQueue(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t, tracker.WithBulkTracking(), tracker.WithRequestTimeout(50*time.Millisecond))

	_, err := tr.TrackPageView(context.Background(), "x")
	require.NoError(t, err)

	c.SetDelay(2 * time.Second)
	_, err = tr.Flush(context.Background())
	require.ErrorIs(t, err, tracker.ErrTimeout)
	assert.Len(t, tr.StoredTrackingActions(), 1)

	c.SetDelay(0)
	_, err = tr.Flush(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tr.StoredTrackingActions())
}

func TestBulk_TransportErrorDropsQueue(t *testing.T) {
	t.Parallel()
	c, tr := newCollector(t, tracker.WithBulkTracking())
	c.Close()

	_, err := tr.TrackPageView(context.Background(), "x")
	require.NoError(t, err)

	_, err = tr.Flush(context.Background())
	require.ErrorIs(t, err, tracker.ErrTransport)
	assert.Empty(t, tr.StoredTrackingActions())
}

func TestBulk_EnqueueCommits(t *testing.T) {
	t.Parallel()
	_, tr := newCollector(t, tracker.WithBulkTracking())
	ctx := context.Background()

	require.NoError(t, tr.SetCustomVariable(1, "a", "b", tracker.ScopePage))
	require.NoError(t, tr.AddEcommerceItem(tracker.EcommerceItem{SKU: "S", Price: 1}))
	_, err := tr.TrackEcommerceCartUpdate(ctx, 1)
	require.NoError(t, err)
	_, err = tr.TrackEcommerceCartUpdate(ctx, 1)
	require.NoError(t, err)

	queued := tr.StoredTrackingActions()
	require.Len(t, queued, 2)
	assert.Contains(t, queued[0], "&cvar=")
	assert.Contains(t, queued[0], "&ec_items=")
	assert.NotContains(t, queued[1], "&cvar=")
	assert.NotContains(t, queued[1], "&ec_items=")
}
