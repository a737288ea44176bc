package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/piwik/pkg/metrics"
)

func TestPrometheus_Records(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()

	rec, err := metrics.NewPrometheus(reg, "piwik")
	require.NoError(t, err)

	rec.ObserveRequest(metrics.KindSingle, 204, 15*time.Millisecond)
	rec.ObserveRequest(metrics.KindSingle, 204, 5*time.Millisecond)
	rec.ObserveRequest(metrics.KindBulk, 200, time.Second)
	rec.ObserveFailure(metrics.KindSingle, "timeout")
	rec.SetQueueSize(20)

	count, err := testutil.GatherAndCount(reg, "piwik_tracker_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per kind/status pair")

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, values["piwik_tracker_requests_total"])
	assert.Equal(t, 1.0, values["piwik_tracker_failures_total"])
	assert.Equal(t, 20.0, values["piwik_tracker_bulk_queue_size"])
}

func TestPrometheus_ReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()

	first, err := metrics.NewPrometheus(reg, "piwik")
	require.NoError(t, err)
	second, err := metrics.NewPrometheus(reg, "piwik")
	require.NoError(t, err)

	first.ObserveFailure(metrics.KindBulk, "transport")
	second.ObserveFailure(metrics.KindBulk, "transport")

	count, err := testutil.GatherAndCount(reg, "piwik_tracker_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNoop(t *testing.T) {
	t.Parallel()
	var rec metrics.Recorder = metrics.Noop{}
	assert.NotPanics(t, func() {
		rec.ObserveRequest(metrics.KindSingle, 200, time.Millisecond)
		rec.ObserveFailure(metrics.KindSingle, "transport")
		rec.SetQueueSize(1)
	})
}
