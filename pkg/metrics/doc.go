// Package metrics defines the Recorder the tracker reports to and a
// Prometheus implementation of it.
//
//	rec, err := metrics.NewPrometheus(prometheus.DefaultRegisterer, "piwik")
//	if err != nil {
//	    return err
//	}
//	t, err := tracker.New(1, collectorURL, tracker.WithMetrics(rec))
//
// Exported series:
//
//	piwik_tracker_requests_total{kind,status}
//	piwik_tracker_request_duration_seconds{kind}
//	piwik_tracker_failures_total{kind,reason}
//	piwik_tracker_bulk_queue_size
package metrics
