package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records tracker activity as Prometheus collectors.
type Prometheus struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	queue    prometheus.Gauge
}

// NewPrometheus creates and registers the collectors with reg.
// Collectors that are already registered are reused.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "requests_total",
			Help:      "Tracking requests sent to the collector by kind and HTTP status.",
		}, []string{"kind", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "request_duration_seconds",
			Help:      "Collector round trip time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "failures_total",
			Help:      "Tracking requests that got no response.",
		}, []string{"kind", "reason"}),
		queue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "bulk_queue_size",
			Help:      "Requests waiting for the next bulk flush.",
		}),
	}

	var err error
	p.requests, err = register(reg, p.requests)
	if err != nil {
		return nil, err
	}
	p.duration, err = register(reg, p.duration)
	if err != nil {
		return nil, err
	}
	p.failures, err = register(reg, p.failures)
	if err != nil {
		return nil, err
	}
	p.queue, err = register(reg, p.queue)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Join(ErrRegister, err)
	}
	return c, nil
}

func (p *Prometheus) ObserveRequest(kind string, status int, d time.Duration) {
	p.requests.WithLabelValues(kind, strconv.Itoa(status)).Inc()
	p.duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *Prometheus) ObserveFailure(kind, reason string) {
	p.failures.WithLabelValues(kind, reason).Inc()
}

func (p *Prometheus) SetQueueSize(n int) {
	p.queue.Set(float64(n))
}
