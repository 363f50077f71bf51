package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics is the Prometheus-based implementation of the
// [session.Metrics] interface.
type SessionMetrics struct {
	stored        prometheus.Gauge
	created       prometheus.Counter
	deleted       prometheus.Counter
	swept         prometheus.Counter
	sweepDuration prometheus.Histogram
}

// NewSessionMetrics registers the session registry metrics in reg and returns
// a properly initialized *SessionMetrics.
func NewSessionMetrics(namespace string, reg prometheus.Registerer) (m *SessionMetrics, err error) {
	m = &SessionMetrics{
		stored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "stored",
			Namespace: namespace,
			Subsystem: subsystemSessions,
			Help:      "The number of stored sessions, including the expired ones not swept yet.",
		}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "created_total",
			Namespace: namespace,
			Subsystem: subsystemSessions,
			Help:      "The total number of created sessions.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "deleted_total",
			Namespace: namespace,
			Subsystem: subsystemSessions,
			Help:      "The total number of sessions removed on logout.",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "swept_total",
			Namespace: namespace,
			Subsystem: subsystemSessions,
			Help:      "The total number of expired sessions removed by sweeps.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "sweep_duration_seconds",
			Namespace: namespace,
			Subsystem: subsystemSessions,
			Help:      "The duration of sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}

	err = registerAll(reg, m.stored, m.created, m.deleted, m.swept, m.sweepDuration)
	if err != nil {
		return nil, fmt.Errorf("registering session metrics: %w", err)
	}

	return m, nil
}

// type check
var _ session.Metrics = (*SessionMetrics)(nil)

// OnCreate implements the [session.Metrics] interface for *SessionMetrics.
func (m *SessionMetrics) OnCreate(_ context.Context) {
	m.created.Inc()
}

// OnDelete implements the [session.Metrics] interface for *SessionMetrics.
func (m *SessionMetrics) OnDelete(_ context.Context) {
	m.deleted.Inc()
}

// OnSweep implements the [session.Metrics] interface for *SessionMetrics.
func (m *SessionMetrics) OnSweep(_ context.Context, removed int, dur time.Duration) {
	m.swept.Add(float64(removed))
	m.sweepDuration.Observe(dur.Seconds())
}

// SetStored implements the [session.Metrics] interface for *SessionMetrics.
func (m *SessionMetrics) SetStored(_ context.Context, n int) {
	m.stored.Set(float64(n))
}
