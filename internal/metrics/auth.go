package metrics

import (
	"context"
	"fmt"

	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics is the Prometheus-based implementation of the [auth.Metrics]
// interface.
type AuthMetrics struct {
	logins *prometheus.CounterVec
}

// NewAuthMetrics registers the authentication metrics in reg and returns a
// properly initialized *AuthMetrics.
func NewAuthMetrics(namespace string, reg prometheus.Registerer) (m *AuthMetrics, err error) {
	m = &AuthMetrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "logins_total",
			Namespace: namespace,
			Subsystem: subsystemAuth,
			Help:      "The total number of login attempts by result.",
		}, []string{"result"}),
	}

	err = registerAll(reg, m.logins)
	if err != nil {
		return nil, fmt.Errorf("registering auth metrics: %w", err)
	}

	return m, nil
}

// type check
var _ auth.Metrics = (*AuthMetrics)(nil)

// OnLogin implements the [auth.Metrics] interface for *AuthMetrics.
func (m *AuthMetrics) OnLogin(_ context.Context, res auth.LoginResult) {
	m.logins.WithLabelValues(string(res)).Inc()
}
