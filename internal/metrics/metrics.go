// Package metrics contains the Prometheus-based implementations of the
// statistics interfaces of CatalogAdmin.
package metrics

import (
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// DefaultNamespace is the default namespace of all CatalogAdmin metrics.
const DefaultNamespace = "catalogadmin"

// Subsystem name constants.
const (
	subsystemAuth     = "auth"
	subsystemSessions = "sessions"
)

// NewRegistry returns a new Prometheus registry with the Go runtime and
// process collectors registered.
func NewRegistry() (reg *prometheus.Registry) {
	reg = prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// registerAll registers all collectors in reg and returns the joined errors.
func registerAll(reg prometheus.Registerer, cs ...prometheus.Collector) (err error) {
	var errs []error
	for i, c := range cs {
		err = reg.Register(c)
		if err != nil {
			errs = append(errs, fmt.Errorf("collector at index %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
