package metrics_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil/faketime"
	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/ShopCraft/CatalogAdmin/internal/metrics"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNamespace is the metrics namespace for tests.
const testNamespace = "test"

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewSessionMetrics(testNamespace, reg)
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := session.NewRegistry(&session.RegistryConfig{
		Logger: slogutil.NewDiscardLogger(),
		Clock: &faketime.Clock{
			OnNow: func() (now time.Time) { return start },
		},
		Metrics: m,
	})

	ctx := context.Background()
	r.Create(ctx, "tok1", 1, "admin", time.Minute)
	r.Create(ctx, "tok2", 1, "admin", time.Hour)
	r.Create(ctx, "tok3", 2, "editor", time.Hour)
	r.Delete(ctx, "tok3")
	r.Delete(ctx, "tok3")

	removed := r.Sweep(ctx, start.Add(2*time.Minute))
	require.Equal(t, 1, removed)

	const (
		nameStored  = "test_sessions_stored"
		nameCreated = "test_sessions_created_total"
		nameDeleted = "test_sessions_deleted_total"
		nameSwept   = "test_sessions_swept_total"
		nameSweep   = "test_sessions_sweep_duration_seconds"
	)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range mfs {
		metric := mf.GetMetric()[0]
		switch mf.GetName() {
		case nameStored:
			got[nameStored] = metric.GetGauge().GetValue()
		case nameSweep:
			got[nameSweep] = float64(metric.GetHistogram().GetSampleCount())
		default:
			got[mf.GetName()] = metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, map[string]float64{
		nameStored:  1,
		nameCreated: 3,
		nameDeleted: 1,
		nameSwept:   1,
		nameSweep:   1,
	}, got)

	_, err = metrics.NewSessionMetrics(testNamespace, reg)
	assert.Error(t, err)
}

func TestAuthMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewAuthMetrics(testNamespace, reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.OnLogin(ctx, auth.LoginResultSuccess)
	m.OnLogin(ctx, auth.LoginResultInvalid)
	m.OnLogin(ctx, auth.LoginResultInvalid)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "test_auth_logins_total"))

	wantMetrics := `
# HELP test_auth_logins_total The total number of login attempts by result.
# TYPE test_auth_logins_total counter
test_auth_logins_total{result="invalid"} 2
test_auth_logins_total{result="success"} 1
`
	err = testutil.GatherAndCompare(
		reg,
		strings.NewReader(wantMetrics),
		"test_auth_logins_total",
	)
	assert.NoError(t, err)
}

func TestNewRegistry(t *testing.T) {
	reg := metrics.NewRegistry()

	_, err := metrics.NewSessionMetrics(metrics.DefaultNamespace, reg)
	require.NoError(t, err)

	_, err = metrics.NewAuthMetrics(metrics.DefaultNamespace, reg)
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	assert.NotEmpty(t, mfs)
}
