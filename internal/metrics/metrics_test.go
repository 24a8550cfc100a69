package metrics_test

import (
	"testing"

	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersIncrement(t *testing.T) {
	m := metrics.New()

	m.AlertFired("motion")
	m.AlertFired("motion")
	m.FetchAttempt("error")
	m.TelemetryPublish("alerts", false)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["sentinel_alerts_fired_total"])
	assert.True(t, names["sentinel_fetch_attempts_total"])
	assert.True(t, names["sentinel_telemetry_publishes_total"])

	count, err := testutil.GatherAndCount(m.Registry(), "sentinel_alerts_fired_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_WatchMotion(t *testing.T) {
	m := metrics.New()
	accepted := uint64(3)
	m.WatchMotion(func() uint64 { return accepted }, func() uint64 { return 7 })

	count, err := testutil.GatherAndCount(m.Registry(),
		"sentinel_motion_edges_accepted_total", "sentinel_motion_edges_debounced_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.AlertFired("motion")
		m.Delivery("failed")
		m.SamplingLag(0.1)
		m.WatchMotion(nil, nil)
	})
}
