package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the agent's Prometheus instruments on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	alertsFired        *prometheus.CounterVec
	alertsSuppressed   *prometheus.CounterVec
	fetchAttempts      *prometheus.CounterVec
	uploadAttempts     *prometheus.CounterVec
	deliveries         *prometheus.CounterVec
	telemetryPublishes *prometheus.CounterVec
	samplingLag        prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		alertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_alerts_fired_total",
			Help: "Alerts handed to the notification dispatcher, by kind.",
		}, []string{"kind"}),
		alertsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_alerts_suppressed_total",
			Help: "Alerts withheld before dispatch, by reason.",
		}, []string{"reason"}),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_fetch_attempts_total",
			Help: "Image fetch attempts against the capture source, by result.",
		}, []string{"result"}),
		uploadAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_upload_attempts_total",
			Help: "Multipart photo upload attempts, by result.",
		}, []string{"result"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_deliveries_total",
			Help: "Photo pipeline runs, by final outcome.",
		}, []string{"outcome"}),
		telemetryPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_telemetry_publishes_total",
			Help: "Telemetry feed publishes, by feed and result.",
		}, []string{"feed", "result"}),
		samplingLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_sampling_lag_seconds",
			Help:    "Delay between a sampling cycle's scheduled and actual wake time.",
			Buckets: []float64{.001, .01, .05, .1, .5, 1, 5},
		}),
	}

	m.registry.MustRegister(
		m.alertsFired,
		m.alertsSuppressed,
		m.fetchAttempts,
		m.uploadAttempts,
		m.deliveries,
		m.telemetryPublishes,
		m.samplingLag,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WatchMotion exports the motion signal's own counters.
func (m *Metrics) WatchMotion(accepted, suppressed func() uint64) {
	if m == nil {
		return
	}
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "sentinel_motion_edges_accepted_total",
			Help: "Motion sensor edges that passed the debounce window.",
		}, func() float64 { return float64(accepted()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "sentinel_motion_edges_debounced_total",
			Help: "Motion sensor edges discarded as bounce.",
		}, func() float64 { return float64(suppressed()) }),
	)
}

func (m *Metrics) AlertFired(kind string) {
	if m == nil {
		return
	}
	m.alertsFired.WithLabelValues(kind).Inc()
}

func (m *Metrics) AlertSuppressed(reason string) {
	if m == nil {
		return
	}
	m.alertsSuppressed.WithLabelValues(reason).Inc()
}

func (m *Metrics) FetchAttempt(result string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) UploadAttempt(result string) {
	if m == nil {
		return
	}
	m.uploadAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) Delivery(outcome string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TelemetryPublish(feed string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.telemetryPublishes.WithLabelValues(feed, result).Inc()
}

func (m *Metrics) SamplingLag(seconds float64) {
	if m == nil {
		return
	}
	m.samplingLag.Observe(seconds)
}
