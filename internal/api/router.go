package api

import (
	"encoding/json"
	"net/http"

	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HealthReporter provides the latest health snapshot.
type HealthReporter interface {
	Snapshot() models.HealthSnapshot
}

type healthResponse struct {
	Status   string                `json:"status"`
	Uptime   string                `json:"uptime,omitempty"`
	Snapshot models.HealthSnapshot `json:"snapshot"`
}

// NewRouter serves /healthz and /metrics. reporter may be nil when the health
// service is disabled; /healthz then only reports liveness.
func NewRouter(reporter HealthReporter, registry *prometheus.Registry, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthHandler(reporter, logger)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(
		handlers.LoggingHandler(logger, r),
	)
}

func healthHandler(reporter HealthReporter, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok"}
		if reporter != nil {
			resp.Snapshot = reporter.Snapshot()
			resp.Uptime = resp.Snapshot.Uptime.String()
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health response")
		}
	}
}
