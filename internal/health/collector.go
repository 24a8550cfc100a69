package health

import (
	"context"

	"github.com/benmeehan/home-sentinel/internal/models"
)

// Collector defines the interface for collecting a specific host metric.
type Collector interface {
	Name() string                               // Name of the metric (e.g., "cpu", "memory")
	Collect(ctx context.Context) interface{}    // Collect the metric data
	IsEnabled(config *models.HealthConfig) bool // Check if the metric is enabled in the config
	Unit() string                               // Unit of the metric (e.g., "percentage", "bytes")
	Description() string                        // Description of the metric
}

// Registry manages the collectors run on each health tick.
type Registry struct {
	collectors map[string]Collector
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector, replacing any with the same name.
func (r *Registry) Register(collector Collector) {
	r.collectors[collector.Name()] = collector
}

// Collectors returns all registered collectors.
func (r *Registry) Collectors() map[string]Collector {
	return r.collectors
}
