package health

import (
	"context"
	"runtime"

	"github.com/benmeehan/home-sentinel/internal/models"
)

// GoroutineCollector collects the number of active goroutines.
type GoroutineCollector struct{}

func (g *GoroutineCollector) Name() string {
	return "goroutines"
}

func (g *GoroutineCollector) Collect(ctx context.Context) interface{} {
	return runtime.NumGoroutine()
}

func (g *GoroutineCollector) IsEnabled(config *models.HealthConfig) bool {
	return config.MonitorGoroutines
}

func (g *GoroutineCollector) Unit() string {
	return "count"
}

func (g *GoroutineCollector) Description() string {
	return "Number of active goroutines in the runtime."
}
