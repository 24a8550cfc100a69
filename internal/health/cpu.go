package health

import (
	"context"

	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
)

// CPUCollector collects CPU usage metrics.
type CPUCollector struct {
	Logger zerolog.Logger
}

func (c *CPUCollector) Name() string {
	return "cpu"
}

func (c *CPUCollector) Collect(ctx context.Context) interface{} {
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		c.Logger.Error().Err(err).Msg("Failed to get CPU usage")
		return nil
	}

	if len(percentages) == 0 {
		c.Logger.Warn().Msg("CPU usage data is empty")
		return nil
	}

	return percentages[0]
}

func (c *CPUCollector) IsEnabled(config *models.HealthConfig) bool {
	return config.MonitorCPU
}

func (c *CPUCollector) Unit() string {
	return "percentage"
}

func (c *CPUCollector) Description() string {
	return "Percentage of CPU utilization across all cores."
}
