package health

import (
	"context"

	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/mem"
)

// MemoryCollector reports available system memory.
type MemoryCollector struct {
	Logger zerolog.Logger
}

// Name returns the identifier for the memory collector.
func (m *MemoryCollector) Name() string {
	return "memory_available"
}

// Collect retrieves available virtual memory in bytes.
func (m *MemoryCollector) Collect(ctx context.Context) interface{} {
	stats, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to retrieve memory statistics")
		return nil
	}
	return stats.Available
}

// IsEnabled checks if memory monitoring is enabled in the configuration.
func (m *MemoryCollector) IsEnabled(config *models.HealthConfig) bool {
	return config.MonitorMemory
}

func (m *MemoryCollector) Unit() string {
	return "bytes"
}

func (m *MemoryCollector) Description() string {
	return "Bytes of memory available to new allocations."
}
