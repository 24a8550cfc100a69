package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/home-sentinel/internal/health"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/utils"
	"github.com/rs/zerolog"
)

// HealthService periodically collects host metrics and logs a liveness line.
type HealthService struct {
	interval   time.Duration
	timeout    time.Duration
	config     *models.HealthConfig
	startedAt  time.Time
	registry   *health.Registry
	workerPool *utils.WorkerPool
	logger     zerolog.Logger

	mu   sync.RWMutex
	last models.HealthSnapshot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHealthService initializes and returns a new instance of HealthService.
func NewHealthService(interval, timeout time.Duration, config *models.HealthConfig, logger zerolog.Logger) *HealthService {
	service := &HealthService{
		interval:  interval,
		timeout:   timeout,
		config:    config,
		startedAt: time.Now(),
		registry:  health.NewRegistry(),
		logger:    logger,
	}

	service.registry.Register(&health.CPUCollector{Logger: logger})
	service.registry.Register(&health.MemoryCollector{Logger: logger})
	service.registry.Register(&health.GoroutineCollector{})

	return service
}

// Start initiates periodic health collection.
func (h *HealthService) Start() error {
	if h.ctx != nil {
		h.logger.Warn().Msg("HealthService is already running")
		return errors.New("health service is already running")
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.workerPool = utils.NewWorkerPool(len(h.registry.Collectors()))

	h.wg.Add(1)
	go h.runHealthLoop()

	h.logger.Info().Dur("interval", h.interval).Msg("HealthService started successfully")
	return nil
}

// Stop gracefully stops the health service.
func (h *HealthService) Stop() error {
	if h.ctx == nil {
		h.logger.Warn().Msg("HealthService is not running")
		return errors.New("health service is not running")
	}

	h.cancel()
	h.wg.Wait()
	h.workerPool.Shutdown()

	h.ctx = nil
	h.cancel = nil

	h.logger.Info().Msg("HealthService stopped successfully")
	return nil
}

func (h *HealthService) runHealthLoop() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot := h.collect()
			h.logger.Info().
				Dur("uptime", snapshot.Uptime).
				Interface("metrics", snapshot.Metrics).
				Msg("Health check")
		case <-h.ctx.Done():
			return
		}
	}
}

// collect runs every enabled collector concurrently on the worker pool.
func (h *HealthService) collect() models.HealthSnapshot {
	snapshot := models.HealthSnapshot{
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startedAt).Truncate(time.Second),
		Metrics:   make(map[string]models.Metric),
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, collector := range h.registry.Collectors() {
		if !collector.IsEnabled(h.config) {
			continue
		}
		wg.Add(1)
		h.workerPool.Submit(func() {
			defer wg.Done()
			value := collector.Collect(ctx)
			if value == nil {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			snapshot.Metrics[name] = models.Metric{Value: value, Unit: collector.Unit()}
		})
	}
	wg.Wait()

	h.mu.Lock()
	h.last = snapshot
	h.mu.Unlock()

	return snapshot
}

// Snapshot returns the most recent health snapshot; before the first tick it
// only carries uptime.
func (h *HealthService) Snapshot() models.HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.last.Timestamp.IsZero() {
		return models.HealthSnapshot{
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(h.startedAt).Truncate(time.Second),
		}
	}
	return h.last
}
