package service_registry

import (
	"errors"
	"fmt"

	"github.com/benmeehan/home-sentinel/internal/camera"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/sensors"
	"github.com/benmeehan/home-sentinel/internal/services"
	"github.com/benmeehan/home-sentinel/internal/utils"
	"github.com/rs/zerolog"
)

// Service is anything with a managed lifecycle.
type Service interface {
	Start() error
	Stop() error
}

// Dependencies are the shared collaborators the services are built from.
type Dependencies struct {
	Reader     sensors.Reader
	Telemetry  services.EnvPublisher
	Dispatcher services.AlertDispatcher
	Motion     services.MotionPoller
	Camera     camera.Source
	Metrics    *metrics.Metrics
}

// ServiceRegistry manages the lifecycle of various services in the system.
type ServiceRegistry struct {
	services    map[string]Service // Stores registered services
	serviceKeys []string           // Maintains order of service registration
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new, empty service registry.
func NewServiceRegistry(logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]Service),
		Logger:   logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// Lookup returns a registered service by name.
func (sr *ServiceRegistry) Lookup(name string) (Service, bool) {
	svc, ok := sr.services[name]
	return svc, ok
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices builds and registers the enabled services in start order.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, deps Dependencies) error {
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func(logger zerolog.Logger) (Service, error)
	}{
		{
			name:    "sampling",
			enabled: true,
			constructor: func(logger zerolog.Logger) (Service, error) {
				if deps.Reader == nil || deps.Telemetry == nil || deps.Dispatcher == nil {
					return nil, errors.New("sampling service requires a reader, telemetry and a dispatcher")
				}
				return services.NewSamplingService(
					config.Alerts.SamplingPeriod,
					config.Alerts.TemperatureLimit,
					config.Alerts.HumidityLimit,
					deps.Reader,
					deps.Telemetry,
					deps.Dispatcher,
					deps.Metrics,
					logger,
				), nil
			},
		},
		{
			name:    "alerting",
			enabled: true,
			constructor: func(logger zerolog.Logger) (Service, error) {
				if deps.Motion == nil || deps.Camera == nil || deps.Dispatcher == nil {
					return nil, errors.New("alerting service requires motion, a camera and a dispatcher")
				}
				return services.NewAlertService(
					config.Alerts.PollInterval,
					config.Alerts.Cooldown,
					deps.Motion,
					deps.Camera,
					deps.Dispatcher,
					deps.Metrics,
					logger,
				), nil
			},
		},
		{
			name:    "health",
			enabled: config.Health.Enabled,
			constructor: func(logger zerolog.Logger) (Service, error) {
				return services.NewHealthService(
					config.Health.Interval,
					config.Health.Timeout,
					&models.HealthConfig{
						MonitorCPU:        config.Health.MonitorCPU,
						MonitorMemory:     config.Health.MonitorMemory,
						MonitorGoroutines: config.Health.MonitorGoroutines,
					},
					logger,
				), nil
			},
		},
	}

	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if !svc.enabled {
			continue
		}
		serviceInstance, err := svc.constructor(sr.Logger.With().Str("component", svc.name).Logger())
		if err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
			return err
		}
		sr.RegisterService(svc.name, serviceInstance)
		registeredServices = append(registeredServices, svc.name)
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}
