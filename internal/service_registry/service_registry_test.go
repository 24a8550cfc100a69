package service_registry_test

import (
	"errors"
	"testing"

	"github.com/benmeehan/home-sentinel/internal/mocks"
	"github.com/benmeehan/home-sentinel/internal/motion"
	"github.com/benmeehan/home-sentinel/internal/sensors"
	"github.com/benmeehan/home-sentinel/internal/service_registry"
	"github.com/benmeehan/home-sentinel/internal/services"
	"github.com/benmeehan/home-sentinel/internal/utils"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	log      *[]string
}

func (f *fakeService) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func TestServiceRegistry_StartStopOrder(t *testing.T) {
	var log []string
	sr := service_registry.NewServiceRegistry(zerolog.Nop())
	sr.RegisterService("a", &fakeService{name: "a", log: &log})
	sr.RegisterService("b", &fakeService{name: "b", log: &log})
	sr.RegisterService("a", &fakeService{name: "dup", log: &log})

	require.NoError(t, sr.StartServices())
	require.NoError(t, sr.StopServices())

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestServiceRegistry_StartFailureRollsBack(t *testing.T) {
	var log []string
	sr := service_registry.NewServiceRegistry(zerolog.Nop())
	sr.RegisterService("a", &fakeService{name: "a", log: &log})
	sr.RegisterService("b", &fakeService{name: "b", log: &log})
	sr.RegisterService("c", &fakeService{name: "c", startErr: errors.New("boom"), log: &log})

	err := sr.StartServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start c")
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestServiceRegistry_StopErrorsAreJoined(t *testing.T) {
	var log []string
	sr := service_registry.NewServiceRegistry(zerolog.Nop())
	errA := errors.New("a failed")
	sr.RegisterService("a", &fakeService{name: "a", stopErr: errA, log: &log})
	sr.RegisterService("b", &fakeService{name: "b", log: &log})

	err := sr.StopServices()
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"stop b", "stop a"}, log)
}

func TestServiceRegistry_RegisterServices(t *testing.T) {
	config := &utils.Config{}
	config.ApplyDefaults()
	config.Health.Enabled = true

	sr := service_registry.NewServiceRegistry(zerolog.Nop())
	err := sr.RegisterServices(config, service_registry.Dependencies{
		Reader:     sensors.NewFakeReader(),
		Telemetry:  new(mocks.MockAlertPublisher),
		Dispatcher: new(mocks.MockDispatcher),
		Motion:     motion.NewSignal(config.Motion.Debounce),
		Camera:     new(mocks.MockCamera),
	})
	require.NoError(t, err)

	svc, ok := sr.Lookup("health")
	require.True(t, ok)
	assert.IsType(t, &services.HealthService{}, svc)

	svc, ok = sr.Lookup("sampling")
	require.True(t, ok)
	assert.IsType(t, &services.SamplingService{}, svc)

	_, ok = sr.Lookup("alerting")
	assert.True(t, ok)
}

func TestServiceRegistry_RegisterServices_MissingDependency(t *testing.T) {
	config := &utils.Config{}
	config.ApplyDefaults()

	sr := service_registry.NewServiceRegistry(zerolog.Nop())
	err := sr.RegisterServices(config, service_registry.Dependencies{})
	assert.Error(t, err)

	_, ok := sr.Lookup("health")
	assert.False(t, ok)
}
