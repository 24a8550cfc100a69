package mocks

import (
	"context"

	"github.com/benmeehan/home-sentinel/internal/delivery"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/notify"
	"github.com/stretchr/testify/mock"
)

// MockPhotoDeliverer mocks the photo pipeline as seen by the dispatcher.
type MockPhotoDeliverer struct {
	mock.Mock
}

func (m *MockPhotoDeliverer) Deliver(ctx context.Context, ref, caption string) (delivery.Outcome, error) {
	args := m.Called(ctx, ref, caption)
	return args.Get(0).(delivery.Outcome), args.Error(1)
}

// MockAlertPublisher mocks the telemetry channel.
type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishAlert(reason, photoURL string) error {
	args := m.Called(reason, photoURL)
	return args.Error(0)
}

func (m *MockAlertPublisher) PublishEnv(reading models.SensorReading) error {
	args := m.Called(reading)
	return args.Error(0)
}

// MockDispatcher mocks the notification dispatcher used by the scheduler loops.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, alert models.Alert) notify.Result {
	args := m.Called(ctx, alert)
	return args.Get(0).(notify.Result)
}

// MockCamera mocks a capture source.
type MockCamera struct {
	mock.Mock
}

func (m *MockCamera) Capture() string {
	args := m.Called()
	return args.String(0)
}
