package notify_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/benmeehan/home-sentinel/internal/mocks"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/notify"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTelemetry(client *mocks.MockMQTTClient, pacing time.Duration) *notify.Telemetry {
	return notify.NewTelemetry(client, "alice", 0, time.Second, pacing, nil, zerolog.Nop())
}

func TestTelemetry_PublishEnv(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", "alice/feeds/temperature", byte(0), false, "36.00").Return(mocks.NewToken(nil)).Once()
	client.On("Publish", "alice/feeds/humidity", byte(0), false, "55.25").Return(mocks.NewToken(nil)).Once()

	start := time.Now()
	err := newTelemetry(client, 20*time.Millisecond).PublishEnv(models.SensorReading{Temperature: 36, Humidity: 55.25})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	client.AssertExpectations(t)
}

func TestTelemetry_PublishEnvSkipsInvalid(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", "alice/feeds/humidity", byte(0), false, "70.00").Return(mocks.NewToken(nil)).Once()

	err := newTelemetry(client, time.Hour).PublishEnv(models.SensorReading{Temperature: math.NaN(), Humidity: 70})

	require.NoError(t, err)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Publish", "alice/feeds/temperature", mock.Anything, mock.Anything, mock.Anything)
}

func TestTelemetry_PublishEnvBothInvalid(t *testing.T) {
	client := new(mocks.MockMQTTClient)

	err := newTelemetry(client, time.Hour).PublishEnv(models.SensorReading{Temperature: math.NaN(), Humidity: math.NaN()})

	require.NoError(t, err)
	client.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTelemetry_PublishEnvRejectionIsReturned(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", "alice/feeds/temperature", byte(0), false, "20.00").Return(mocks.NewToken(errors.New("not authorized"))).Once()
	client.On("Publish", "alice/feeds/humidity", byte(0), false, "40.00").Return(mocks.NewToken(nil)).Once()

	err := newTelemetry(client, 0).PublishEnv(models.SensorReading{Temperature: 20, Humidity: 40})

	assert.ErrorContains(t, err, "not authorized")
	client.AssertExpectations(t)
}

func TestTelemetry_PublishAlert(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", "alice/feeds/alerts", byte(0), false, "motion").Return(mocks.NewToken(nil)).Once()
	client.On("Publish", "alice/feeds/alerts", byte(0), false, "motion | Photo: http://x/jpg").Return(mocks.NewToken(nil)).Once()

	tel := newTelemetry(client, 0)
	require.NoError(t, tel.PublishAlert("motion", ""))
	require.NoError(t, tel.PublishAlert("motion", "http://x/jpg"))
	client.AssertExpectations(t)
}

func TestTelemetry_PublishTimeout(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(mocks.NewPendingToken())

	err := newTelemetry(client, 0).PublishAlert("high_humidity", "")

	assert.ErrorIs(t, err, notify.ErrPublishTimeout)
}

func TestTelemetry_WatchBrokerErrors(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Subscribe", "alice/errors", byte(0), mock.Anything).Return(mocks.NewToken(nil)).Once()
	client.On("Subscribe", "alice/throttle", byte(0), mock.Anything).Return(mocks.NewToken(nil)).Once()

	require.NoError(t, newTelemetry(client, 0).WatchBrokerErrors())
	client.AssertExpectations(t)
}

func TestTelemetry_WatchBrokerErrorsLogsNotices(t *testing.T) {
	var handler paho.MessageHandler
	client := new(mocks.MockMQTTClient)
	client.On("Subscribe", "alice/errors", byte(0), mock.Anything).
		Run(func(args mock.Arguments) { handler = args.Get(2).(paho.MessageHandler) }).
		Return(mocks.NewToken(nil)).Once()
	client.On("Subscribe", "alice/throttle", byte(0), mock.Anything).Return(mocks.NewToken(nil)).Once()

	var buf bytes.Buffer
	tel := notify.NewTelemetry(client, "alice", 0, time.Second, 0, nil, zerolog.New(&buf))
	require.NoError(t, tel.WatchBrokerErrors())
	require.NotNil(t, handler)

	handler(nil, mocks.NewMockMessage("alice/errors", []byte("feed temperature not found")))

	assert.Contains(t, buf.String(), "feed temperature not found")
	assert.Contains(t, buf.String(), "alice/errors")
}

func TestTelemetry_WatchBrokerErrorsSubscribeFails(t *testing.T) {
	client := new(mocks.MockMQTTClient)
	client.On("Subscribe", "alice/errors", byte(0), mock.Anything).Return(mocks.NewToken(errors.New("denied"))).Once()

	err := newTelemetry(client, 0).WatchBrokerErrors()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribe alice/errors")
	client.AssertNotCalled(t, "Subscribe", "alice/throttle", mock.Anything, mock.Anything)
}
