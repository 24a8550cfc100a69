package notify

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benmeehan/home-sentinel/internal/constants"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/pkg/mqtt"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// ErrPublishTimeout is returned when the broker does not acknowledge in time.
var ErrPublishTimeout = errors.New("telemetry publish timed out")

// Telemetry publishes to Adafruit IO style feeds: <username>/feeds/<feed>.
type Telemetry struct {
	client     mqtt.MQTTClient
	username   string
	qos        byte
	timeout    time.Duration
	feedPacing time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewTelemetry(client mqtt.MQTTClient, username string, qos int, timeout, feedPacing time.Duration,
	m *metrics.Metrics, logger zerolog.Logger) *Telemetry {
	return &Telemetry{
		client:     client,
		username:   username,
		qos:        byte(qos),
		timeout:    timeout,
		feedPacing: feedPacing,
		metrics:    m,
		logger:     logger,
	}
}

// FeedTopic returns the topic for a named feed.
func (t *Telemetry) FeedTopic(feed string) string {
	return t.username + "/feeds/" + feed
}

// PublishEnv publishes temperature then humidity, pacing the two publishes.
// Invalid values are skipped.
func (t *Telemetry) PublishEnv(r models.SensorReading) error {
	var errs []error

	if r.TemperatureValid() {
		if err := t.publish(constants.FeedTemperature, formatValue(r.Temperature)); err != nil {
			errs = append(errs, err)
		}
		time.Sleep(t.feedPacing)
	} else {
		t.logger.Warn().Msg("Temperature reading is invalid, skipping publish")
	}

	if r.HumidityValid() {
		if err := t.publish(constants.FeedHumidity, formatValue(r.Humidity)); err != nil {
			errs = append(errs, err)
		}
	} else {
		t.logger.Warn().Msg("Humidity reading is invalid, skipping publish")
	}

	return errors.Join(errs...)
}

// PublishAlert publishes "<reason>" or "<reason> | Photo: <url>" to the alerts feed.
func (t *Telemetry) PublishAlert(reason, photoURL string) error {
	msg := reason
	if photoURL != "" {
		msg += " | Photo: " + photoURL
	}
	return t.publish(constants.FeedAlerts, msg)
}

// WatchBrokerErrors logs the broker's per-user error and throttle notices,
// which is where rejected publishes are reported.
func (t *Telemetry) WatchBrokerErrors() error {
	for _, topic := range []string{t.username + "/errors", t.username + "/throttle"} {
		token := t.client.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
			t.logger.Warn().Str("topic", msg.Topic()).Str("notice", string(msg.Payload())).Msg("Broker rejected telemetry")
		})
		if !token.WaitTimeout(t.timeout) {
			return fmt.Errorf("subscribe %s: %w", topic, ErrPublishTimeout)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

func (t *Telemetry) publish(feed, payload string) error {
	topic := t.FeedTopic(feed)

	token := t.client.Publish(topic, t.qos, false, payload)
	var err error
	if !token.WaitTimeout(t.timeout) {
		err = ErrPublishTimeout
	} else {
		err = token.Error()
	}

	t.metrics.TelemetryPublish(feed, err == nil)
	if err != nil {
		t.logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish telemetry")
		return fmt.Errorf("publish %s: %w", feed, err)
	}

	t.logger.Debug().Str("topic", topic).Str("payload", payload).Msg("Telemetry published")
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
