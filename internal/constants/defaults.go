package constants

import "time"

const (
	// DefaultTemperatureLimit is the high temperature threshold in °C.
	DefaultTemperatureLimit = 34.0

	// DefaultHumidityLimit is the high humidity threshold in %RH.
	DefaultHumidityLimit = 90.0

	DefaultMotionDebounce = 5 * time.Second
	DefaultAlertCooldown  = 60 * time.Second

	DefaultSamplingPeriod = 30 * time.Second
	DefaultPollInterval   = 1 * time.Second
	DefaultHealthInterval = 10 * time.Second

	// DefaultChannelPacing separates the chat delivery from the telemetry alert.
	DefaultChannelPacing = 1 * time.Second

	// DefaultFeedPacing separates the temperature and humidity publishes.
	DefaultFeedPacing = 1 * time.Second
)

// Photo pipeline defaults.
const (
	DefaultAttempts       = 3
	DefaultBackoffBase    = 600 * time.Millisecond
	DefaultIdleTimeout    = 12 * time.Second
	DefaultFetchTimeout   = 20 * time.Second
	DefaultUploadTimeout  = 20 * time.Second
	DefaultInitialBuffer  = 8192
	DefaultMaxImageBytes  = 4 << 20
	DefaultCameraPath     = "/jpg"
	DefaultCameraCheckTTL = 5 * time.Second
)

const (
	DefaultTelegramAPI = "https://api.telegram.org"
	DefaultMQTTBroker  = "tls://io.adafruit.com:8883"
	DefaultMQTTTimeout = 5 * time.Second
)
