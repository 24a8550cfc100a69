package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benmeehan/home-sentinel/internal/constants"
	"github.com/benmeehan/home-sentinel/pkg/file"
	"github.com/joho/godotenv"
)

// Config represents the structure of the configuration file.
type Config struct {
	MQTT struct {
		Broker         string        `yaml:"broker"`          // MQTT broker address
		ClientID       string        `yaml:"client_id"`       // Prefix for the MQTT client ID
		Username       string        `yaml:"username"`        // Broker account, also the feed namespace
		Key            string        `yaml:"key"`             // Broker account key
		CACertificate  string        `yaml:"ca_certificate"`  // Optional path to a CA bundle
		QOS            int           `yaml:"qos"`             // QoS level for feed publishes
		ConnectRetries int           `yaml:"connect_retries"` // Connect attempts at startup
		RetryDelay     time.Duration `yaml:"retry_delay"`     // Delay between connect attempts
		Timeout        time.Duration `yaml:"timeout"`         // Per-operation token wait
	} `yaml:"mqtt"`

	Telegram struct {
		APIBase string        `yaml:"api_base"` // Bot API base URL
		Token   string        `yaml:"token"`    // Bot token
		ChatID  string        `yaml:"chat_id"`  // Destination chat
		Timeout time.Duration `yaml:"timeout"`  // Timeout for text and photo-by-URL calls
	} `yaml:"telegram"`

	Camera struct {
		Host         string        `yaml:"host"`          // Camera host on the local network
		Path         string        `yaml:"path"`          // Snapshot path
		Mock         bool          `yaml:"mock"`          // Use a public placeholder image instead
		CheckTimeout time.Duration `yaml:"check_timeout"` // Startup reachability check
	} `yaml:"camera"`

	Sensors struct {
		IIODevice string `yaml:"iio_device"` // sysfs directory of the humidity/temperature sensor
	} `yaml:"sensors"`

	Motion struct {
		Chip     string        `yaml:"chip"`     // GPIO character device
		Line     int           `yaml:"line"`     // PIR line offset
		Debounce time.Duration `yaml:"debounce"` // Minimum spacing between accepted triggers
	} `yaml:"motion"`

	Alerts struct {
		TemperatureLimit float64       `yaml:"temperature_limit"` // °C
		HumidityLimit    float64       `yaml:"humidity_limit"`    // %RH
		Cooldown         time.Duration `yaml:"cooldown"`          // Motion alert cooldown
		SamplingPeriod   time.Duration `yaml:"sampling_period"`   // Sensor sampling period
		PollInterval     time.Duration `yaml:"poll_interval"`     // Motion poll interval
		ChannelPacing    time.Duration `yaml:"channel_pacing"`    // Gap between chat and telemetry
		FeedPacing       time.Duration `yaml:"feed_pacing"`       // Gap between the two feed publishes
	} `yaml:"alerts"`

	Delivery struct {
		Attempts      int           `yaml:"attempts"`        // Fetch and upload attempts
		BackoffBase   time.Duration `yaml:"backoff_base"`    // Backoff is attempt × base
		IdleTimeout   time.Duration `yaml:"idle_timeout"`    // Socket idle timeout while fetching
		FetchTimeout  time.Duration `yaml:"fetch_timeout"`   // Overall timeout per fetch attempt
		UploadTimeout time.Duration `yaml:"upload_timeout"`  // Overall timeout per upload attempt
		InitialBuffer int           `yaml:"initial_buffer"`  // Starting capacity without Content-Length
		MaxImageBytes int           `yaml:"max_image_bytes"` // Hard cap on the image size
	} `yaml:"delivery"`

	Health struct {
		Enabled           bool          `yaml:"enabled"`
		Interval          time.Duration `yaml:"interval"`
		Timeout           time.Duration `yaml:"timeout"`
		MonitorCPU        bool          `yaml:"monitor_cpu"`
		MonitorMemory     bool          `yaml:"monitor_memory"`
		MonitorGoroutines bool          `yaml:"monitor_goroutines"`
	} `yaml:"health"`

	HTTP struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"` // Listen address for /healthz and /metrics
	} `yaml:"http"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// envOverrides maps credential environment variables onto config fields.
var envOverrides = []struct {
	key   string
	field func(c *Config) *string
}{
	{"TELEGRAM_TOKEN", func(c *Config) *string { return &c.Telegram.Token }},
	{"TELEGRAM_CHAT_ID", func(c *Config) *string { return &c.Telegram.ChatID }},
	{"IO_USERNAME", func(c *Config) *string { return &c.MQTT.Username }},
	{"IO_KEY", func(c *Config) *string { return &c.MQTT.Key }},
	{"MQTT_BROKER", func(c *Config) *string { return &c.MQTT.Broker }},
	{"CAMERA_HOST", func(c *Config) *string { return &c.Camera.Host }},
}

// LoadConfig loads the YAML configuration from the specified file, overlays
// credentials from the environment (after loading envFile, if it exists),
// applies defaults and validates the result.
func LoadConfig(filename, envFile string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, err
	}

	if envFile != "" {
		exists, err := fileClient.IsFileExists(envFile)
		if err != nil {
			return nil, err
		}
		if exists {
			// variables already set in the environment win over the file
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.field(&config) = v
		}
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills every zero-valued tunable.
func (c *Config) ApplyDefaults() {
	setString(&c.MQTT.Broker, constants.DefaultMQTTBroker)
	setString(&c.MQTT.ClientID, "home-sentinel")
	setInt(&c.MQTT.ConnectRetries, 3)
	setDuration(&c.MQTT.RetryDelay, 2*time.Second)
	setDuration(&c.MQTT.Timeout, constants.DefaultMQTTTimeout)

	setString(&c.Telegram.APIBase, constants.DefaultTelegramAPI)
	setDuration(&c.Telegram.Timeout, constants.DefaultUploadTimeout)

	setString(&c.Camera.Path, constants.DefaultCameraPath)
	setDuration(&c.Camera.CheckTimeout, constants.DefaultCameraCheckTTL)

	setString(&c.Sensors.IIODevice, "/sys/bus/iio/devices/iio:device0")

	setString(&c.Motion.Chip, "gpiochip0")
	setDuration(&c.Motion.Debounce, constants.DefaultMotionDebounce)

	setFloat(&c.Alerts.TemperatureLimit, constants.DefaultTemperatureLimit)
	setFloat(&c.Alerts.HumidityLimit, constants.DefaultHumidityLimit)
	setDuration(&c.Alerts.Cooldown, constants.DefaultAlertCooldown)
	setDuration(&c.Alerts.SamplingPeriod, constants.DefaultSamplingPeriod)
	setDuration(&c.Alerts.PollInterval, constants.DefaultPollInterval)
	setDuration(&c.Alerts.ChannelPacing, constants.DefaultChannelPacing)
	setDuration(&c.Alerts.FeedPacing, constants.DefaultFeedPacing)

	setInt(&c.Delivery.Attempts, constants.DefaultAttempts)
	setDuration(&c.Delivery.BackoffBase, constants.DefaultBackoffBase)
	setDuration(&c.Delivery.IdleTimeout, constants.DefaultIdleTimeout)
	setDuration(&c.Delivery.FetchTimeout, constants.DefaultFetchTimeout)
	setDuration(&c.Delivery.UploadTimeout, constants.DefaultUploadTimeout)
	setInt(&c.Delivery.InitialBuffer, constants.DefaultInitialBuffer)
	setInt(&c.Delivery.MaxImageBytes, constants.DefaultMaxImageBytes)

	setDuration(&c.Health.Interval, constants.DefaultHealthInterval)
	setDuration(&c.Health.Timeout, 5*time.Second)

	setString(&c.HTTP.Addr, ":9100")
	setString(&c.Log.Level, "info")
}

// Validate rejects configurations the alert path cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.Token == "" || c.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram token and chat_id are required"))
	}
	if c.Alerts.TemperatureLimit <= 0 || c.Alerts.HumidityLimit <= 0 {
		errs = append(errs, errors.New("alert limits must be positive"))
	}
	if c.Alerts.Cooldown <= 0 || c.Motion.Debounce <= 0 {
		errs = append(errs, errors.New("cooldown and debounce windows must be positive"))
	}
	if c.Alerts.SamplingPeriod <= 0 || c.Alerts.PollInterval <= 0 {
		errs = append(errs, errors.New("sampling period and poll interval must be positive"))
	}
	if c.Delivery.Attempts < 1 {
		errs = append(errs, fmt.Errorf("delivery attempts must be at least 1, got %d", c.Delivery.Attempts))
	}
	for name, d := range map[string]time.Duration{
		"alerts.channel_pacing":   c.Alerts.ChannelPacing,
		"alerts.feed_pacing":      c.Alerts.FeedPacing,
		"delivery.backoff_base":   c.Delivery.BackoffBase,
		"delivery.idle_timeout":   c.Delivery.IdleTimeout,
		"delivery.fetch_timeout":  c.Delivery.FetchTimeout,
		"delivery.upload_timeout": c.Delivery.UploadTimeout,
		"health.interval":         c.Health.Interval,
		"health.timeout":          c.Health.Timeout,
		"mqtt.retry_delay":        c.MQTT.RetryDelay,
		"mqtt.timeout":            c.MQTT.Timeout,
		"telegram.timeout":        c.Telegram.Timeout,
		"camera.check_timeout":    c.Camera.CheckTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Delivery.InitialBuffer <= 0 || c.Delivery.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("delivery buffer sizes must be positive"))
	}
	if c.Delivery.InitialBuffer > c.Delivery.MaxImageBytes {
		errs = append(errs, errors.New("delivery initial_buffer exceeds max_image_bytes"))
	}

	return errors.Join(errs...)
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func setDuration(v *time.Duration, def time.Duration) {
	if *v == 0 {
		*v = def
	}
}
