package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/home-sentinel/pkg/file"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// ErrTLSConfig means the client could not be built at all; unlike a failed
// connect it is not recovered by the background reconnect.
var ErrTLSConfig = errors.New("invalid MQTT TLS configuration")

// ErrConnectPending means the broker was not reached within the startup budget.
// The client keeps retrying in the background and OnConnect fires once it succeeds.
var ErrConnectPending = errors.New("MQTT broker not reached yet")

// MQTTClient defines the interface for an MQTT client.
type MQTTClient interface {
	Connect() mqtt.Token
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Disconnect(quiesce uint)
}

// Options configures the broker session.
type Options struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	CACertificate  string // optional PEM bundle; system roots are used when empty
	ConnectRetries int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
	OnConnect      func() // runs on its own goroutine after every (re)connect
}

// MqttService provides methods for MQTT operations.
type MqttService struct {
	client     mqtt.Client
	fileClient file.FileOperations
	logger     zerolog.Logger
}

// NewMqttService creates a new MqttService instance.
func NewMqttService(fileClient file.FileOperations, logger zerolog.Logger) *MqttService {
	return &MqttService{
		fileClient: fileClient,
		logger:     logger,
	}
}

// Initialize builds the client and waits for the first connection for roughly
// ConnectRetries attempts. Connect retry is enabled, so when this returns
// ErrConnectPending the client keeps dialing every RetryDelay until the broker
// answers, then auto-reconnects after any later loss.
func (s *MqttService) Initialize(o Options) error {
	tlsConfig, err := s.tlsConfig(o.CACertificate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTLSConfig, err)
	}

	retries := o.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	opts.SetUsername(o.Username)
	opts.SetPassword(o.Password)
	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(o.RetryDelay)
	opts.SetConnectTimeout(o.ConnectTimeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		s.logger.Info().Str("broker", o.Broker).Msg("Connected to MQTT broker")
		if o.OnConnect != nil {
			o.OnConnect()
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.logger.Warn().Err(err).Msg("MQTT connection lost")
	})

	s.client = mqtt.NewClient(opts)

	budget := time.Duration(retries)*o.ConnectTimeout + time.Duration(retries-1)*o.RetryDelay
	token := s.Connect()
	if !token.WaitTimeout(budget) {
		s.logger.Warn().Str("broker", o.Broker).Dur("waited", budget).Msg("MQTT broker not reachable, retrying in background")
		return fmt.Errorf("failed to connect to %s after %d attempts: %w", o.Broker, retries, ErrConnectPending)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", o.Broker, err)
	}
	return nil
}

func (s *MqttService) tlsConfig(caCertPath string) (*tls.Config, error) {
	if caCertPath == "" {
		return nil, nil
	}

	caCert, err := s.fileClient.ReadFileRaw(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to append CA certificate")
	}
	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// Connect connects to the MQTT broker.
func (s *MqttService) Connect() mqtt.Token {
	return s.client.Connect()
}

// IsConnected reports whether the session is currently up. Unlike paho's own
// IsConnected it is false while the first connect is still being retried.
func (s *MqttService) IsConnected() bool {
	return s.client != nil && s.client.IsConnectionOpen()
}

// Publish sends a message to the specified topic.
func (s *MqttService) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	return s.client.Publish(topic, qos, retained, payload)
}

// Subscribe subscribes to the specified topic with a message handler.
func (s *MqttService) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	return s.client.Subscribe(topic, qos, callback)
}

// Disconnect gracefully disconnects the MQTT client.
func (s *MqttService) Disconnect(quiesce uint) {
	if s.client == nil {
		return
	}
	s.client.Disconnect(quiesce)
}
