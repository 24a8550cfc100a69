package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benmeehan/home-sentinel/internal/api"
	"github.com/benmeehan/home-sentinel/internal/camera"
	"github.com/benmeehan/home-sentinel/internal/delivery"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/motion"
	"github.com/benmeehan/home-sentinel/internal/notify"
	"github.com/benmeehan/home-sentinel/internal/sensors"
	"github.com/benmeehan/home-sentinel/internal/service_registry"
	"github.com/benmeehan/home-sentinel/internal/utils"
	"github.com/benmeehan/home-sentinel/pkg/file"
	"github.com/benmeehan/home-sentinel/pkg/mqtt"
	"github.com/benmeehan/home-sentinel/pkg/telegram"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration")
	envFile := flag.String("env-file", ".env", "optional file with credential environment variables")
	mockCamera := flag.Bool("mock-camera", false, "send a public placeholder image instead of the camera snapshot")
	flag.Parse()

	// Set up structured logging with JSON output
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	// Load configuration from file and environment
	config, err := utils.LoadConfig(*configPath, *envFile, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *mockCamera {
		config.Camera.Mock = true
	}
	if !config.Camera.Mock && config.Camera.Host == "" {
		log.Fatal().Msg("camera host is required unless the mock camera is used")
	}

	level, err := zerolog.ParseLevel(config.Log.Level)
	if err != nil {
		log.Warn().Err(err).Str("level", config.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	log = log.Level(level)

	m := metrics.New()

	// Telemetry channel. A broker outage is not fatal: the client keeps
	// dialing until the broker answers, and publishes fail individually meanwhile.
	clientID := config.MQTT.ClientID + "-" + uuid.New().String()
	log.Info().Str("client_id", clientID).Msg("Using MQTT client ID")

	mqttClient := mqtt.NewMqttService(fileClient, log.With().Str("component", "mqtt").Logger())
	telemetry := notify.NewTelemetry(mqttClient, config.MQTT.Username, config.MQTT.QOS,
		config.MQTT.Timeout, config.Alerts.FeedPacing, m, log.With().Str("component", "telemetry").Logger())

	err = mqttClient.Initialize(mqtt.Options{
		Broker:         config.MQTT.Broker,
		ClientID:       clientID,
		Username:       config.MQTT.Username,
		Password:       config.MQTT.Key,
		CACertificate:  config.MQTT.CACertificate,
		ConnectRetries: config.MQTT.ConnectRetries,
		RetryDelay:     config.MQTT.RetryDelay,
		ConnectTimeout: config.MQTT.Timeout,
		// subscriptions do not survive a clean-session reconnect
		OnConnect: func() {
			if err := telemetry.WatchBrokerErrors(); err != nil {
				log.Warn().Err(err).Msg("Failed to subscribe to broker notices")
			}
		},
	})
	if errors.Is(err, mqtt.ErrTLSConfig) {
		log.Fatal().Err(err).Msg("Failed to initialize MQTT client")
	} else if err != nil {
		log.Error().Err(err).Msg("MQTT broker unavailable, telemetry will resume once it connects")
	}

	var chat telegram.ChatClient = telegram.NewClient(config.Telegram.APIBase, config.Telegram.Token, config.Telegram.ChatID,
		config.Telegram.Timeout, log.With().Str("component", "telegram").Logger())

	// Capture source
	var cam camera.Source
	if config.Camera.Mock {
		log.Info().Msg("Using mock camera")
		cam = camera.NewMockCamera()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), config.Camera.CheckTimeout)
		if !camera.CheckConnection(ctx, config.Camera.Host, config.Camera.CheckTimeout, log) {
			log.Warn().Str("host", config.Camera.Host).Msg("Camera is offline, motion alerts will fall back to the photo URL")
		}
		cancel()
		cam = camera.NewHTTPCamera(config.Camera.Host, config.Camera.Path)
	}

	reader := sensors.NewIIOReader(config.Sensors.IIODevice, fileClient, log.With().Str("component", "sensors").Logger())

	// Motion source
	motionSignal := motion.NewSignal(config.Motion.Debounce)
	m.WatchMotion(motionSignal.Accepted, motionSignal.Suppressed)
	var watcher motion.Watcher
	watcher, err = motion.NewEdgeWatcher(config.Motion.Chip, config.Motion.Line, motionSignal,
		log.With().Str("component", "motion").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the motion sensor")
	}

	// Notification path
	deliveryLog := log.With().Str("component", "delivery").Logger()
	fetcher := delivery.NewFetcher(delivery.FetchConfig{
		Attempts:      config.Delivery.Attempts,
		BackoffBase:   config.Delivery.BackoffBase,
		IdleTimeout:   config.Delivery.IdleTimeout,
		Timeout:       config.Delivery.FetchTimeout,
		InitialBuffer: config.Delivery.InitialBuffer,
		MaxImageBytes: config.Delivery.MaxImageBytes,
	}, m, deliveryLog)
	pipeline := delivery.NewPipeline(fetcher, chat, delivery.UploadConfig{
		Attempts:    config.Delivery.Attempts,
		BackoffBase: config.Delivery.BackoffBase,
		Timeout:     config.Delivery.UploadTimeout,
	}, m, deliveryLog)
	dispatcher := notify.NewDispatcher(chat, pipeline, telemetry, config.Alerts.ChannelPacing, m,
		log.With().Str("component", "dispatcher").Logger())

	// Create a new service registry to manage services
	serviceRegistry := service_registry.NewServiceRegistry(log)
	err = serviceRegistry.RegisterServices(config, service_registry.Dependencies{
		Reader:     reader,
		Telemetry:  telemetry,
		Dispatcher: dispatcher,
		Motion:     motionSignal,
		Camera:     cam,
		Metrics:    m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")

	var server *http.Server
	if config.HTTP.Enabled {
		var reporter api.HealthReporter
		if svc, ok := serviceRegistry.Lookup("health"); ok {
			reporter, _ = svc.(api.HealthReporter)
		}
		server = &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           api.NewRouter(reporter, m.Registry(), log.With().Str("component", "http").Logger()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", config.HTTP.Addr).Msg("Status server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Status server failed")
			}
		}()
	}

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Status server shutdown")
		}
		cancel()
	}

	if err := watcher.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to release the motion sensor")
	}
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Some services failed to stop")
	}
	mqttClient.Disconnect(250)
}
