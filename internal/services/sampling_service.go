package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/home-sentinel/internal/alerts"
	"github.com/benmeehan/home-sentinel/internal/constants"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/benmeehan/home-sentinel/internal/notify"
	"github.com/benmeehan/home-sentinel/internal/sensors"
	"github.com/rs/zerolog"
)

// EnvPublisher publishes environmental readings on the telemetry channel.
type EnvPublisher interface {
	PublishEnv(reading models.SensorReading) error
}

// AlertDispatcher delivers an alert to every notification channel.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert models.Alert) notify.Result
}

// SamplingService reads the sensors on a fixed, drift-free period, publishes
// the reading and evaluates the temperature and humidity latches.
type SamplingService struct {
	Period           time.Duration
	TemperatureLimit float64
	HumidityLimit    float64
	Reader           sensors.Reader
	Telemetry        EnvPublisher
	Dispatcher       AlertDispatcher
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger

	// latches are only touched by the sampling goroutine
	tempLatch alerts.Latch
	humLatch  alerts.Latch

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSamplingService initializes a new SamplingService.
func NewSamplingService(period time.Duration, tempLimit, humLimit float64, reader sensors.Reader,
	telemetry EnvPublisher, dispatcher AlertDispatcher, m *metrics.Metrics, logger zerolog.Logger) *SamplingService {

	return &SamplingService{
		Period:           period,
		TemperatureLimit: tempLimit,
		HumidityLimit:    humLimit,
		Reader:           reader,
		Telemetry:        telemetry,
		Dispatcher:       dispatcher,
		Metrics:          m,
		Logger:           logger,
	}
}

// Start launches the sampling loop in a separate goroutine.
func (s *SamplingService) Start() error {
	if s.ctx != nil {
		s.Logger.Warn().Msg("SamplingService is already running")
		return errors.New("sampling service is already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSamplingLoop()
	}()

	s.Logger.Info().Dur("period", s.Period).Msg("SamplingService started successfully")
	return nil
}

// Stop gracefully stops the sampling service. An in-flight cycle is allowed to finish.
func (s *SamplingService) Stop() error {
	if s.ctx == nil {
		s.Logger.Warn().Msg("SamplingService is not running")
		return errors.New("sampling service is not running")
	}

	s.cancel()
	s.wg.Wait()

	s.ctx = nil
	s.cancel = nil

	s.Logger.Info().Msg("SamplingService stopped successfully")
	return nil
}

// runSamplingLoop samples immediately, then wakes at start + n*Period.
func (s *SamplingService) runSamplingLoop() {
	scheduled := time.Now()
	for {
		s.Cycle(s.ctx)

		scheduled = NextWake(scheduled, time.Now(), s.Period)
		timer := time.NewTimer(time.Until(scheduled))
		select {
		case <-timer.C:
			s.Metrics.SamplingLag(time.Since(scheduled).Seconds())
		case <-s.ctx.Done():
			timer.Stop()
			s.Logger.Info().Msg("SamplingService stopping gracefully")
			return
		}
	}
}

// Cycle runs one read, publish, evaluate pass.
func (s *SamplingService) Cycle(ctx context.Context) {
	reading := s.Reader.Read()
	s.Logger.Info().
		Float64("temperature", reading.Temperature).
		Float64("humidity", reading.Humidity).
		Str("timestamp", reading.Timestamp).
		Msg("Sensor cycle")

	if err := s.Telemetry.PublishEnv(reading); err != nil {
		s.Logger.Warn().Err(err).Msg("Failed to publish sensor reading")
	}

	if s.tempLatch.Check(reading.Temperature, s.TemperatureLimit) == alerts.Fire {
		s.Logger.Warn().Float64("temperature", reading.Temperature).Msg("High temperature detected")
		s.Dispatcher.Dispatch(ctx, models.Alert{
			Reason:  constants.ReasonHighTemperature,
			Message: alerts.TemperatureMessage(reading.Temperature, s.TemperatureLimit),
		})
	}

	if s.humLatch.Check(reading.Humidity, s.HumidityLimit) == alerts.Fire {
		s.Logger.Warn().Float64("humidity", reading.Humidity).Msg("High humidity detected")
		s.Dispatcher.Dispatch(ctx, models.Alert{
			Reason:  constants.ReasonHighHumidity,
			Message: alerts.HumidityMessage(reading.Humidity, s.HumidityLimit),
		})
	}
}

// NextWake returns prev+period. If that instant has already passed, missed
// slots are skipped so the schedule stays on the original grid without bursting.
func NextWake(prev, now time.Time, period time.Duration) time.Time {
	next := prev.Add(period)
	if !next.Before(now) {
		return next
	}
	missed := now.Sub(next)/period + 1
	return next.Add(missed * period)
}
