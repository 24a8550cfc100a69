package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benmeehan/home-sentinel/internal/alerts"
	"github.com/benmeehan/home-sentinel/internal/camera"
	"github.com/benmeehan/home-sentinel/internal/constants"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/rs/zerolog"
)

// MotionPoller is the consumer side of the debounced motion signal.
type MotionPoller interface {
	Poll() bool
}

// AlertService polls the motion signal and, outside the cooldown window,
// captures a photo reference and dispatches a motion alert.
type AlertService struct {
	PollInterval time.Duration
	Motion       MotionPoller
	Camera       camera.Source
	Dispatcher   AlertDispatcher
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Now          func() time.Time

	cooldown *alerts.Cooldown

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAlertService initializes a new AlertService.
func NewAlertService(pollInterval, cooldown time.Duration, motion MotionPoller, cam camera.Source,
	dispatcher AlertDispatcher, m *metrics.Metrics, logger zerolog.Logger) *AlertService {

	return &AlertService{
		PollInterval: pollInterval,
		Motion:       motion,
		Camera:       cam,
		Dispatcher:   dispatcher,
		Metrics:      m,
		Logger:       logger,
		Now:          time.Now,
		cooldown:     alerts.NewCooldown(cooldown),
	}
}

// Start launches the polling loop in a separate goroutine.
func (a *AlertService) Start() error {
	if a.ctx != nil {
		a.Logger.Warn().Msg("AlertService is already running")
		return errors.New("alert service is already running")
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.runPollingLoop()
	}()

	a.Logger.Info().Dur("interval", a.PollInterval).Msg("AlertService started, monitoring for motion")
	return nil
}

// Stop gracefully stops the alert service. An alert already being delivered is
// allowed to finish.
func (a *AlertService) Stop() error {
	if a.ctx == nil {
		a.Logger.Warn().Msg("AlertService is not running")
		return errors.New("alert service is not running")
	}

	a.cancel()
	a.wg.Wait()

	a.ctx = nil
	a.cancel = nil

	a.Logger.Info().Msg("AlertService stopped successfully")
	return nil
}

func (a *AlertService) runPollingLoop() {
	ticker := time.NewTicker(a.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Poll(a.ctx)
		case <-a.ctx.Done():
			a.Logger.Info().Msg("AlertService stopping gracefully")
			return
		}
	}
}

// Poll consumes a pending motion event, if any, and handles it. It reports
// whether an alert was dispatched.
func (a *AlertService) Poll(ctx context.Context) bool {
	if !a.Motion.Poll() {
		return false
	}

	now := a.Now()
	if !a.cooldown.Admit(now) {
		a.Metrics.AlertSuppressed("cooldown")
		a.Logger.Info().
			Dur("remaining", a.cooldown.Remaining(now)).
			Msg("Motion detected but in cooldown period, ignoring")
		return false
	}

	ref := a.Camera.Capture()
	a.Logger.Warn().Str("capture", ref).Msg("Motion alert triggered")

	res := a.Dispatcher.Dispatch(ctx, models.Alert{
		Reason:   constants.ReasonMotion,
		Message:  constants.MotionCaption,
		PhotoRef: ref,
	})
	if err := res.Err(); err != nil {
		a.Logger.Warn().Err(err).Msg("Motion alert delivered with errors")
	}
	return true
}
