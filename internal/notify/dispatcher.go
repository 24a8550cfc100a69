package notify

import (
	"context"
	"errors"
	"time"

	"github.com/benmeehan/home-sentinel/internal/delivery"
	"github.com/benmeehan/home-sentinel/internal/metrics"
	"github.com/benmeehan/home-sentinel/internal/models"
	"github.com/rs/zerolog"
)

// TextSender sends plain chat messages.
type TextSender interface {
	SendMessage(ctx context.Context, text string) error
}

// PhotoDeliverer delivers a photo notification from a capture reference.
type PhotoDeliverer interface {
	Deliver(ctx context.Context, ref, caption string) (delivery.Outcome, error)
}

// AlertPublisher publishes alert events on the telemetry channel.
type AlertPublisher interface {
	PublishAlert(reason, photoURL string) error
}

// Result holds the independent outcome of each channel.
type Result struct {
	Chat      error
	Telemetry error
}

// Err joins both channel errors.
func (r Result) Err() error {
	return errors.Join(r.Chat, r.Telemetry)
}

// Dispatcher fans an alert out to the chat channel, then after a fixed pause
// to the telemetry channel. Neither channel's failure gates the other.
type Dispatcher struct {
	chat      TextSender
	photos    PhotoDeliverer
	telemetry AlertPublisher
	pacing    time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewDispatcher(chat TextSender, photos PhotoDeliverer, telemetry AlertPublisher, pacing time.Duration,
	m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		chat:      chat,
		photos:    photos,
		telemetry: telemetry,
		pacing:    pacing,
		metrics:   m,
		logger:    logger,
	}
}

// Dispatch delivers alert on both channels in order. The telemetry channel only
// ever receives the reason; photos go to chat alone.
func (d *Dispatcher) Dispatch(ctx context.Context, alert models.Alert) Result {
	start := time.Now()
	d.metrics.AlertFired(alert.Reason)

	var res Result
	if alert.HasPhoto() {
		_, res.Chat = d.photos.Deliver(ctx, alert.PhotoRef, alert.Message)
	} else {
		res.Chat = d.chat.SendMessage(ctx, alert.Message)
	}
	if res.Chat != nil {
		d.logger.Error().Err(res.Chat).Str("reason", alert.Reason).Msg("Chat notification failed")
	}

	time.Sleep(d.pacing)

	res.Telemetry = d.telemetry.PublishAlert(alert.Reason, "")
	if res.Telemetry != nil {
		d.logger.Error().Err(res.Telemetry).Str("reason", alert.Reason).Msg("Telemetry alert failed")
	}

	d.logger.Info().
		Str("reason", alert.Reason).
		Bool("chat_ok", res.Chat == nil).
		Bool("telemetry_ok", res.Telemetry == nil).
		Dur("elapsed", time.Since(start)).
		Msg("Alert dispatched")
	return res
}
