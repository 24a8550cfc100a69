package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/home-sentinel/internal/metrics"
	http_utils "github.com/benmeehan/home-sentinel/pkg/httpUtils"
	"github.com/rs/zerolog"
)

// PhotoSender is the chat API surface the pipeline delivers through.
type PhotoSender interface {
	ChatID() string
	SendPhotoUpload(ctx context.Context, contentType string, body []byte) error
	SendPhotoURL(ctx context.Context, photoURL, caption string) error
}

// Outcome is how a photo notification ended up being delivered.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	// OutcomeUploaded: image relayed through the device as a multipart upload.
	OutcomeUploaded
	// OutcomeURL: public URL handed to the chat API directly.
	OutcomeURL
	// OutcomeFallback: private image could not be relayed, URL sent instead.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeURL:
		return "url"
	case OutcomeFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// UploadConfig bounds the multipart upload leg.
type UploadConfig struct {
	Attempts    int
	BackoffBase time.Duration
	Timeout     time.Duration
}

// Pipeline turns a capture reference into a delivered photo notification.
type Pipeline struct {
	fetcher *Fetcher
	sender  PhotoSender
	upload  UploadConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewPipeline(fetcher *Fetcher, sender PhotoSender, upload UploadConfig, m *metrics.Metrics, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		sender:  sender,
		upload:  upload,
		metrics: m,
		logger:  logger,
	}
}

// Deliver runs fetch, upload and URL fallback in that order, each leg fully
// resolving before the next starts. Attempts are bounded by their own timeouts
// and attempt caps and are not interrupted by cancellation of ctx.
func (p *Pipeline) Deliver(ctx context.Context, ref, caption string) (Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	outcome, err := p.deliver(ctx, ref, caption)
	p.metrics.Delivery(outcome.String())
	if err != nil {
		p.logger.Error().Err(err).Str("ref", ref).Msg("Photo delivery failed")
	} else {
		p.logger.Info().Str("outcome", outcome.String()).Msg("Photo delivered")
	}
	return outcome, err
}

func (p *Pipeline) deliver(ctx context.Context, ref, caption string) (Outcome, error) {
	photoURL := ResolveCaptureRef(ref)
	if photoURL == "" {
		return OutcomeFailed, fmt.Errorf("%w: empty capture reference", ErrDeliveryFailed)
	}

	if !http_utils.IsPrivateURL(photoURL) {
		if err := p.sender.SendPhotoURL(ctx, photoURL, caption); err != nil {
			return OutcomeFailed, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		return OutcomeURL, nil
	}

	legErr := p.relay(ctx, photoURL, caption)
	if legErr == nil {
		return OutcomeUploaded, nil
	}

	p.logger.Warn().Err(legErr).Str("url", photoURL).Msg("Relaying image failed, falling back to URL delivery")
	if err := p.sender.SendPhotoURL(ctx, photoURL, caption); err != nil {
		return OutcomeFailed, fmt.Errorf("%w: %w", ErrDeliveryFailed, errors.Join(legErr, err))
	}
	return OutcomeFallback, nil
}

// relay fetches the private image and uploads it as multipart.
func (p *Pipeline) relay(ctx context.Context, photoURL, caption string) error {
	image, err := p.fetcher.Fetch(ctx, photoURL)
	if err != nil {
		return err
	}

	envelope := BuildEnvelope(p.sender.ChatID(), caption, image)
	defer envelope.Release()

	p.logger.Debug().
		Int("body_bytes", envelope.Len()).
		Int("image_offset", envelope.ImageOffset()).
		Msg("Multipart envelope assembled")

	return p.uploadWithRetry(ctx, envelope)
}

func (p *Pipeline) uploadWithRetry(ctx context.Context, envelope *Envelope) error {
	var lastErr error
	for attempt := 1; attempt <= p.upload.Attempts; attempt++ {
		err := p.uploadOnce(ctx, envelope)
		if err == nil {
			p.metrics.UploadAttempt("ok")
			p.logger.Info().Int("attempt", attempt).Msg("Photo uploaded")
			return nil
		}

		lastErr = err
		p.metrics.UploadAttempt("error")
		p.logger.Warn().Err(err).Int("attempt", attempt).Msg("Photo upload attempt failed")

		if attempt < p.upload.Attempts {
			if err := sleep(ctx, time.Duration(attempt)*p.upload.BackoffBase); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrUploadExhausted, p.upload.Attempts, lastErr)
}

func (p *Pipeline) uploadOnce(ctx context.Context, envelope *Envelope) error {
	if p.upload.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.upload.Timeout)
		defer cancel()
	}
	return p.sender.SendPhotoUpload(ctx, envelope.ContentType(), envelope.Body())
}
