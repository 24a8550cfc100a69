package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/benmeehan/home-sentinel/internal/metrics"
	http_utils "github.com/benmeehan/home-sentinel/pkg/httpUtils"
	"github.com/rs/zerolog"
)

// FetchConfig bounds image retrieval from the capture source.
type FetchConfig struct {
	Attempts      int
	BackoffBase   time.Duration
	IdleTimeout   time.Duration
	Timeout       time.Duration
	InitialBuffer int
	MaxImageBytes int
}

// Fetcher downloads an image from a LAN capture source with retries.
type Fetcher struct {
	cfg     FetchConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewFetcher(cfg FetchConfig, m *metrics.Metrics, logger zerolog.Logger) *Fetcher {
	return &Fetcher{cfg: cfg, metrics: m, logger: logger}
}

// Fetch makes up to cfg.Attempts attempts, sleeping attempt×BackoffBase after each
// failure. The returned bytes are owned by the caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.cfg.Attempts; attempt++ {
		start := time.Now()
		image, err := f.attempt(ctx, url)
		if err == nil {
			f.metrics.FetchAttempt("ok")
			f.logger.Info().
				Int("attempt", attempt).
				Int("bytes", len(image)).
				Dur("elapsed", time.Since(start)).
				Msg("Image fetched")
			return image, nil
		}

		lastErr = err
		f.metrics.FetchAttempt("error")
		f.logger.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("Image fetch attempt failed")

		if attempt < f.cfg.Attempts {
			if err := sleep(ctx, time.Duration(attempt)*f.cfg.BackoffBase); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrFetchExhausted, f.cfg.Attempts, lastErr)
}

// attempt performs one GET on a fresh connection.
func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stalled atomic.Bool
	watchdog := time.AfterFunc(f.cfg.IdleTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Close = true

	client := http_utils.NewSingleUseClient(f.cfg.Timeout, f.cfg.IdleTimeout)
	resp, err := client.Do(req)
	if err != nil {
		if stalled.Load() {
			return nil, ErrIdleTimeout
		}
		return nil, fmt.Errorf("fetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrFetchStatus, resp.StatusCode)
	}

	buf, err := NewImageBuffer(resp.ContentLength, f.cfg.InitialBuffer, f.cfg.MaxImageBytes)
	if err != nil {
		return nil, err
	}

	body := &progressReader{r: resp.Body, onProgress: func() { watchdog.Reset(f.cfg.IdleTimeout) }}
	if _, err := buf.ReadFrom(body); err != nil {
		buf.Release()
		if stalled.Load() {
			return nil, ErrIdleTimeout
		}
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		buf.Release()
		return nil, err
	}
	return buf.Detach(), nil
}

// progressReader reports every read that returned data.
type progressReader struct {
	r          io.Reader
	onProgress func()
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.onProgress()
	}
	return n, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
