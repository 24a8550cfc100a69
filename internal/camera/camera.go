package camera

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	http_utils "github.com/benmeehan/home-sentinel/pkg/httpUtils"
	"github.com/rs/zerolog"
)

// Source yields a capture reference for the photo pipeline: either a URL or a
// JSON object {"url": "..."}.
type Source interface {
	Capture() string
}

// HTTPCamera is a LAN camera serving JPEG snapshots over HTTP.
type HTTPCamera struct {
	host string
	path string
}

func NewHTTPCamera(host, path string) *HTTPCamera {
	return &HTTPCamera{host: host, path: path}
}

// Capture returns the snapshot URL. The image itself is fetched by the pipeline.
func (c *HTTPCamera) Capture() string {
	return "http://" + c.host + c.path
}

// MockCamera hands out public placeholder images, one per capture.
type MockCamera struct {
	count atomic.Uint64
}

func NewMockCamera() *MockCamera {
	return &MockCamera{}
}

func (c *MockCamera) Capture() string {
	n := c.count.Add(1)
	return fmt.Sprintf(`{"url":"https://picsum.photos/640/480?random=%d"}`, n)
}

// CheckConnection dials host then issues one GET /. Any HTTP response counts as
// online. Only one attempt is made, unlike the image fetch.
func CheckConnection(ctx context.Context, host string, timeout time.Duration, logger zerolog.Logger) bool {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "80")
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		logger.Warn().Err(err).Str("host", host).Msg("Camera is offline or unreachable")
		return false
	}
	_ = conn.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+host+"/", nil)
	if err != nil {
		logger.Error().Err(err).Str("host", host).Msg("Failed to build camera check request")
		return false
	}

	resp, err := http_utils.NewSingleUseClient(timeout, timeout).Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("host", host).Msg("Camera accepted TCP but HTTP is not responding")
		return false
	}
	http_utils.DrainAndClose(resp.Body, 4096)

	logger.Info().Str("host", host).Int("status", resp.StatusCode).Msg("Camera is online")
	return true
}
