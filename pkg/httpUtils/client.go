package http_utils

import (
	"io"
	"net"
	"net/http"
	"time"
)

// NewSingleUseClient returns a client whose connections are never pooled, so
// every request dials a fresh connection. timeout bounds the whole exchange.
func NewSingleUseClient(timeout, dialTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
		DisableKeepAlives:   true,
		TLSHandshakeTimeout: dialTimeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// DrainAndClose discards up to limit bytes of body and closes it.
func DrainAndClose(body io.ReadCloser, limit int64) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, limit))
	_ = body.Close()
}

// Snippet reads at most limit bytes of body for diagnostics.
func Snippet(body io.Reader, limit int64) string {
	b, _ := io.ReadAll(io.LimitReader(body, limit))
	return string(b)
}
