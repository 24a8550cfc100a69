package camera_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benmeehan/home-sentinel/internal/camera"
	"github.com/benmeehan/home-sentinel/internal/delivery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHTTPCamera_Capture(t *testing.T) {
	c := camera.NewHTTPCamera("10.28.158.71", "/jpg")
	assert.Equal(t, "http://10.28.158.71/jpg", c.Capture())
}

func TestMockCamera_CaptureIsUniqueJSON(t *testing.T) {
	c := camera.NewMockCamera()

	first := c.Capture()
	second := c.Capture()

	assert.Equal(t, `{"url":"https://picsum.photos/640/480?random=1"}`, first)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "https://picsum.photos/640/480?random=2", delivery.ResolveCaptureRef(second))
}

func TestCheckConnection_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	assert.True(t, camera.CheckConnection(context.Background(), host, time.Second, zerolog.Nop()))
}

func TestCheckConnection_Offline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	assert.False(t, camera.CheckConnection(context.Background(), host, time.Second, zerolog.Nop()))
}

func TestCheckConnection_SingleHTTPAttempt(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	var accepted atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted.Add(1)
			// accept the TCP session but never answer HTTP
			defer conn.Close()
		}
	}()

	online := camera.CheckConnection(context.Background(), ln.Addr().String(), 200*time.Millisecond, zerolog.Nop())

	assert.False(t, online)
	// one probe dial plus one HTTP attempt
	assert.Equal(t, int32(2), accepted.Load())
}
