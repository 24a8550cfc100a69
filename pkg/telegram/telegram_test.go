package telegram_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benmeehan/home-sentinel/pkg/telegram"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method      string
	path        string
	query       map[string]string
	contentType string
	body        []byte
}

func newBotServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = map[string]string{}
		for k := range r.URL.Query() {
			got.query[k] = r.URL.Query().Get(k)
		}
		got.contentType = r.Header.Get("Content-Type")
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestClient_SendMessage(t *testing.T) {
	srv, got := newBotServer(t, http.StatusOK)
	c := telegram.NewClient(srv.URL, "TOKEN", "42", time.Second, zerolog.Nop())

	err := c.SendMessage(context.Background(), "⚠️ HIGH TEMPERATURE ALERT: 36.0°C (Limit: 34°C)")

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/botTOKEN/sendMessage", got.path)
	assert.Equal(t, "42", got.query["chat_id"])
	assert.Equal(t, "⚠️ HIGH TEMPERATURE ALERT: 36.0°C (Limit: 34°C)", got.query["text"])
}

func TestClient_SendPhotoURL(t *testing.T) {
	srv, got := newBotServer(t, http.StatusOK)
	c := telegram.NewClient(srv.URL+"/", "TOKEN", "42", time.Second, zerolog.Nop())

	err := c.SendPhotoURL(context.Background(), "http://10.0.0.5/jpg?x=1&y=2", "Motion detected")

	require.NoError(t, err)
	assert.Equal(t, "/botTOKEN/sendPhoto", got.path)
	assert.Equal(t, "http://10.0.0.5/jpg?x=1&y=2", got.query["photo"])
	assert.Equal(t, "Motion detected", got.query["caption"])
}

func TestClient_SendPhotoUpload(t *testing.T) {
	srv, got := newBotServer(t, http.StatusOK)
	c := telegram.NewClient(srv.URL, "TOKEN", "42", time.Second, zerolog.Nop())

	body := []byte("--b\r\n...\r\n--b--\r\n")
	err := c.SendPhotoUpload(context.Background(), "multipart/form-data; boundary=b", body)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "multipart/form-data; boundary=b", got.contentType)
	assert.Equal(t, body, got.body)
}

func TestClient_NonOKIsFailure(t *testing.T) {
	srv, _ := newBotServer(t, http.StatusBadRequest)
	c := telegram.NewClient(srv.URL, "TOKEN", "42", time.Second, zerolog.Nop())

	err := c.SendMessage(context.Background(), "hi")

	assert.ErrorIs(t, err, telegram.ErrUnexpectedStatus)
}

func TestClient_TransportErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := telegram.NewClient(base, "SECRET-TOKEN", "42", time.Second, zerolog.Nop())
	err := c.SendMessage(context.Background(), "hi")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN")
}

func TestClient_ImplementsChatClient(t *testing.T) {
	var _ telegram.ChatClient = telegram.NewClient("http://x", "t", "c", time.Second, zerolog.Nop())
}
