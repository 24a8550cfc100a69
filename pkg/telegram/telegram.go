package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	http_utils "github.com/benmeehan/home-sentinel/pkg/httpUtils"
	"github.com/rs/zerolog"
)

// ErrUnexpectedStatus is returned for any response other than 200 OK.
var ErrUnexpectedStatus = errors.New("telegram: unexpected response status")

const maxErrorBody = 512

// ChatClient is the subset of the Bot API the agent uses.
type ChatClient interface {
	ChatID() string
	SendMessage(ctx context.Context, text string) error
	SendPhotoURL(ctx context.Context, photoURL, caption string) error
	SendPhotoUpload(ctx context.Context, contentType string, body []byte) error
}

// Client talks to the Telegram Bot API for a single chat.
type Client struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a Bot API client. baseURL is normally https://api.telegram.org.
func NewClient(baseURL, token, chatID string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ChatID returns the destination chat.
func (c *Client) ChatID() string {
	return c.chatID
}

// SendMessage posts a text message.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	q := url.Values{}
	q.Set("chat_id", c.chatID)
	q.Set("text", text)
	return c.get(ctx, "sendMessage", q)
}

// SendPhotoURL asks Telegram to fetch photoURL itself and post it with caption.
func (c *Client) SendPhotoURL(ctx context.Context, photoURL, caption string) error {
	q := url.Values{}
	q.Set("chat_id", c.chatID)
	q.Set("photo", photoURL)
	q.Set("caption", caption)
	return c.get(ctx, "sendPhoto", q)
}

// SendPhotoUpload posts a pre-encoded multipart/form-data body to sendPhoto.
func (c *Client) SendPhotoUpload(ctx context.Context, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendPhoto"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendPhoto request: %w", c.redact(err))
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))
	return c.do(req, "sendPhoto")
}

func (c *Client) get(ctx context.Context, method string, q url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(method)+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, c.redact(err))
	}
	return c.do(req, method)
}

func (c *Client) do(req *http.Request, method string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, c.redact(err))
	}
	defer http_utils.DrainAndClose(resp.Body, maxErrorBody)

	if resp.StatusCode != http.StatusOK {
		snippet := http_utils.Snippet(resp.Body, maxErrorBody)
		c.logger.Warn().
			Str("method", method).
			Int("status", resp.StatusCode).
			Str("response", snippet).
			Msg("Telegram request rejected")
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, method, resp.StatusCode)
	}

	c.logger.Debug().Str("method", method).Msg("Telegram request succeeded")
	return nil
}

func (c *Client) endpoint(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

// redact strips the bot token from transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && c.token != "" {
		uerr.URL = strings.ReplaceAll(uerr.URL, c.token, "<redacted>")
	}
	return err
}
