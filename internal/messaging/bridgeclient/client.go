// Package bridgeclient talks to the WhatsApp session bridge over REST.
// The bridge owns authentication, QR pairing, and delivery; this client only
// queries session status and submits outbound texts.
package bridgeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vitorfarias/agendabot/internal/messaging"
)

const defaultUserAgent = "agendabot-whatsapp-bridge/0.1"

// Config controls how the bridge client behaves.
type Config struct {
	BaseURL    string
	APIToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the bridge REST endpoints used by the bot.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("bridgeclient: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		apiToken:   cfg.APIToken,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

type statusPayload struct {
	Status       string `json:"status"`
	QRCodeBase64 string `json:"qrCodeBase64"`
}

// Status queries the bridge session state.
func (c *Client) Status(ctx context.Context) (messaging.ChannelStatus, error) {
	var payload statusPayload
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &payload); err != nil {
		return messaging.ChannelStatus{State: messaging.StateError}, err
	}
	state := messaging.ChannelState(payload.Status)
	switch state {
	case messaging.StateLoading, messaging.StateQRCode, messaging.StateConnected, messaging.StateDisconnected, messaging.StateError:
	default:
		state = messaging.StateError
	}
	return messaging.ChannelStatus{State: state, QRCodeBase64: payload.QRCodeBase64}, nil
}

type sendTextRequest struct {
	ChatID string `json:"chatId"`
	Body   string `json:"body"`
}

// SendText submits an outbound text for the given phone. The session must be
// connected; a down session surfaces as ErrNotConnected.
func (c *Client) SendText(ctx context.Context, phone, body string) error {
	chatID := messaging.RecipientID(phone)
	if chatID == "" {
		return fmt.Errorf("bridgeclient: invalid phone %q", phone)
	}
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if status.State != messaging.StateConnected {
		c.logger.Warn("bridge session not connected, skipping send",
			"to", chatID, "state", string(status.State))
		return messaging.ErrNotConnected
	}
	if err := c.do(ctx, http.MethodPost, "/api/messages", sendTextRequest{ChatID: chatID, Body: body}, nil); err != nil {
		return err
	}
	c.logger.Info("message sent", "to", chatID)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("bridgeclient: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("bridgeclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridgeclient: %s %s: %w", method, path, err)
	}
	defer func() { _, _ = io.Copy(io.Discard, resp.Body); _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("bridgeclient: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("bridgeclient: decode response: %w", err)
		}
	}
	return nil
}

var _ messaging.Channel = (*Client)(nil)
