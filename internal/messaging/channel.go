package messaging

import (
	"context"
	"errors"

	"github.com/vitorfarias/agendabot/pkg/logging"
)

// ChannelState reflects the connection lifecycle of the WhatsApp session.
type ChannelState string

const (
	StateLoading      ChannelState = "loading"
	StateQRCode       ChannelState = "qr_code"
	StateConnected    ChannelState = "connected"
	StateDisconnected ChannelState = "disconnected"
	StateError        ChannelState = "error"
)

// ChannelStatus is the connection status plus an optional QR payload for pairing.
type ChannelStatus struct {
	State        ChannelState `json:"status"`
	QRCodeBase64 string       `json:"qrCodeBase64,omitempty"`
}

// ErrNotConnected is returned by senders when the channel session is down.
var ErrNotConnected = errors.New("messaging: channel not connected")

// Channel abstracts the messaging transport. Implementations can be swapped
// (bridge service, stub) without changing callers.
type Channel interface {
	Status(ctx context.Context) (ChannelStatus, error)
	SendText(ctx context.Context, phone, body string) error
}

// StubChannel logs outbound messages without sending. Used in tests and when
// no bridge is configured.
type StubChannel struct {
	logger *logging.Logger
}

// NewStubChannel creates a stub channel.
func NewStubChannel(logger *logging.Logger) *StubChannel {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubChannel{logger: logger}
}

// Status reports a permanently disconnected session.
func (c *StubChannel) Status(ctx context.Context) (ChannelStatus, error) {
	return ChannelStatus{State: StateDisconnected}, nil
}

// SendText logs but doesn't send.
func (c *StubChannel) SendText(ctx context.Context, phone, body string) error {
	c.logger.Info("stub channel: would send", "to", NormalizePhone(phone), "body_len", len(body))
	return nil
}

var _ Channel = (*StubChannel)(nil)
