package messaging

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vitorfarias/agendabot/internal/observability/metrics"
	"github.com/vitorfarias/agendabot/pkg/logging"
)

// InboundMessage is the payload the WhatsApp bridge posts for each received
// message.
type InboundMessage struct {
	From    string `json:"from"`
	Body    string `json:"body"`
	IsGroup bool   `json:"isGroup"`
}

// MessageHandler produces the reply for one inbound private message.
// Satisfied by conversation.Engine.
type MessageHandler interface {
	HandleMessage(ctx context.Context, phone, body string) string
}

// WebhookHandler receives inbound messages from the bridge, routes them
// through the conversation handler and sends the reply back over the channel.
type WebhookHandler struct {
	handler MessageHandler
	channel Channel
	logger  *logging.Logger
}

// NewWebhookHandler creates the inbound webhook handler.
func NewWebhookHandler(handler MessageHandler, channel Channel, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{handler: handler, channel: channel, logger: logger}
}

// ServeHTTP handles POST /webhooks/whatsapp. Group messages are dropped
// without touching conversation state. The bridge only needs to know the
// message was accepted, so the reply itself is sent asynchronously of the
// HTTP status.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msg InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, `{"ok":false,"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	if msg.IsGroup {
		metrics.IgnoredMessages.WithLabelValues("group").Inc()
		writeAccepted(w)
		return
	}

	phone := NormalizePhone(msg.From)
	if phone == "" {
		metrics.IgnoredMessages.WithLabelValues("invalid_phone").Inc()
		writeAccepted(w)
		return
	}

	reply := h.handler.HandleMessage(r.Context(), phone, msg.Body)
	if reply != "" {
		if err := h.channel.SendText(r.Context(), phone, reply); err != nil {
			h.logger.Error("reply send failed", "error", err, "phone", phone)
		}
	}
	writeAccepted(w)
}

func writeAccepted(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
