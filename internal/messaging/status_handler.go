package messaging

import (
	"encoding/json"
	"net/http"

	"github.com/vitorfarias/agendabot/pkg/logging"
)

// StatusHandler exposes the WhatsApp session state to the frontend, which
// polls it to render the QR code during pairing and to gate the booking form.
type StatusHandler struct {
	channel Channel
	logger  *logging.Logger
}

// NewStatusHandler creates a channel status handler.
func NewStatusHandler(channel Channel, logger *logging.Logger) *StatusHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusHandler{channel: channel, logger: logger}
}

// Status handles GET /api/whatsapp/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.channel.Status(r.Context())
	if err != nil {
		h.logger.Error("channel status lookup failed", "error", err)
		status = ChannelStatus{State: StateError}
	}
	writeStatusJSON(w, status)
}

// Readiness handles GET /api/agendamento/status-whatsapp, the booking form's
// readiness probe.
func (h *StatusHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status, err := h.channel.Status(r.Context())
	if err != nil {
		h.logger.Error("channel status lookup failed", "error", err)
		status = ChannelStatus{State: StateError}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"isReady": status.State == StateConnected,
		"status":  status.State,
	})
}

func writeStatusJSON(w http.ResponseWriter, status ChannelStatus) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
