package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitorfarias/agendabot/pkg/logging"
)

// Handler provides the booking HTTP endpoints used by the public booking
// form and the operator dashboard.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns a chi router with the booking routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/agendar", h.Create)
	r.Post("/cancelar", h.Cancel)
	r.Get("/agendamentos-planilha", h.List)
	return r
}

// Create handles POST /api/agendar. The row is created as Pendente; the
// calendar event only appears after the patient confirms over WhatsApp.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p CreateParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "corpo inválido"})
		return
	}

	appt, err := h.service.Create(r.Context(), p)
	if errors.Is(err, ErrMissingFields) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Todos os campos são obrigatórios."})
		return
	}
	if err != nil {
		h.logger.Error("booking creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Falha ao agendar"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": appt.ID})
}

// Cancel handles POST /api/cancelar, the operator-initiated cancellation.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "ID do agendamento é obrigatório."})
		return
	}

	already, err := h.service.CancelByID(r.Context(), req.ID)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Agendamento não encontrado."})
		return
	}
	if err != nil {
		h.logger.Error("booking cancellation failed", "error", err, "appointment_id", req.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "Falha ao cancelar o agendamento."})
		return
	}

	if already {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Agendamento já estava Cancelado."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "message": "Agendamento " + req.ID + " cancelado com sucesso."})
}

// List handles GET /api/agendamentos-planilha for the operator dashboard.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("booking list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Erro ao listar agendamentos"})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
