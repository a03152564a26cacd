package calendar

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vitorfarias/agendabot/pkg/logging"
)

// Handler serves the availability endpoint backed by the calendar.
type Handler struct {
	gateway  Gateway
	grid     []string
	step     time.Duration
	location *time.Location
	logger   *logging.Logger
}

// NewHandler creates an availability HTTP handler. grid is the clinic's
// daily slot list in HH:MM form.
func NewHandler(gateway Gateway, grid []string, step time.Duration, loc *time.Location, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{gateway: gateway, grid: grid, step: step, location: loc, logger: logger}
}

// Availability handles GET /api/disponibilidade?dia=&mes=&ano=. It lists the
// day's calendar events and returns the slot grid minus the occupied times.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	day, err := h.parseDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "dia, mes e ano são obrigatórios"})
		return
	}

	busy, err := h.gateway.ListDay(r.Context(), day)
	if err != nil {
		h.logger.Error("availability lookup failed", "error", err, "day", day.Format("2006-01-02"))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Erro ao consultar disponibilidade"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"disponiveis": AvailableSlots(h.grid, busy, h.step)})
}

func (h *Handler) parseDay(r *http.Request) (time.Time, error) {
	q := r.URL.Query()
	day, err := strconv.Atoi(q.Get("dia"))
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(q.Get("mes"))
	if err != nil {
		return time.Time{}, err
	}
	year, err := strconv.Atoi(q.Get("ano"))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, h.location), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
