package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitorfarias/agendabot/internal/appointments"
	"github.com/vitorfarias/agendabot/internal/calendar"
	"github.com/vitorfarias/agendabot/internal/conversation"
	"github.com/vitorfarias/agendabot/internal/intent"
	"github.com/vitorfarias/agendabot/internal/messaging"
	"github.com/vitorfarias/agendabot/internal/notify"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := appointments.NewInMemoryStore()
	channel := messaging.NewStubChannel(nil)
	gateway := calendar.NewStubGateway(nil)
	notifier := notify.NewNotifier(channel, nil, "", "", nil)
	responder := intent.NewResponder("https://clinica.example.com")
	engine := conversation.NewEngine(store, conversation.NewMemoryStateStore(0), gateway, notifier, responder, nil)

	svc := appointments.NewService(store, gateway, notifier, nil)

	return New(&Config{
		BookingHandler:  appointments.NewHandler(svc, nil),
		CalendarHandler: calendar.NewHandler(gateway, []string{"18:00"}, 30*time.Minute, time.UTC, nil),
		StatusHandler:   messaging.NewStatusHandler(channel, nil),
		WebhookHandler:  messaging.NewWebhookHandler(engine, channel, nil),
		MetricsHandler:  promhttp.Handler(),
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealth(t *testing.T) {
	rec := get(t, newTestRouter(t), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRouterMetrics(t *testing.T) {
	rec := get(t, newTestRouter(t), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterStatusEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/api/whatsapp/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status"`)

	rec = get(t, h, "/api/agendamento/status-whatsapp")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isReady":false`)
}

func TestRouterAvailability(t *testing.T) {
	rec := get(t, newTestRouter(t), "/api/disponibilidade?dia=10&mes=5&ano=2025")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disponiveis"`)
}

func TestRouterBookingRoutes(t *testing.T) {
	h := newTestRouter(t)

	body := `{"nome":"Ana","telefone":"5531999998888","email":"ana@example.com","data_agendamento":"10/05/2025","horario":"18:00","procedimento":"Avaliação"}`
	req := httptest.NewRequest(http.MethodPost, "/api/agendar", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/api/agendamentos-planilha")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nome":"Ana"`)
}

func TestRouterWebhook(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp",
		strings.NewReader(`{"from":"5531999998888@c.us","body":"bom dia"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}
