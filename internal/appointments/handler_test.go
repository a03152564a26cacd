package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	svc := NewService(store, nil, nil, nil)
	return NewHandler(svc, nil), store
}

func TestHandlerCreateBooking(t *testing.T) {
	h, store := newTestHandler(t)

	body := `{"nome":"Ana","telefone":"5531999998888","email":"ana@example.com","data_agendamento":"10/05/2025","horario":"18:00","procedimento":"Avaliação"}`
	req := httptest.NewRequest(http.MethodPost, "/agendar", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.ID)

	rows, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Status.Equal(StatusPending))
}

func TestHandlerCreateBookingMissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"nome":"Ana","telefone":"5531999998888"}`
	req := httptest.NewRequest(http.MethodPost, "/agendar", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Todos os campos são obrigatórios.")
}

func TestHandlerCancelNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/cancelar", strings.NewReader(`{"id":"missing"}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerCancelRequiresID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/cancelar", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCancelIdempotent(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Append(context.Background(), &Appointment{
		ID: "a1", PatientName: "Ana", Status: StatusCancelled,
	}))

	req := httptest.NewRequest(http.MethodPost, "/cancelar", strings.NewReader(`{"id":"a1"}`))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "já estava Cancelado")
}

func TestHandlerListReturnsHeaderMaps(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Append(context.Background(), &Appointment{
		ID: "a1", PatientName: "Ana", Phone: "5531999998888",
		Date: "10/05/2025", Time: "18:00", Status: StatusPending,
	}))

	req := httptest.NewRequest(http.MethodGet, "/agendamentos-planilha", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0]["nome"])
}
