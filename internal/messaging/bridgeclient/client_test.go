package bridgeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitorfarias/agendabot/internal/messaging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{BaseURL: srv.URL, APIToken: "secret"})
	require.NoError(t, err)
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":       "qr_code",
			"qrCodeBase64": "data:image/png;base64,abc",
		})
	})

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, messaging.StateQRCode, status.State)
	assert.Equal(t, "data:image/png;base64,abc", status.QRCodeBase64)
}

func TestStatusUnknownStateMapsToError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "warming_up"})
	})

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, messaging.StateError, status.State)
}

func TestSendTextWhenConnected(t *testing.T) {
	var sent sendTextRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "connected"})
		case "/api/messages":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	err := client.SendText(context.Background(), "11987654321", "Olá")
	require.NoError(t, err)
	assert.Equal(t, "5511987654321@c.us", sent.ChatID)
	assert.Equal(t, "Olá", sent.Body)
}

func TestSendTextSkipsWhenDisconnected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "disconnected"})
	})

	err := client.SendText(context.Background(), "11987654321", "Olá")
	assert.ErrorIs(t, err, messaging.ErrNotConnected)
}

func TestSendTextRejectsInvalidPhone(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	assert.Error(t, client.SendText(context.Background(), "---", "oi"))
}

func TestDoSurfacesHTTPErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := client.Status(context.Background())
	assert.ErrorContains(t, err, "status 502")
}
