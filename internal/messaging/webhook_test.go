package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	calls []string
	reply string
}

func (h *echoHandler) HandleMessage(_ context.Context, phone, body string) string {
	h.calls = append(h.calls, phone+"|"+body)
	return h.reply
}

type recordingChannel struct {
	StubChannel
	sent map[string]string
}

func (c *recordingChannel) SendText(_ context.Context, phone, body string) error {
	if c.sent == nil {
		c.sent = make(map[string]string)
	}
	c.sent[phone] = body
	return nil
}

func postWebhook(t *testing.T, h *WebhookHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookRoutesPrivateMessage(t *testing.T) {
	handler := &echoHandler{reply: "Olá!"}
	channel := &recordingChannel{}
	h := NewWebhookHandler(handler, channel, nil)

	rec := postWebhook(t, h, `{"from":"5531999998888@c.us","body":"oi","isGroup":false}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, handler.calls, 1)
	assert.Equal(t, "5531999998888|oi", handler.calls[0])
	assert.Equal(t, "Olá!", channel.sent["5531999998888"])
}

func TestWebhookIgnoresGroupMessages(t *testing.T) {
	handler := &echoHandler{reply: "Olá!"}
	channel := &recordingChannel{}
	h := NewWebhookHandler(handler, channel, nil)

	rec := postWebhook(t, h, `{"from":"123456789-987654@g.us","body":"oi","isGroup":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, handler.calls)
	assert.Empty(t, channel.sent)
}

func TestWebhookSkipsReplyWhenHandlerSilent(t *testing.T) {
	handler := &echoHandler{reply: ""}
	channel := &recordingChannel{}
	h := NewWebhookHandler(handler, channel, nil)

	rec := postWebhook(t, h, `{"from":"5531999998888@c.us","body":"oi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, handler.calls, 1)
	assert.Empty(t, channel.sent)
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	h := NewWebhookHandler(&echoHandler{}, &recordingChannel{}, nil)

	rec := postWebhook(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresUnparseablePhone(t *testing.T) {
	handler := &echoHandler{reply: "Olá!"}
	channel := &recordingChannel{}
	h := NewWebhookHandler(handler, channel, nil)

	rec := postWebhook(t, h, `{"from":"","body":"oi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, handler.calls)
}
