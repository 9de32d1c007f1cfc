package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/memory"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

type recordingConversation struct {
	events []interfaces.InboundEvent
}

func (r *recordingConversation) HandleInbound(ctx context.Context, event interfaces.InboundEvent) error {
	r.events = append(r.events, event)
	return nil
}

func newTestServer(conv interfaces.ConversationService) *httptest.Server {
	webhook := NewWebhookHandler("secret-token", conv, logger.Nop{})
	orders := NewOrdersHandler(memory.NewOrderRepository(), logger.Nop{})
	return httptest.NewServer(NewRouter(webhook, orders, logger.Nop{}))
}

func TestWebhookVerifyHandshake(t *testing.T) {
	srv := newTestServer(&recordingConversation{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := make([]byte, 5)
	_, _ = resp.Body.Read(body)
	assert.Equal(t, "12345", string(body))
}

func TestWebhookVerifyRejectsBadToken(t *testing.T) {
	srv := newTestServer(&recordingConversation{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebhookReceiveDispatchesMessages(t *testing.T) {
	conv := &recordingConversation{}
	srv := newTestServer(conv)
	defer srv.Close()

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"contacts": [{"profile": {"name": "Sam"}, "wa_id": "911234567890"}],
					"messages": [{
						"from": "911234567890",
						"id": "wamid.1",
						"type": "text",
						"text": {"body": "hi"}
					}]
				}
			}]
		}]
	}`

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, conv.events, 1)
	assert.Equal(t, "911234567890", conv.events[0].From)
	assert.Equal(t, "Sam", conv.events[0].ProfileName)
	assert.Equal(t, "hi", conv.events[0].Text)
}

func TestWebhookReceiveAcknowledgesMalformedBody(t *testing.T) {
	srv := newTestServer(&recordingConversation{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebhookReceiveIgnoresStatusOnlyDeliveries(t *testing.T) {
	conv := &recordingConversation{}
	srv := newTestServer(conv)
	defer srv.Close()

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"field": "messages",
				"value": {
					"statuses": [{"id": "wamid.1", "status": "delivered", "recipient_id": "911234567890"}]
				}
			}]
		}]
	}`

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, conv.events)
}

func TestOrdersEndpointReturnsNotFound(t *testing.T) {
	srv := newTestServer(&recordingConversation{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/ORD-404")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
