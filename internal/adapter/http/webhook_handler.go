package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/whatsapp"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// WebhookHandler terminates the messaging platform's webhook: the GET
// verification handshake and the POST message deliveries.
type WebhookHandler struct {
	verifyToken  string
	conversation interfaces.ConversationService
	logger       logger.Logger
}

func NewWebhookHandler(verifyToken string, conversation interfaces.ConversationService, lgr logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifyToken:  verifyToken,
		conversation: conversation,
		logger:       lgr,
	}
}

// Verify answers the subscription handshake: echo hub.challenge when the
// verify token matches, 403 otherwise.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}

	h.logger.Error("webhook_verify_failed", "Webhook verification rejected", middleware.GetReqID(r.Context()), map[string]interface{}{
		"mode": q.Get("hub.mode"),
	}, nil)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Receive processes one webhook delivery. The platform redelivers on
// non-200, so the handler always acknowledges; processing failures are
// logged, never surfaced.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	var envelope whatsapp.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		h.logger.Error("webhook_decode_failed", "Failed to decode webhook body", requestID, nil, err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			h.handleChange(r, requestID, change.Value)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleChange(r *http.Request, requestID string, value whatsapp.ChangeValue) {
	for _, status := range value.Statuses {
		h.logger.Debug("delivery_status", "Message delivery status", requestID, map[string]interface{}{
			"message_id": status.ID,
			"status":     status.Status,
			"recipient":  status.RecipientID,
		})
	}

	profileName := ""
	if len(value.Contacts) > 0 {
		profileName = value.Contacts[0].Profile.Name
	}

	for _, msg := range value.Messages {
		event := whatsapp.ParseInbound(msg, profileName)
		if err := h.conversation.HandleInbound(r.Context(), event); err != nil {
			h.logger.Error("inbound_handling_failed", "Failed to handle inbound message", requestID, map[string]interface{}{
				"phone":      event.From,
				"message_id": event.MessageID,
			}, err)
		}
	}
}
