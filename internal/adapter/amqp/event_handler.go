package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// EventHandler prints order lifecycle events to stdout for the
// event-subscriber mode.
type EventHandler struct {
	lgr logger.Logger
}

func NewEventHandler(lgr logger.Logger) *EventHandler {
	return &EventHandler{lgr: lgr}
}

func (h *EventHandler) Handle(ctx context.Context, body []byte) error {
	var event interfaces.OrderEventMessage
	if err := json.Unmarshal(body, &event); err != nil {
		h.lgr.Error("event_decode_failed", "failed to decode order event", "", nil, err)
		return fmt.Errorf("failed to decode order event: %w", err)
	}

	h.lgr.Info("order_event_received", "order event received", event.EventID, map[string]interface{}{
		"event_type": event.EventType,
		"order_id":   event.OrderID,
		"phone":      event.Phone,
		"status":     event.Status,
	})

	switch event.EventType {
	case interfaces.EventOrderCreated:
		fmt.Printf("Order %s created for %s (total %d paise)\n", event.OrderID, event.Phone, event.TotalPaise)
	case interfaces.EventOrderStatus:
		fmt.Printf("Order %s is now %s\n", event.OrderID, event.Status)
	case interfaces.EventOrderCancelled:
		fmt.Printf("Order %s was cancelled\n", event.OrderID)
	default:
		fmt.Printf("Unknown order event %q for %s\n", event.EventType, event.OrderID)
	}
	return nil
}
