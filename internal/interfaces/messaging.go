package interfaces

import (
	"context"
	"time"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
)

// Outbound message kinds understood by the messaging gateway.
type OutboundType string

const (
	OutboundText            OutboundType = "text"
	OutboundButtons         OutboundType = "buttons"
	OutboundList            OutboundType = "list"
	OutboundCatalog         OutboundType = "catalog"
	OutboundProductList     OutboundType = "product_list"
	OutboundOrderDetails    OutboundType = "order_details"
	OutboundLocationRequest OutboundType = "location_request"
)

// Button is one interactive reply button (max 3 per message on the wire).
type Button struct {
	ID    string
	Title string
}

// ListSection groups rows inside an interactive list message.
type ListSection struct {
	Title string
	Rows  []ListRow
}

type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSpec describes an interactive list message.
type ListSpec struct {
	ButtonLabel string
	Sections    []ListSection
}

// ProductSection groups catalog retailer ids for a product_list message.
type ProductSection struct {
	Title       string
	RetailerIDs []string
}

// OrderDetailsSpec describes the order-details/payment request message.
type OrderDetailsSpec struct {
	ReferenceID string
	Items       []domain.CartItem
	Pricing     domain.PriceBreakdown
	Expiration  time.Time
}

// OutboundMessage is the structured description the state machine produces;
// the gateway serializes it into the transport's wire format.
type OutboundMessage struct {
	To       string
	Type     OutboundType
	Text     string
	Header   string
	Footer   string
	Buttons  []Button
	List     *ListSpec
	Products []ProductSection
	Order    *OrderDetailsSpec
}

// MessageSender posts one outbound message to the messaging transport.
// At-most-once: errors are logged by callers and never retried.
type MessageSender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// Order lifecycle events published for dashboard-side consumers.
const (
	EventOrderCreated   = "OrderCreated"
	EventOrderStatus    = "OrderStatusChanged"
	EventOrderCancelled = "OrderCancelled"
)

// OrderEventMessage is the fanout payload for order lifecycle changes.
type OrderEventMessage struct {
	EventID    string             `json:"event_id"`
	EventType  string             `json:"event_type"`
	OccurredAt time.Time          `json:"occurred_at"`
	Producer   string             `json:"producer"`
	OrderID    string             `json:"order_id"`
	Phone      string             `json:"phone"`
	Status     domain.OrderStatus `json:"status"`
	TotalPaise int64              `json:"total_paise"`
}

// EventPublisher fans order events out to external consumers. A nil-safe
// no-op implementation is used when the broker is disabled.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, msg OrderEventMessage) error
}

// EventHandler consumes a raw published event body.
type EventHandler func(ctx context.Context, body []byte) error

// EventConsumer subscribes to the order-event fanout.
type EventConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler EventHandler) error
}
