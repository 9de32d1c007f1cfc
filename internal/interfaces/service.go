package interfaces

import (
	"context"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
)

// Inbound event variants delivered by the webhook.
type InboundType string

const (
	InboundText        InboundType = "text"
	InboundButtonReply InboundType = "button_reply"
	InboundListReply   InboundType = "list_reply"
	InboundLocation    InboundType = "location"
	InboundOrder       InboundType = "order"
)

// LocationPayload is a shared-location message.
type LocationPayload struct {
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
}

// OrderLineItem is one line of a catalog checkout event. The retailer id
// may reference a product the catalog no longer returns; resolution is the
// catalog service's problem.
type OrderLineItem struct {
	ProductRetailerID string
	Quantity          int
	ItemPrice         float64
	Currency          string
}

// InboundEvent is the parsed inbound webhook message handed to the
// conversation service.
type InboundEvent struct {
	From        string
	ProfileName string
	MessageID   string
	Type        InboundType
	Text        string
	ReplyID     string
	ReplyTitle  string
	Location    *LocationPayload
	OrderItems  []OrderLineItem
}

// ConversationService runs the per-phone state machine over inbound events.
type ConversationService interface {
	HandleInbound(ctx context.Context, event InboundEvent) error
}

// CatalogService is the time-bounded product cache with fallback synthesis.
type CatalogService interface {
	Products(ctx context.Context) []*domain.Product
	// ResolveAnyID never returns nil: when every strategy misses it
	// synthesizes a placeholder and caches it under the requested id.
	ResolveAnyID(ctx context.Context, id string) *domain.Product
	Categories(ctx context.Context) []string
	ProductsByCategory(ctx context.Context, category string) []*domain.Product
}

// CheckoutService drives the cart/order/payment pipeline.
type CheckoutService interface {
	MergeOrderItems(ctx context.Context, phone string, lines []OrderLineItem) (*domain.Cart, error)
	Checkout(ctx context.Context, phone string) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, phone string, method domain.PaymentMethod) (*domain.Order, error)
	CancelOrder(ctx context.Context, phone string) (*domain.Order, error)
}
