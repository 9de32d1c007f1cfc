package interfaces

import (
	"context"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
)

// SessionRepository holds everything keyed by phone number: the customer
// profile, the conversation state, the cart and a small scratch area for
// cross-message context (pending order id, feedback order id). The default
// backend is process memory; a redis backend can be selected by config.
type SessionRepository interface {
	GetCustomer(ctx context.Context, phone string) (*domain.Customer, error)
	SaveCustomer(ctx context.Context, customer *domain.Customer) error

	GetState(ctx context.Context, phone string) (domain.ConversationState, error)
	SetState(ctx context.Context, phone string, state domain.ConversationState) error

	GetCart(ctx context.Context, phone string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error

	GetScratch(ctx context.Context, phone, key string) (string, error)
	SetScratch(ctx context.Context, phone, key, value string) error
}

// OrderRepository stores checkout snapshots. Orders accumulate per phone
// number over time. The default backend is process memory; a postgres
// backend can be selected by config.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetPaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) error
	ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error)
	LatestByPhone(ctx context.Context, phone string) (*domain.Order, error)
}

// Scratch keys shared between the conversation and checkout services.
const (
	ScratchPendingOrder  = "pending_order_id"
	ScratchFeedbackOrder = "feedback_order_id"
)
