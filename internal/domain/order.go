package domain

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNotCancellable     = errors.New("order can no longer be cancelled")
	ErrOrderNotFound           = errors.New("order not found")
	ErrCustomerNotFound        = errors.New("customer not found")
)

// Order is the immutable snapshot produced at checkout. Items and pricing
// never change after creation; only Status and payment fields do.
type Order struct {
	ID                string         `json:"id"`
	Phone             string         `json:"phone"`
	Items             []CartItem     `json:"items"`
	Pricing           PriceBreakdown `json:"pricing"`
	Status            OrderStatus    `json:"status"`
	PaymentMethod     PaymentMethod  `json:"payment_method,omitempty"`
	DeliveryAddress   string         `json:"delivery_address"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	EstimatedDelivery time.Time      `json:"estimated_delivery"`
}

// NewOrder snapshots a cart into a pending order. The order id is derived
// from the creation time so ids sort chronologically.
func NewOrder(cart *Cart, pricing PriceBreakdown, address string, estimatedDelivery time.Duration) (*Order, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]CartItem, len(cart.Items))
	copy(items, cart.Items)

	now := time.Now()
	return &Order{
		ID:                fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Phone:             cart.Phone,
		Items:             items,
		Pricing:           pricing,
		Status:            OrderStatusPending,
		DeliveryAddress:   address,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.Add(estimatedDelivery),
	}, nil
}

// CanTransitionTo checks the order status graph.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to a new status.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return nil
}

// Cancellable reports whether the order may still be cancelled. Once it is
// out for delivery it runs to completion.
func (o *Order) Cancellable() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing:
		return true
	}
	return false
}

// Label is the human-readable status used in outbound messages.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending payment"
	case OrderStatusConfirmed:
		return "Confirmed"
	case OrderStatusPreparing:
		return "Being prepared"
	case OrderStatusOutForDelivery:
		return "Out for delivery"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}
