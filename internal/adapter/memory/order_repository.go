package memory

import (
	"context"
	"sync"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

type orderRepository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	byPhone map[string][]string
}

// NewOrderRepository returns the default in-memory order store.
func NewOrderRepository() interfaces.OrderRepository {
	return &orderRepository{
		orders:  make(map[string]*domain.Order),
		byPhone: make(map[string][]string),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneOrder(order)
	r.orders[order.ID] = clone
	r.byPhone[order.Phone] = append(r.byPhone[order.Phone], order.ID)
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	return order.TransitionTo(status)
}

func (r *orderRepository) SetPaymentMethod(ctx context.Context, id string, method domain.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.PaymentMethod = method
	return nil
}

func (r *orderRepository) ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byPhone[phone]
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (r *orderRepository) LatestByPhone(ctx context.Context, phone string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byPhone[phone]
	if len(ids) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	order, ok := r.orders[ids[len(ids)-1]]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = make([]domain.CartItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}
