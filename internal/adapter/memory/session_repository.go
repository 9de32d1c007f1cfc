package memory

import (
	"context"
	"sync"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

type sessionRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	states    map[string]domain.ConversationState
	carts     map[string]*domain.Cart
	scratch   map[string]map[string]string
}

// NewSessionRepository returns the default in-memory session store. All
// state is process-lifetime only; a restart loses every session.
func NewSessionRepository() interfaces.SessionRepository {
	return &sessionRepository{
		customers: make(map[string]*domain.Customer),
		states:    make(map[string]domain.ConversationState),
		carts:     make(map[string]*domain.Cart),
		scratch:   make(map[string]map[string]string),
	}
}

func (r *sessionRepository) GetCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[phone]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (r *sessionRepository) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *customer
	r.customers[customer.Phone] = &clone
	return nil
}

func (r *sessionRepository) GetState(ctx context.Context, phone string) (domain.ConversationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if state, ok := r.states[phone]; ok {
		return state, nil
	}
	return domain.StateNew, nil
}

func (r *sessionRepository) SetState(ctx context.Context, phone string, state domain.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[phone] = state
	return nil
}

func (r *sessionRepository) GetCart(ctx context.Context, phone string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[phone]
	if !ok {
		return domain.NewCart(phone), nil
	}
	clone := domain.Cart{Phone: cart.Phone, Items: make([]domain.CartItem, len(cart.Items))}
	copy(clone.Items, cart.Items)
	return &clone, nil
}

func (r *sessionRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := domain.Cart{Phone: cart.Phone, Items: make([]domain.CartItem, len(cart.Items))}
	copy(clone.Items, cart.Items)
	r.carts[cart.Phone] = &clone
	return nil
}

func (r *sessionRepository) GetScratch(ctx context.Context, phone, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.scratch[phone][key], nil
}

func (r *sessionRepository) SetScratch(ctx context.Context, phone, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scratch[phone] == nil {
		r.scratch[phone] = make(map[string]string)
	}
	r.scratch[phone][key] = value
	return nil
}
