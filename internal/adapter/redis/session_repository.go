package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Key patterns, one namespace per session facet:
//   session:customer:{phone} -> customer JSON
//   session:state:{phone}    -> conversation state string
//   session:cart:{phone}     -> cart JSON
//   session:scratch:{phone}  -> hash of scratch keys
const (
	keyCustomer = "session:customer:%s"
	keyState    = "session:state:%s"
	keyCart     = "session:cart:%s"
	keyScratch  = "session:scratch:%s"
)

type sessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepository returns a redis-backed session store. Every key
// carries the session TTL, matching the messaging platform's 24-hour
// window by default.
func NewSessionRepository(cfg config.RedisConfig) (interfaces.SessionRepository, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &sessionRepository{rdb: rdb, ttl: cfg.SessionTTL()}, nil
}

func (r *sessionRepository) GetCustomer(ctx context.Context, phone string) (*domain.Customer, error) {
	raw, err := r.rdb.Get(ctx, fmt.Sprintf(keyCustomer, phone)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read customer: %w", err)
	}

	var customer domain.Customer
	if err := json.Unmarshal([]byte(raw), &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	return &customer, nil
}

func (r *sessionRepository) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	raw, err := json.Marshal(customer)
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}
	return r.rdb.Set(ctx, fmt.Sprintf(keyCustomer, customer.Phone), raw, r.ttl).Err()
}

func (r *sessionRepository) GetState(ctx context.Context, phone string) (domain.ConversationState, error) {
	raw, err := r.rdb.Get(ctx, fmt.Sprintf(keyState, phone)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.StateNew, nil
	}
	if err != nil {
		return domain.StateNew, fmt.Errorf("failed to read state: %w", err)
	}
	return domain.ConversationState(raw), nil
}

func (r *sessionRepository) SetState(ctx context.Context, phone string, state domain.ConversationState) error {
	return r.rdb.Set(ctx, fmt.Sprintf(keyState, phone), string(state), r.ttl).Err()
}

func (r *sessionRepository) GetCart(ctx context.Context, phone string) (*domain.Cart, error) {
	raw, err := r.rdb.Get(ctx, fmt.Sprintf(keyCart, phone)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(phone), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

func (r *sessionRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return r.rdb.Set(ctx, fmt.Sprintf(keyCart, cart.Phone), raw, r.ttl).Err()
}

func (r *sessionRepository) GetScratch(ctx context.Context, phone, key string) (string, error) {
	raw, err := r.rdb.HGet(ctx, fmt.Sprintf(keyScratch, phone), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read scratch: %w", err)
	}
	return raw, nil
}

func (r *sessionRepository) SetScratch(ctx context.Context, phone, key, value string) error {
	hashKey := fmt.Sprintf(keyScratch, phone)
	if err := r.rdb.HSet(ctx, hashKey, key, value).Err(); err != nil {
		return fmt.Errorf("failed to write scratch: %w", err)
	}
	return r.rdb.Expire(ctx, hashKey, r.ttl).Err()
}
