package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
)

func makeOrder(t *testing.T, phone string) *domain.Order {
	t.Helper()
	cart := domain.NewCart(phone)
	cart.AddItem(domain.CartItem{ProductID: "p1", Name: "Dosa", PricePaise: 12000, Quantity: 1})
	order, err := domain.NewOrder(cart, domain.PriceBreakdown{SubtotalPaise: 12000, TotalPaise: 12000}, "42 MG Road", 0)
	require.NoError(t, err)
	return order
}

func TestOrderRepositoryRoundTrip(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := makeOrder(t, "911234567890")
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, found.Items, 1)

	_, err = repo.FindByID(ctx, "ORD-missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepositoryUpdateStatusEnforcesTransitions(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	order := makeOrder(t, "911234567890")
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed))
	err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, found.Status)
}

func TestOrderRepositoryLatestByPhone(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	first := makeOrder(t, "911234567890")
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := makeOrder(t, "911234567890")
	require.NoError(t, repo.Create(ctx, second))

	latest, err := repo.LatestByPhone(ctx, "911234567890")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	orders, err := repo.ListByPhone(ctx, "911234567890")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = repo.LatestByPhone(ctx, "919999999999")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
