package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/memory"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/checkout"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/scheduler"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

const testPhone = "911234567890"

type fakeCatalog struct {
	byID map[string]*domain.Product
}

func (f *fakeCatalog) Products(ctx context.Context) []*domain.Product {
	products := make([]*domain.Product, 0, len(f.byID))
	for _, p := range f.byID {
		products = append(products, p)
	}
	return products
}

func (f *fakeCatalog) ResolveAnyID(ctx context.Context, id string) *domain.Product {
	if p, ok := f.byID[id]; ok {
		return p
	}
	return domain.PlaceholderProduct(id, 9900)
}

func (f *fakeCatalog) Categories(ctx context.Context) []string { return []string{"South Indian"} }
func (f *fakeCatalog) ProductsByCategory(ctx context.Context, category string) []*domain.Product {
	return f.Products(ctx)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []interfaces.OutboundMessage
}

func (f *fakeSender) Send(ctx context.Context, msg interfaces.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) last() interfaces.OutboundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return interfaces.OutboundMessage{}
	}
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	svc      *Service
	sessions interfaces.SessionRepository
	orders   interfaces.OrderRepository
	sender   *fakeSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sessions := memory.NewSessionRepository()
	orders := memory.NewOrderRepository()
	sender := &fakeSender{}
	sched := scheduler.New()
	t.Cleanup(sched.Stop)

	catalog := &fakeCatalog{byID: map[string]*domain.Product{
		"sku-dosa": {ID: "1001", RetailerID: "sku-dosa", Name: "Masala Dosa", PricePaise: 12000, Available: true, Category: "South Indian"},
	}}

	pricing := domain.PricingRules{
		FreeDeliveryThresholdPaise: 50000,
		DeliveryFeePaise:           4000,
		TaxRatePercent:             5,
		DefaultPricePaise:          9900,
	}
	schedule := config.ScheduleConfig{
		PreparingAfterSeconds:      3600,
		OutForDeliveryAfterSeconds: 3600,
		DeliveredAfterSeconds:      3600,
		FeedbackAfterSeconds:       3600,
		PaymentDelaySeconds:        0,
		EstimatedDeliveryMinutes:   45,
	}
	loyalty := config.LoyaltyConfig{WelcomeBonus: 100, FeedbackBonus: 25, ComplaintBonus: 50}

	checkoutSvc := checkout.NewService(sessions, orders, catalog, sender, rabbitNop{}, sched, pricing, schedule, logger.Nop{})
	svc := NewService(sessions, orders, catalog, checkoutSvc, sender, loyalty, logger.Nop{})
	return &fixture{svc: svc, sessions: sessions, orders: orders, sender: sender}
}

type rabbitNop struct{}

func (rabbitNop) PublishOrderEvent(ctx context.Context, msg interfaces.OrderEventMessage) error {
	return nil
}

func text(body string) interfaces.InboundEvent {
	return interfaces.InboundEvent{From: testPhone, ProfileName: "Sam", Type: interfaces.InboundText, Text: body}
}

func button(id string) interfaces.InboundEvent {
	return interfaces.InboundEvent{From: testPhone, Type: interfaces.InboundButtonReply, ReplyID: id}
}

func (f *fixture) state(t *testing.T) domain.ConversationState {
	t.Helper()
	state, err := f.sessions.GetState(context.Background(), testPhone)
	require.NoError(t, err)
	return state
}

func TestFullOrderingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Greeting from an unseen number starts registration.
	require.NoError(t, f.svc.HandleInbound(ctx, text("hi")))
	assert.Equal(t, domain.StateRegistrationName, f.state(t))

	require.NoError(t, f.svc.HandleInbound(ctx, text("Sam")))
	assert.Equal(t, domain.StateRegistrationEmail, f.state(t))

	// Skipping the email finishes registration and awards the welcome bonus.
	require.NoError(t, f.svc.HandleInbound(ctx, text("skip")))
	assert.Equal(t, domain.StateAddressNeeded, f.state(t))

	customer, err := f.sessions.GetCustomer(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, customer.IsRegistered)
	assert.Equal(t, 100, customer.LoyaltyPoints)

	require.NoError(t, f.svc.HandleInbound(ctx, interfaces.InboundEvent{
		From: testPhone,
		Type: interfaces.InboundLocation,
		Location: &interfaces.LocationPayload{
			Latitude: 12.97, Longitude: 77.59, Address: "42 MG Road",
		},
	}))
	assert.Equal(t, domain.StateBrowsing, f.state(t))

	// A catalog checkout with one known and one deleted product id.
	require.NoError(t, f.svc.HandleInbound(ctx, interfaces.InboundEvent{
		From: testPhone,
		Type: interfaces.InboundOrder,
		OrderItems: []interfaces.OrderLineItem{
			{ProductRetailerID: "sku-dosa", Quantity: 2},
			{ProductRetailerID: "deleted-sku", Quantity: 1},
		},
	}))
	assert.Equal(t, domain.StateCartReview, f.state(t))

	cart, err := f.sessions.GetCart(ctx, testPhone)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(2*12000+9900), cart.SubtotalPaise())

	require.NoError(t, f.svc.HandleInbound(ctx, button("checkout")))
	assert.Equal(t, domain.StatePayment, f.state(t))

	require.NoError(t, f.svc.HandleInbound(ctx, button("pay_cod")))
	assert.Equal(t, domain.StateOrderPlaced, f.state(t))

	order, err := f.orders.LatestByPhone(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.Equal(t, domain.PaymentCOD, order.PaymentMethod)

	customer, err = f.sessions.GetCustomer(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 100+domain.LoyaltyPointsFor(order.Pricing.TotalPaise), customer.LoyaltyPoints)
}

func TestNonGreetingFromNewNumberStaysNew(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.HandleInbound(context.Background(), text("what do you sell")))
	assert.Equal(t, domain.StateNew, f.state(t))
	assert.NotEmpty(t, f.sender.last().Text)
}

func TestKnownCustomerGreetingSkipsRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))

	require.NoError(t, f.svc.HandleInbound(ctx, text("hello")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))
}

func TestInvalidEmailDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.HandleInbound(ctx, text("hi")))
	require.NoError(t, f.svc.HandleInbound(ctx, text("Sam")))
	require.NoError(t, f.svc.HandleInbound(ctx, text("not-an-email")))

	assert.Equal(t, domain.StateRegistrationEmail, f.state(t))

	customer, err := f.sessions.GetCustomer(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, customer.IsRegistered)
}

func TestInvalidNameReprompts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.HandleInbound(ctx, text("hi")))
	require.NoError(t, f.svc.HandleInbound(ctx, text("x")))

	assert.Equal(t, domain.StateRegistrationName, f.state(t))
}

func TestViewEmptyCartStaysBrowsing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	customer.AddAddress("42 MG Road")
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))
	require.NoError(t, f.sessions.SetState(ctx, testPhone, domain.StateBrowsing))

	require.NoError(t, f.svc.HandleInbound(ctx, button("view_cart")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))
}

func TestClearCartReturnsToBrowsing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	customer.AddAddress("42 MG Road")
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))
	require.NoError(t, f.sessions.SetState(ctx, testPhone, domain.StateBrowsing))

	require.NoError(t, f.svc.HandleInbound(ctx, interfaces.InboundEvent{
		From: testPhone,
		Type: interfaces.InboundOrder,
		OrderItems: []interfaces.OrderLineItem{
			{ProductRetailerID: "sku-dosa", Quantity: 1},
		},
	}))
	require.Equal(t, domain.StateCartReview, f.state(t))

	require.NoError(t, f.svc.HandleInbound(ctx, button("clear_cart")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))

	cart, err := f.sessions.GetCart(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCancelOrderFromOrderPlaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	customer.AddAddress("42 MG Road")
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))
	require.NoError(t, f.sessions.SetState(ctx, testPhone, domain.StateBrowsing))

	require.NoError(t, f.svc.HandleInbound(ctx, interfaces.InboundEvent{
		From: testPhone,
		Type: interfaces.InboundOrder,
		OrderItems: []interfaces.OrderLineItem{
			{ProductRetailerID: "sku-dosa", Quantity: 1},
		},
	}))
	require.NoError(t, f.svc.HandleInbound(ctx, button("checkout")))
	require.NoError(t, f.svc.HandleInbound(ctx, button("pay_upi")))
	require.Equal(t, domain.StateOrderPlaced, f.state(t))

	require.NoError(t, f.svc.HandleInbound(ctx, button("cancel_order")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))

	order, err := f.orders.LatestByPhone(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
}

func TestFeedbackGoodAwardsPointsAndReturnsToBrowsing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))
	require.NoError(t, f.sessions.SetState(ctx, testPhone, domain.StateFeedback))

	require.NoError(t, f.svc.HandleInbound(ctx, button("feedback_good")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))

	customer, err := f.sessions.GetCustomer(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 25, customer.LoyaltyPoints)
}

func TestFeedbackBadThenComplaint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := domain.NewCustomer(testPhone, "Sam")
	customer.IsRegistered = true
	require.NoError(t, f.sessions.SaveCustomer(ctx, customer))
	require.NoError(t, f.sessions.SetState(ctx, testPhone, domain.StateFeedback))

	require.NoError(t, f.svc.HandleInbound(ctx, button("feedback_bad")))
	assert.Equal(t, domain.StateFeedback, f.state(t))

	require.NoError(t, f.svc.HandleInbound(ctx, text("the food was cold")))
	assert.Equal(t, domain.StateBrowsing, f.state(t))

	customer, err := f.sessions.GetCustomer(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 25+50, customer.LoyaltyPoints)
}
