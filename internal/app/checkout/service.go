package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/scheduler"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

const eventProducer = "zenocon-bot"

var ErrNoDeliveryAddress = errors.New("customer has no delivery address")

// Service drives the cart through checkout, payment and the simulated
// fulfilment timeline. Status progression runs on scheduler timers so it
// survives between webhook calls; cancelling an order stops its timers.
type Service struct {
	sessions  interfaces.SessionRepository
	orders    interfaces.OrderRepository
	catalog   interfaces.CatalogService
	sender    interfaces.MessageSender
	publisher interfaces.EventPublisher
	scheduler *scheduler.Scheduler
	logger    logger.Logger
	pricing   domain.PricingRules
	schedule  config.ScheduleConfig
}

func NewService(
	sessions interfaces.SessionRepository,
	orders interfaces.OrderRepository,
	catalog interfaces.CatalogService,
	sender interfaces.MessageSender,
	publisher interfaces.EventPublisher,
	sched *scheduler.Scheduler,
	pricing domain.PricingRules,
	schedule config.ScheduleConfig,
	lgr logger.Logger,
) *Service {
	return &Service{
		sessions:  sessions,
		orders:    orders,
		catalog:   catalog,
		sender:    sender,
		publisher: publisher,
		scheduler: sched,
		logger:    lgr,
		pricing:   pricing,
		schedule:  schedule,
	}
}

var _ interfaces.CheckoutService = (*Service)(nil)

// MergeOrderItems folds catalog checkout lines into the cart. Every line is
// resolved through the catalog service, so deleted or renamed products still
// land in the cart as placeholders instead of failing the order.
func (s *Service) MergeOrderItems(ctx context.Context, phone string, lines []interfaces.OrderLineItem) (*domain.Cart, error) {
	cart, err := s.sessions.GetCart(ctx, phone)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		product := s.catalog.ResolveAnyID(ctx, line.ProductRetailerID)

		price := product.PricePaise
		if price == 0 && line.ItemPrice > 0 {
			price = domain.RupeesToPaise(line.ItemPrice)
		}
		if price == 0 {
			price = s.pricing.DefaultPricePaise
		}

		cart.AddItem(domain.CartItem{
			ProductID:   product.ID,
			Name:        product.Name,
			PricePaise:  price,
			Quantity:    line.Quantity,
			ImageURL:    product.ImageURL,
			Description: product.Description,
		})
	}

	if err := s.sessions.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Checkout snapshots the cart into a pending order and records it as the
// customer's pending order.
func (s *Service) Checkout(ctx context.Context, phone string) (*domain.Order, error) {
	customer, err := s.sessions.GetCustomer(ctx, phone)
	if err != nil {
		return nil, err
	}
	address := customer.LatestAddress()
	if address == "" {
		return nil, ErrNoDeliveryAddress
	}

	cart, err := s.sessions.GetCart(ctx, phone)
	if err != nil {
		return nil, err
	}

	breakdown := domain.ComputePricing(cart.SubtotalPaise(), s.pricing)
	order, err := domain.NewOrder(cart, breakdown, address, s.schedule.EstimatedDelivery())
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.sessions.SetScratch(ctx, phone, interfaces.ScratchPendingOrder, order.ID); err != nil {
		return nil, err
	}

	s.publish(ctx, interfaces.EventOrderCreated, order)
	s.logger.Info("order_created", "Order created from cart", order.ID, map[string]interface{}{
		"phone":       phone,
		"items":       len(order.Items),
		"total_paise": order.Pricing.TotalPaise,
	})
	return order, nil
}

// ConfirmPayment records the payment method, confirms the order, awards
// loyalty points, empties the cart and arms the fulfilment timers.
func (s *Service) ConfirmPayment(ctx context.Context, phone string, method domain.PaymentMethod) (*domain.Order, error) {
	order, err := s.pendingOrder(ctx, phone)
	if err != nil {
		return nil, err
	}

	// Simulated gateway round trip.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.schedule.PaymentDelay()):
	}

	if err := s.orders.SetPaymentMethod(ctx, order.ID, method); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed); err != nil {
		return nil, err
	}
	order, err = s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if customer, err := s.sessions.GetCustomer(ctx, phone); err == nil {
		customer.AwardPoints(domain.LoyaltyPointsFor(order.Pricing.TotalPaise))
		if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
			s.logger.Error("loyalty_save_failed", "Failed to persist loyalty points", order.ID, nil, err)
		}
	}

	cart := domain.NewCart(phone)
	if err := s.sessions.SaveCart(ctx, cart); err != nil {
		s.logger.Error("cart_clear_failed", "Failed to clear cart after payment", order.ID, nil, err)
	}

	s.publish(ctx, interfaces.EventOrderStatus, order)
	s.scheduleProgression(order.ID, phone)

	s.logger.Info("payment_confirmed", "Payment confirmed, order scheduled", order.ID, map[string]interface{}{
		"phone":  phone,
		"method": method,
	})
	return order, nil
}

// CancelOrder cancels the customer's pending order if the fulfilment has not
// passed the point of no return, and stops its timers.
func (s *Service) CancelOrder(ctx context.Context, phone string) (*domain.Order, error) {
	order, err := s.pendingOrder(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return order, domain.ErrOrderNotCancellable
	}

	s.scheduler.Cancel(order.ID)
	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order, err = s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, interfaces.EventOrderCancelled, order)
	s.logger.Info("order_cancelled", "Order cancelled by customer", order.ID, map[string]interface{}{
		"phone": phone,
	})
	return order, nil
}

func (s *Service) pendingOrder(ctx context.Context, phone string) (*domain.Order, error) {
	id, err := s.sessions.GetScratch(ctx, phone, interfaces.ScratchPendingOrder)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return s.orders.FindByID(ctx, id)
	}
	return s.orders.LatestByPhone(ctx, phone)
}

// scheduleProgression arms the simulated kitchen: preparing, out for
// delivery, delivered, then a feedback prompt. Each step advances the order,
// notifies the customer and fans out an event.
func (s *Service) scheduleProgression(orderID, phone string) {
	steps := []struct {
		delay  time.Duration
		status domain.OrderStatus
		text   string
	}{
		{s.schedule.PreparingAfter(), domain.OrderStatusPreparing,
			"👨‍🍳 Your order is being prepared!"},
		{s.schedule.OutForDeliveryAfter(), domain.OrderStatusOutForDelivery,
			"🛵 Your order is out for delivery!"},
		{s.schedule.DeliveredAfter(), domain.OrderStatusDelivered,
			"✅ Your order has been delivered. Enjoy!"},
	}

	for _, step := range steps {
		step := step
		s.scheduler.Schedule(orderID, step.delay, func() {
			s.advance(orderID, phone, step.status, step.text)
		})
	}

	s.scheduler.Schedule(orderID, s.schedule.FeedbackAfter(), func() {
		s.promptFeedback(orderID, phone)
	})
}

func (s *Service) advance(orderID, phone string, status domain.OrderStatus, text string) {
	ctx := context.Background()

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		s.logger.Error("status_advance_failed", "Scheduled status update failed", orderID, map[string]interface{}{
			"target_status": status,
		}, err)
		return
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Error("status_advance_failed", "Failed to reload order after update", orderID, nil, err)
		return
	}

	s.publish(ctx, interfaces.EventOrderStatus, order)

	msg := interfaces.OutboundMessage{
		To:   phone,
		Type: interfaces.OutboundText,
		Text: fmt.Sprintf("%s\n\nOrder: %s", text, orderID),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("status_notify_failed", "Failed to notify customer of status change", orderID, nil, err)
	}
}

func (s *Service) promptFeedback(orderID, phone string) {
	ctx := context.Background()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil || order.Status != domain.OrderStatusDelivered {
		return
	}

	if err := s.sessions.SetScratch(ctx, phone, interfaces.ScratchFeedbackOrder, orderID); err != nil {
		s.logger.Error("feedback_scratch_failed", "Failed to record feedback order", orderID, nil, err)
		return
	}
	if err := s.sessions.SetState(ctx, phone, domain.StateFeedback); err != nil {
		s.logger.Error("feedback_state_failed", "Failed to move customer to feedback", orderID, nil, err)
		return
	}

	msg := interfaces.OutboundMessage{
		To:   phone,
		Type: interfaces.OutboundButtons,
		Text: "How was your order? Your feedback helps us improve.",
		Buttons: []interfaces.Button{
			{ID: "feedback_good", Title: "😊 Great!"},
			{ID: "feedback_bad", Title: "😞 Not good"},
		},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("feedback_prompt_failed", "Failed to send feedback prompt", orderID, nil, err)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := interfaces.OrderEventMessage{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   eventProducer,
		OrderID:    order.ID,
		Phone:      order.Phone,
		Status:     order.Status,
		TotalPaise: order.Pricing.TotalPaise,
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", order.ID, map[string]interface{}{
			"event_type": eventType,
		}, err)
	}
}
