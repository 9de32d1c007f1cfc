package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/app/checkout"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Service is the per-phone conversation state machine. Every inbound message
// is handled under that phone's lock: read state, act, reply, maybe move to
// a new state.
type Service struct {
	sessions interfaces.SessionRepository
	orders   interfaces.OrderRepository
	catalog  interfaces.CatalogService
	checkout interfaces.CheckoutService
	sender   interfaces.MessageSender
	logger   logger.Logger
	loyalty  config.LoyaltyConfig
	locks    *phoneLocks
}

func NewService(
	sessions interfaces.SessionRepository,
	orders interfaces.OrderRepository,
	catalog interfaces.CatalogService,
	checkoutSvc interfaces.CheckoutService,
	sender interfaces.MessageSender,
	loyalty config.LoyaltyConfig,
	lgr logger.Logger,
) *Service {
	return &Service{
		sessions: sessions,
		orders:   orders,
		catalog:  catalog,
		checkout: checkoutSvc,
		sender:   sender,
		logger:   lgr,
		loyalty:  loyalty,
		locks:    newPhoneLocks(),
	}
}

var _ interfaces.ConversationService = (*Service)(nil)

func (s *Service) HandleInbound(ctx context.Context, event interfaces.InboundEvent) error {
	mu := s.locks.lock(event.From)
	defer mu.Unlock()

	customer, err := s.sessions.GetCustomer(ctx, event.From)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		customer = domain.NewCustomer(event.From, event.ProfileName)
	} else if err != nil {
		return err
	}
	customer.TouchInbound()
	if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
		return err
	}

	state, err := s.sessions.GetState(ctx, event.From)
	if err != nil {
		return err
	}

	s.logger.Debug("inbound_dispatch", "Dispatching inbound message", event.MessageID, map[string]interface{}{
		"phone": event.From,
		"state": state,
		"type":  event.Type,
	})

	switch state {
	case domain.StateNew:
		return s.handleNew(ctx, customer, event)
	case domain.StateRegistrationName:
		return s.handleRegistrationName(ctx, customer, event)
	case domain.StateRegistrationEmail:
		return s.handleRegistrationEmail(ctx, customer, event)
	case domain.StateAddressNeeded:
		return s.handleAddressNeeded(ctx, customer, event)
	case domain.StateBrowsing:
		return s.handleBrowsing(ctx, customer, event)
	case domain.StateCartReview:
		return s.handleCartReview(ctx, customer, event)
	case domain.StatePayment:
		return s.handlePayment(ctx, customer, event)
	case domain.StateOrderPlaced:
		return s.handleOrderPlaced(ctx, customer, event)
	case domain.StateFeedback:
		return s.handleFeedback(ctx, customer, event)
	}
	return fmt.Errorf("unknown conversation state %q", state)
}

func (s *Service) handleNew(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	if event.Type == interfaces.InboundText && !isGreeting(event.Text) {
		return s.send(ctx, nudgeMessage(customer.Phone))
	}

	if customer.IsRegistered {
		if err := s.transition(ctx, customer.Phone, domain.StateNew, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))
	}

	if err := s.transition(ctx, customer.Phone, domain.StateNew, domain.StateRegistrationName); err != nil {
		return err
	}
	return s.send(ctx, askNameMessage(customer.Phone))
}

func (s *Service) handleRegistrationName(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	if event.Type != interfaces.InboundText {
		return s.send(ctx, askNameMessage(customer.Phone))
	}

	if err := customer.SetName(event.Text); err != nil {
		return s.send(ctx, invalidNameMessage(customer.Phone))
	}
	if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
		return err
	}
	if err := s.transition(ctx, customer.Phone, domain.StateRegistrationName, domain.StateRegistrationEmail); err != nil {
		return err
	}
	return s.send(ctx, askEmailMessage(customer.Phone, customer.Name))
}

func (s *Service) handleRegistrationEmail(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	if event.Type != interfaces.InboundText {
		return s.send(ctx, invalidEmailMessage(customer.Phone))
	}

	if err := customer.SetEmail(event.Text); err != nil {
		return s.send(ctx, invalidEmailMessage(customer.Phone))
	}

	customer.IsRegistered = true
	customer.AwardPoints(s.loyalty.WelcomeBonus)
	if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
		return err
	}
	if err := s.transition(ctx, customer.Phone, domain.StateRegistrationEmail, domain.StateAddressNeeded); err != nil {
		return err
	}

	s.logger.Info("customer_registered", "Registration completed", customer.Phone, map[string]interface{}{
		"name":          customer.Name,
		"welcome_bonus": s.loyalty.WelcomeBonus,
	})
	return s.send(ctx, askAddressMessage(customer.Phone, s.loyalty.WelcomeBonus))
}

func (s *Service) handleAddressNeeded(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	var address string
	switch {
	case event.Type == interfaces.InboundLocation && event.Location != nil:
		address = formatLocation(event.Location)
	case event.Type == interfaces.InboundText && strings.TrimSpace(event.Text) != "":
		address = strings.TrimSpace(event.Text)
	default:
		return s.send(ctx, askAddressMessage(customer.Phone, 0))
	}

	customer.AddAddress(address)
	if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
		return err
	}
	if err := s.transition(ctx, customer.Phone, domain.StateAddressNeeded, domain.StateBrowsing); err != nil {
		return err
	}

	if err := s.send(ctx, addressSavedMessage(customer.Phone, address)); err != nil {
		return err
	}
	return s.send(ctx, menuMessage(customer.Phone, customer.Name))
}

func (s *Service) handleBrowsing(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	switch event.Type {
	case interfaces.InboundOrder:
		return s.mergeAndReview(ctx, customer, domain.StateBrowsing, event.OrderItems)

	case interfaces.InboundButtonReply:
		switch event.ReplyID {
		case "browse_catalog":
			return s.send(ctx, catalogMessage(customer.Phone))
		case "popular_items":
			return s.sendProducts(ctx, customer.Phone, "Popular right now", s.catalog.Products(ctx))
		case "view_categories":
			return s.sendCategories(ctx, customer.Phone)
		case "view_cart":
			return s.showCart(ctx, customer, domain.StateBrowsing)
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))

	case interfaces.InboundListReply:
		if event.ReplyID == "popular_items" {
			return s.sendProducts(ctx, customer.Phone, "Popular right now", s.catalog.Products(ctx))
		}
		if category, ok := strings.CutPrefix(event.ReplyID, "category:"); ok {
			products := s.catalog.ProductsByCategory(ctx, category)
			if len(products) == 0 {
				return s.send(ctx, catalogMessage(customer.Phone))
			}
			return s.sendProducts(ctx, customer.Phone, category, products)
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))

	case interfaces.InboundText:
		lowered := strings.ToLower(event.Text)
		switch {
		case strings.Contains(lowered, "cart"):
			return s.showCart(ctx, customer, domain.StateBrowsing)
		case strings.Contains(lowered, "order"):
			return s.sendHistory(ctx, customer.Phone)
		case strings.Contains(lowered, "point"):
			return s.send(ctx, loyaltyMessage(customer.Phone, customer.LoyaltyPoints))
		case isGreeting(event.Text):
			return s.send(ctx, menuMessage(customer.Phone, customer.Name))
		}
		if matched := s.searchProducts(ctx, event.Text); len(matched) > 0 {
			return s.sendProducts(ctx, customer.Phone, "Search results", matched)
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))
	}

	return s.send(ctx, menuMessage(customer.Phone, customer.Name))
}

func (s *Service) handleCartReview(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	if event.Type == interfaces.InboundOrder {
		return s.mergeAndReview(ctx, customer, domain.StateCartReview, event.OrderItems)
	}

	action := event.ReplyID
	if event.Type == interfaces.InboundText {
		lowered := strings.ToLower(event.Text)
		switch {
		case strings.Contains(lowered, "checkout"):
			action = "checkout"
		case strings.Contains(lowered, "clear"):
			action = "clear_cart"
		}
	}

	switch action {
	case "checkout":
		return s.startCheckout(ctx, customer)

	case "add_more":
		if err := s.transition(ctx, customer.Phone, domain.StateCartReview, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, catalogMessage(customer.Phone))

	case "clear_cart":
		cart := domain.NewCart(customer.Phone)
		if err := s.sessions.SaveCart(ctx, cart); err != nil {
			return err
		}
		if err := s.transition(ctx, customer.Phone, domain.StateCartReview, domain.StateBrowsing); err != nil {
			return err
		}
		if err := s.send(ctx, emptyCartMessage(customer.Phone)); err != nil {
			return err
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))
	}

	cart, err := s.sessions.GetCart(ctx, customer.Phone)
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		if err := s.transition(ctx, customer.Phone, domain.StateCartReview, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, emptyCartMessage(customer.Phone))
	}
	return s.send(ctx, cartSummaryMessage(customer.Phone, cart))
}

func (s *Service) handlePayment(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	var method domain.PaymentMethod
	switch event.ReplyID {
	case "pay_upi":
		method = domain.PaymentUPI
	case "pay_card":
		method = domain.PaymentCard
	case "pay_cod":
		method = domain.PaymentCOD
	default:
		return s.send(ctx, paymentOptionsMessage(customer.Phone))
	}

	if err := s.send(ctx, processingPaymentMessage(customer.Phone)); err != nil {
		return err
	}

	order, err := s.checkout.ConfirmPayment(ctx, customer.Phone, method)
	if err != nil {
		s.logger.Error("payment_failed", "Payment confirmation failed", customer.Phone, map[string]interface{}{
			"method": method,
		}, err)
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundText,
			Text: "😔 Something went wrong with your payment. Please try again.",
		})
	}

	if err := s.transition(ctx, customer.Phone, domain.StatePayment, domain.StateOrderPlaced); err != nil {
		return err
	}
	return s.send(ctx, confirmationMessage(customer.Phone, order, domain.LoyaltyPointsFor(order.Pricing.TotalPaise)))
}

func (s *Service) handleOrderPlaced(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	action := event.ReplyID
	if event.Type == interfaces.InboundText {
		lowered := strings.ToLower(event.Text)
		switch {
		case strings.Contains(lowered, "track"):
			action = "track_order"
		case strings.Contains(lowered, "cancel"):
			action = "cancel_order"
		case isGreeting(event.Text):
			action = "menu"
		case strings.Contains(lowered, "order"):
			return s.sendHistory(ctx, customer.Phone)
		}
	}

	switch action {
	case "track_order":
		order, err := s.orders.LatestByPhone(ctx, customer.Phone)
		if err != nil {
			return s.send(ctx, orderHistoryMessage(customer.Phone, nil))
		}
		return s.send(ctx, orderStatusMessage(customer.Phone, order))

	case "cancel_order":
		return s.cancelOrder(ctx, customer)

	case "menu":
		if err := s.transition(ctx, customer.Phone, domain.StateOrderPlaced, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, menuMessage(customer.Phone, customer.Name))
	}

	return s.send(ctx, interfaces.OutboundMessage{
		To:   customer.Phone,
		Type: interfaces.OutboundButtons,
		Text: "Your order is on its way! What would you like to do?",
		Buttons: []interfaces.Button{
			{ID: "track_order", Title: "📦 Track order"},
			{ID: "cancel_order", Title: "❌ Cancel"},
			{ID: "menu", Title: "🏠 Menu"},
		},
	})
}

func (s *Service) handleFeedback(ctx context.Context, customer *domain.Customer, event interfaces.InboundEvent) error {
	switch {
	case event.ReplyID == "feedback_good":
		customer.AwardPoints(s.loyalty.FeedbackBonus)
		if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		if err := s.transition(ctx, customer.Phone, domain.StateFeedback, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundText,
			Text: fmt.Sprintf("Thank you! 💛 %d points added for your feedback.", s.loyalty.FeedbackBonus),
		})

	case event.ReplyID == "feedback_bad":
		customer.AwardPoints(s.loyalty.FeedbackBonus)
		if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundText,
			Text: "We're sorry to hear that. 😔 Please tell us what went wrong.",
		})

	case event.Type == interfaces.InboundText:
		customer.AwardPoints(s.loyalty.ComplaintBonus)
		if err := s.sessions.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		if err := s.transition(ctx, customer.Phone, domain.StateFeedback, domain.StateBrowsing); err != nil {
			return err
		}
		s.logger.Info("complaint_recorded", "Customer complaint recorded", customer.Phone, map[string]interface{}{
			"details": event.Text,
		})
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundText,
			Text: fmt.Sprintf("Thank you for telling us. Our team will look into it. %d points added as an apology.", s.loyalty.ComplaintBonus),
		})
	}

	return s.send(ctx, feedbackButtonsMessage(customer.Phone))
}

func (s *Service) mergeAndReview(ctx context.Context, customer *domain.Customer, from domain.ConversationState, lines []interfaces.OrderLineItem) error {
	cart, err := s.checkout.MergeOrderItems(ctx, customer.Phone, lines)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, customer.Phone, from, domain.StateCartReview); err != nil {
		return err
	}
	return s.send(ctx, cartSummaryMessage(customer.Phone, cart))
}

func (s *Service) showCart(ctx context.Context, customer *domain.Customer, from domain.ConversationState) error {
	cart, err := s.sessions.GetCart(ctx, customer.Phone)
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return s.send(ctx, emptyCartMessage(customer.Phone))
	}
	if err := s.transition(ctx, customer.Phone, from, domain.StateCartReview); err != nil {
		return err
	}
	return s.send(ctx, cartSummaryMessage(customer.Phone, cart))
}

func (s *Service) startCheckout(ctx context.Context, customer *domain.Customer) error {
	order, err := s.checkout.Checkout(ctx, customer.Phone)
	if errors.Is(err, domain.ErrEmptyCart) {
		if err := s.transition(ctx, customer.Phone, domain.StateCartReview, domain.StateBrowsing); err != nil {
			return err
		}
		return s.send(ctx, emptyCartMessage(customer.Phone))
	}
	if errors.Is(err, checkout.ErrNoDeliveryAddress) {
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundLocationRequest,
			Text: "We need a delivery address first. Share your location, or type your address.",
		})
	}
	if err != nil {
		return err
	}

	if err := s.transition(ctx, customer.Phone, domain.StateCartReview, domain.StatePayment); err != nil {
		return err
	}
	if err := s.send(ctx, paymentRequestMessage(customer.Phone, order)); err != nil {
		return err
	}
	return s.send(ctx, paymentOptionsMessage(customer.Phone))
}

func (s *Service) cancelOrder(ctx context.Context, customer *domain.Customer) error {
	order, err := s.checkout.CancelOrder(ctx, customer.Phone)
	switch {
	case errors.Is(err, domain.ErrOrderNotCancellable):
		return s.send(ctx, interfaces.OutboundMessage{
			To:   customer.Phone,
			Type: interfaces.OutboundText,
			Text: fmt.Sprintf("Sorry, order %s is already %s and can't be cancelled.", order.ID, strings.ToLower(order.Status.Label())),
		})
	case errors.Is(err, domain.ErrOrderNotFound):
		return s.send(ctx, orderHistoryMessage(customer.Phone, nil))
	case err != nil:
		return err
	}

	if err := s.transition(ctx, customer.Phone, domain.StateOrderPlaced, domain.StateBrowsing); err != nil {
		return err
	}
	if err := s.send(ctx, interfaces.OutboundMessage{
		To:   customer.Phone,
		Type: interfaces.OutboundText,
		Text: fmt.Sprintf("Your order %s has been cancelled. Any payment will be refunded.", order.ID),
	}); err != nil {
		return err
	}
	return s.send(ctx, menuMessage(customer.Phone, customer.Name))
}

func (s *Service) sendProducts(ctx context.Context, phone, title string, products []*domain.Product) error {
	msg := productListMessage(phone, title, "Tap an item to add it to your cart.", products)
	if len(msg.Products[0].RetailerIDs) == 0 {
		return s.send(ctx, catalogMessage(phone))
	}
	return s.send(ctx, msg)
}

func (s *Service) sendCategories(ctx context.Context, phone string) error {
	categories := s.catalog.Categories(ctx)
	if len(categories) == 0 {
		return s.send(ctx, catalogMessage(phone))
	}
	return s.send(ctx, categoriesMessage(phone, categories))
}

func (s *Service) sendHistory(ctx context.Context, phone string) error {
	orders, err := s.orders.ListByPhone(ctx, phone)
	if err != nil {
		return err
	}
	return s.send(ctx, orderHistoryMessage(phone, orders))
}

func (s *Service) searchProducts(ctx context.Context, query string) []*domain.Product {
	var matched []*domain.Product
	for _, p := range s.catalog.Products(ctx) {
		if p.MatchesQuery(query) {
			matched = append(matched, p)
		}
	}
	return matched
}

// transition moves the conversation to next after checking the state graph.
func (s *Service) transition(ctx context.Context, phone string, from, to domain.ConversationState) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("illegal conversation transition %s -> %s", from, to)
	}
	return s.sessions.SetState(ctx, phone, to)
}

// send posts one reply. Failures are logged and swallowed so a transport
// hiccup never wedges the conversation.
func (s *Service) send(ctx context.Context, msg interfaces.OutboundMessage) error {
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("reply_send_failed", "Failed to send reply", msg.To, map[string]interface{}{
			"message_type": msg.Type,
		}, err)
	}
	return nil
}

func formatLocation(loc *interfaces.LocationPayload) string {
	switch {
	case loc.Address != "" && loc.Name != "":
		return loc.Name + ", " + loc.Address
	case loc.Address != "":
		return loc.Address
	case loc.Name != "":
		return loc.Name
	}
	return fmt.Sprintf("%.5f, %.5f", loc.Latitude, loc.Longitude)
}

var greetings = []string{"hi", "hello", "hey", "start", "menu", "namaste"}

func isGreeting(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetings {
		if strings.Contains(lowered, g) {
			return true
		}
	}
	return false
}
