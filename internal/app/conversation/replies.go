package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/whatsapp"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Outbound reply builders. The interactive message limits here follow the
// transport: at most 3 reply buttons, at most 30 products per list.

const maxListedProducts = 30

func menuMessage(to, name string) interfaces.OutboundMessage {
	text := "What would you like to do?"
	if name != "" {
		text = fmt.Sprintf("Hi %s! What would you like to do?", name)
	}
	return interfaces.OutboundMessage{
		To:     to,
		Type:   interfaces.OutboundButtons,
		Header: "Zenocon Eats",
		Text:   text,
		Buttons: []interfaces.Button{
			{ID: "browse_catalog", Title: "🍽️ Browse Menu"},
			{ID: "view_cart", Title: "🛒 View Cart"},
			{ID: "view_categories", Title: "📋 Categories"},
		},
	}
}

func nudgeMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "👋 Say *hi* to get started!",
	}
}

func askNameMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "Welcome to Zenocon Eats! 🎉\n\nLet's get you set up. What's your name?",
	}
}

func askEmailMessage(to, name string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: fmt.Sprintf("Nice to meet you, %s!\n\nWhat's your email address? Reply *skip* if you'd rather not share it.", name),
	}
}

func invalidNameMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "That name looks too short. Please send your name (at least 2 characters).",
	}
}

func invalidEmailMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "That doesn't look like a valid email. Please try again, or reply *skip*.",
	}
}

func askAddressMessage(to string, welcomeBonus int) interfaces.OutboundMessage {
	text := "Where should we deliver? Share your location, or type your address."
	if welcomeBonus > 0 {
		text = fmt.Sprintf("You're all set! 🎁 %d welcome points added to your account.\n\n%s", welcomeBonus, text)
	}
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundLocationRequest,
		Text: text,
	}
}

func addressSavedMessage(to, address string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: fmt.Sprintf("📍 Delivery address saved:\n%s", address),
	}
}

func catalogMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:     to,
		Type:   interfaces.OutboundCatalog,
		Text:   "Browse our full menu and add items to your cart 👇",
		Footer: "Tap to view the catalog",
	}
}

func productListMessage(to, header, body string, products []*domain.Product) interfaces.OutboundMessage {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		if !p.Available || p.Synthetic {
			continue
		}
		id := p.RetailerID
		if id == "" {
			id = p.ID
		}
		ids = append(ids, id)
		if len(ids) == maxListedProducts {
			break
		}
	}
	return interfaces.OutboundMessage{
		To:     to,
		Type:   interfaces.OutboundProductList,
		Header: header,
		Text:   body,
		Products: []interfaces.ProductSection{
			{Title: header, RetailerIDs: ids},
		},
	}
}

func categoriesMessage(to string, categories []string) interfaces.OutboundMessage {
	rows := make([]interfaces.ListRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, interfaces.ListRow{
			ID:    "category:" + c,
			Title: c,
		})
		if len(rows) == 10 {
			break
		}
	}
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundList,
		Text: "Pick a category to see what's available.",
		List: &interfaces.ListSpec{
			ButtonLabel: "Categories",
			Sections: []interfaces.ListSection{
				{Title: "Quick picks", Rows: []interfaces.ListRow{
					{ID: "popular_items", Title: "⭐ Popular items"},
				}},
				{Title: "Our menu", Rows: rows},
			},
		},
	}
}

func emptyCartMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "🛒 Your cart is empty. Browse the menu to add something tasty!",
	}
}

func cartSummaryMessage(to string, cart *domain.Cart) interfaces.OutboundMessage {
	var b strings.Builder
	b.WriteString("🛒 *Your cart*\n\n")
	for _, item := range cart.Items {
		fmt.Fprintf(&b, "• %s ×%d — %s\n", item.Name, item.Quantity,
			domain.FormatPaise(item.PricePaise*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s", domain.FormatPaise(cart.SubtotalPaise()))

	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundButtons,
		Text: b.String(),
		Buttons: []interfaces.Button{
			{ID: "checkout", Title: "✅ Checkout"},
			{ID: "add_more", Title: "➕ Add more"},
			{ID: "clear_cart", Title: "🗑️ Clear cart"},
		},
	}
}

func paymentRequestMessage(to string, order *domain.Order) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:     to,
		Type:   interfaces.OutboundOrderDetails,
		Text:   whatsapp.FormatOrderSummary(order),
		Footer: "Review your order before paying",
		Order: &interfaces.OrderDetailsSpec{
			ReferenceID: order.ID,
			Items:       order.Items,
			Pricing:     order.Pricing,
			Expiration:  order.CreatedAt.Add(30 * time.Minute),
		},
	}
}

func paymentOptionsMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundButtons,
		Text: "How would you like to pay?",
		Buttons: []interfaces.Button{
			{ID: "pay_upi", Title: "📱 UPI"},
			{ID: "pay_card", Title: "💳 Card"},
			{ID: "pay_cod", Title: "💵 Cash"},
		},
	}
}

func processingPaymentMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: "⏳ Processing your payment...",
	}
}

func confirmationMessage(to string, order *domain.Order, pointsEarned int) interfaces.OutboundMessage {
	text := fmt.Sprintf(
		"🎉 Payment received! Your order is confirmed.\n\nOrder: %s\nTotal: %s\nEstimated delivery: %s\n\n⭐ You earned %d loyalty points.",
		order.ID,
		domain.FormatPaise(order.Pricing.TotalPaise),
		order.EstimatedDelivery.Format("3:04 PM"),
		pointsEarned,
	)
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundButtons,
		Text: text,
		Buttons: []interfaces.Button{
			{ID: "track_order", Title: "📦 Track order"},
			{ID: "cancel_order", Title: "❌ Cancel"},
			{ID: "menu", Title: "🏠 Menu"},
		},
	}
}

func orderStatusMessage(to string, order *domain.Order) interfaces.OutboundMessage {
	text := fmt.Sprintf("📦 Order %s\nStatus: %s", order.ID, order.Status.Label())
	if order.Status != domain.OrderStatusDelivered && order.Status != domain.OrderStatusCancelled {
		text += fmt.Sprintf("\nEstimated delivery: %s", order.EstimatedDelivery.Format("3:04 PM"))
	}
	return interfaces.OutboundMessage{To: to, Type: interfaces.OutboundText, Text: text}
}

func orderHistoryMessage(to string, orders []*domain.Order) interfaces.OutboundMessage {
	if len(orders) == 0 {
		return interfaces.OutboundMessage{
			To:   to,
			Type: interfaces.OutboundText,
			Text: "You haven't placed any orders yet.",
		}
	}

	var b strings.Builder
	b.WriteString("📋 *Your orders*\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n%s — %s — %s", o.ID, o.Status.Label(), domain.FormatPaise(o.Pricing.TotalPaise))
	}
	return interfaces.OutboundMessage{To: to, Type: interfaces.OutboundText, Text: b.String()}
}

func loyaltyMessage(to string, points int) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundText,
		Text: fmt.Sprintf("⭐ You have %d loyalty points.", points),
	}
}

func feedbackButtonsMessage(to string) interfaces.OutboundMessage {
	return interfaces.OutboundMessage{
		To:   to,
		Type: interfaces.OutboundButtons,
		Text: "How was your order?",
		Buttons: []interfaces.Button{
			{ID: "feedback_good", Title: "😊 Great!"},
			{ID: "feedback_bad", Title: "😞 Not good"},
		},
	}
}
