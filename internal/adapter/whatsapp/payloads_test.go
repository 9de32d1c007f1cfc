package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

func TestBuildPayloadButtons(t *testing.T) {
	p, err := buildPayload("cat-1", interfaces.OutboundMessage{
		To:   "911234567890",
		Type: interfaces.OutboundButtons,
		Text: "Pick one",
		Buttons: []interfaces.Button{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "interactive", p.Type)
	assert.Equal(t, "button", p.Interactive.Type)
	require.Len(t, p.Interactive.Action.Buttons, 2)
	assert.Equal(t, "a", p.Interactive.Action.Buttons[0].Reply.ID)
}

func TestBuildPayloadRejectsTooManyButtons(t *testing.T) {
	_, err := buildPayload("cat-1", interfaces.OutboundMessage{
		To:   "911234567890",
		Type: interfaces.OutboundButtons,
		Buttons: []interfaces.Button{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
		},
	})
	assert.Error(t, err)
}

func TestBuildPayloadProductListCarriesCatalogID(t *testing.T) {
	p, err := buildPayload("cat-1", interfaces.OutboundMessage{
		To:     "911234567890",
		Type:   interfaces.OutboundProductList,
		Header: "Popular",
		Text:   "Tap to add",
		Products: []interfaces.ProductSection{
			{Title: "Popular", RetailerIDs: []string{"sku-1", "sku-2"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "product_list", p.Interactive.Type)
	assert.Equal(t, "cat-1", p.Interactive.Action.CatalogID)
	require.Len(t, p.Interactive.Action.Sections, 1)
	assert.Len(t, p.Interactive.Action.Sections[0].ProductItems, 2)
}

func TestBuildPayloadOrderDetailsAmountsInPaise(t *testing.T) {
	p, err := buildPayload("cat-1", interfaces.OutboundMessage{
		To:   "911234567890",
		Type: interfaces.OutboundOrderDetails,
		Text: "Your order",
		Order: &interfaces.OrderDetailsSpec{
			ReferenceID: "ORD-1",
			Items: []domain.CartItem{
				{ProductID: "sku-1", Name: "Masala Dosa", PricePaise: 12000, Quantity: 2},
			},
			Pricing: domain.PriceBreakdown{
				SubtotalPaise:    24000,
				DeliveryFeePaise: 4000,
				TaxPaise:         1200,
				TotalPaise:       29200,
			},
		},
	})
	require.NoError(t, err)

	order := p.Interactive.Order
	require.NotNil(t, order)
	assert.Equal(t, "ORD-1", order.ReferenceID)
	assert.Equal(t, int64(29200), order.TotalAmount.Value)
	assert.Equal(t, 100, order.TotalAmount.Offset)
	assert.Equal(t, int64(24000), order.Order.Subtotal.Value)
}

func TestBuildPayloadLocationRequest(t *testing.T) {
	p, err := buildPayload("cat-1", interfaces.OutboundMessage{
		To:   "911234567890",
		Type: interfaces.OutboundLocationRequest,
		Text: "Where to?",
	})
	require.NoError(t, err)

	assert.Equal(t, "location_request_message", p.Interactive.Type)
	assert.Equal(t, "send_location", p.Interactive.Action.Name)
}

func TestFormatOrderSummaryShowsFreeDelivery(t *testing.T) {
	cart := domain.NewCart("911234567890")
	cart.AddItem(domain.CartItem{ProductID: "sku-1", Name: "Thali", PricePaise: 60000, Quantity: 1})
	order, err := domain.NewOrder(cart, domain.PriceBreakdown{
		SubtotalPaise: 60000, DeliveryFeePaise: 0, TaxPaise: 3000, TotalPaise: 63000,
	}, "42 MG Road", 0)
	require.NoError(t, err)

	summary := FormatOrderSummary(order)
	assert.Contains(t, summary, "Delivery: FREE")
	assert.Contains(t, summary, "Total: ₹630.00")
}
