package whatsapp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

func TestParseInboundText(t *testing.T) {
	event := ParseInbound(InboundMessage{
		From: "911234567890",
		ID:   "wamid.1",
		Type: "text",
		Text: &TextBody{Body: "hi"},
	}, "Sam")

	assert.Equal(t, interfaces.InboundText, event.Type)
	assert.Equal(t, "hi", event.Text)
	assert.Equal(t, "Sam", event.ProfileName)
}

func TestParseInboundButtonAndListReplies(t *testing.T) {
	event := ParseInbound(InboundMessage{
		From: "911234567890",
		Type: "interactive",
		Interactive: &InteractiveIn{
			Type:        "button_reply",
			ButtonReply: &ReplyRef{ID: "view_cart", Title: "View Cart"},
		},
	}, "")
	assert.Equal(t, interfaces.InboundButtonReply, event.Type)
	assert.Equal(t, "view_cart", event.ReplyID)

	event = ParseInbound(InboundMessage{
		From: "911234567890",
		Type: "interactive",
		Interactive: &InteractiveIn{
			Type:      "list_reply",
			ListReply: &ReplyRef{ID: "category:Breads", Title: "Breads"},
		},
	}, "")
	assert.Equal(t, interfaces.InboundListReply, event.Type)
	assert.Equal(t, "category:Breads", event.ReplyID)
}

func TestParseInboundOrderQuantityVariants(t *testing.T) {
	// The platform sends quantity as a number or a string depending on the
	// client; both must parse.
	raw := `{
		"from": "911234567890",
		"type": "order",
		"order": {
			"catalog_id": "c1",
			"product_items": [
				{"product_retailer_id": "sku-1", "quantity": 2, "item_price": 120, "currency": "INR"},
				{"product_retailer_id": "sku-2", "quantity": "3", "item_price": 60, "currency": "INR"},
				{"product_retailer_id": "sku-3", "item_price": 60, "currency": "INR"}
			]
		}
	}`
	var msg InboundMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))

	event := ParseInbound(msg, "")
	require.Equal(t, interfaces.InboundOrder, event.Type)
	require.Len(t, event.OrderItems, 3)
	assert.Equal(t, 2, event.OrderItems[0].Quantity)
	assert.Equal(t, 3, event.OrderItems[1].Quantity)
	assert.Equal(t, 1, event.OrderItems[2].Quantity)
}

func TestParseInboundUnknownTypeFallsBackToText(t *testing.T) {
	event := ParseInbound(InboundMessage{From: "911234567890", Type: "sticker"}, "")
	assert.Equal(t, interfaces.InboundText, event.Type)
	assert.Empty(t, event.Text)
}
