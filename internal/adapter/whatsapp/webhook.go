package whatsapp

import (
	"strconv"

	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Inbound webhook envelope, Meta Cloud API schema. Only the fields the core
// reads are modelled.

type WebhookEnvelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
	Statuses         []DeliveryStatus `json:"statuses,omitempty"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
	WaID string `json:"wa_id"`
}

type InboundMessage struct {
	From        string          `json:"from"`
	ID          string          `json:"id"`
	Timestamp   string          `json:"timestamp"`
	Type        string          `json:"type"`
	Text        *TextBody       `json:"text,omitempty"`
	Interactive *InteractiveIn  `json:"interactive,omitempty"`
	Location    *LocationIn     `json:"location,omitempty"`
	Order       *CatalogOrderIn `json:"order,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type InteractiveIn struct {
	Type        string    `json:"type"`
	ButtonReply *ReplyRef `json:"button_reply,omitempty"`
	ListReply   *ReplyRef `json:"list_reply,omitempty"`
}

type ReplyRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type LocationIn struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type CatalogOrderIn struct {
	CatalogID    string            `json:"catalog_id"`
	Text         string            `json:"text,omitempty"`
	ProductItems []OrderProductRef `json:"product_items"`
}

type OrderProductRef struct {
	ProductRetailerID string      `json:"product_retailer_id"`
	Quantity          interface{} `json:"quantity"`
	ItemPrice         float64     `json:"item_price"`
	Currency          string      `json:"currency"`
}

type DeliveryStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ParseInbound converts a raw inbound message into the core's event shape.
// Unknown message types map to a text event with empty text, which the
// state machine answers with its help fallback.
func ParseInbound(msg InboundMessage, profileName string) interfaces.InboundEvent {
	event := interfaces.InboundEvent{
		From:        msg.From,
		ProfileName: profileName,
		MessageID:   msg.ID,
		Type:        interfaces.InboundText,
	}

	switch msg.Type {
	case "text":
		if msg.Text != nil {
			event.Text = msg.Text.Body
		}
	case "interactive":
		if msg.Interactive == nil {
			break
		}
		if msg.Interactive.ButtonReply != nil {
			event.Type = interfaces.InboundButtonReply
			event.ReplyID = msg.Interactive.ButtonReply.ID
			event.ReplyTitle = msg.Interactive.ButtonReply.Title
		} else if msg.Interactive.ListReply != nil {
			event.Type = interfaces.InboundListReply
			event.ReplyID = msg.Interactive.ListReply.ID
			event.ReplyTitle = msg.Interactive.ListReply.Title
		}
	case "location":
		if msg.Location != nil {
			event.Type = interfaces.InboundLocation
			event.Location = &interfaces.LocationPayload{
				Latitude:  msg.Location.Latitude,
				Longitude: msg.Location.Longitude,
				Name:      msg.Location.Name,
				Address:   msg.Location.Address,
			}
		}
	case "order":
		if msg.Order != nil {
			event.Type = interfaces.InboundOrder
			for _, item := range msg.Order.ProductItems {
				event.OrderItems = append(event.OrderItems, interfaces.OrderLineItem{
					ProductRetailerID: item.ProductRetailerID,
					Quantity:          quantityOf(item.Quantity),
					ItemPrice:         item.ItemPrice,
					Currency:          item.Currency,
				})
			}
		}
	}

	return event
}

// The platform has been seen sending quantity as both a number and a
// string; accept either.
func quantityOf(raw interface{}) int {
	switch v := raw.(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
