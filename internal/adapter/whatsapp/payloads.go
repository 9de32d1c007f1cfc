package whatsapp

import (
	"fmt"

	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Outbound wire payloads, Meta Cloud API send schema. The discriminator is
// the top-level "type" field.

type sendPayload struct {
	MessagingProduct string        `json:"messaging_product"`
	RecipientType    string        `json:"recipient_type"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             *textOut      `json:"text,omitempty"`
	Interactive      *interactive  `json:"interactive,omitempty"`
	Order            *orderDetails `json:"order_details,omitempty"`
}

type textOut struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

type interactive struct {
	Type   string        `json:"type"`
	Header *headerOut    `json:"header,omitempty"`
	Body   *bodyOut      `json:"body,omitempty"`
	Footer *footerOut    `json:"footer,omitempty"`
	Action *actionOut    `json:"action,omitempty"`
	Order  *orderDetails `json:"order_details,omitempty"`
}

type headerOut struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bodyOut struct {
	Text string `json:"text"`
}

type footerOut struct {
	Text string `json:"text"`
}

type actionOut struct {
	Buttons           []buttonOut  `json:"buttons,omitempty"`
	Button            string       `json:"button,omitempty"`
	Sections          []sectionOut `json:"sections,omitempty"`
	CatalogID         string       `json:"catalog_id,omitempty"`
	ProductRetailerID string       `json:"product_retailer_id,omitempty"`
	Name              string       `json:"name,omitempty"`
}

type buttonOut struct {
	Type  string `json:"type"`
	Reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"reply"`
}

type sectionOut struct {
	Title        string       `json:"title,omitempty"`
	Rows         []rowOut     `json:"rows,omitempty"`
	ProductItems []productRef `json:"product_items,omitempty"`
}

type rowOut struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type productRef struct {
	ProductRetailerID string `json:"product_retailer_id"`
}

type orderDetails struct {
	ReferenceID string     `json:"reference_id"`
	Type        string     `json:"type"`
	PaymentType string     `json:"payment_type"`
	Currency    string     `json:"currency"`
	TotalAmount amountOut  `json:"total_amount"`
	Order       orderBlock `json:"order"`
}

type amountOut struct {
	Value  int64 `json:"value"`
	Offset int   `json:"offset"`
}

type orderBlock struct {
	Status   string         `json:"status"`
	Items    []orderItemOut `json:"items"`
	Subtotal amountOut      `json:"subtotal"`
	Tax      amountOut      `json:"tax"`
	Shipping amountOut      `json:"shipping"`
}

type orderItemOut struct {
	RetailerID string    `json:"retailer_id"`
	Name       string    `json:"name"`
	Amount     amountOut `json:"amount"`
	Quantity   int       `json:"quantity"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// buildPayload serializes the core's message description into the wire
// payload. Returns an error for messages the transport cannot express.
func buildPayload(catalogID string, msg interfaces.OutboundMessage) (*sendPayload, error) {
	p := &sendPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               msg.To,
	}

	switch msg.Type {
	case interfaces.OutboundText:
		p.Type = "text"
		p.Text = &textOut{Body: msg.Text}

	case interfaces.OutboundButtons:
		if len(msg.Buttons) == 0 || len(msg.Buttons) > 3 {
			return nil, fmt.Errorf("button message needs 1-3 buttons, got %d", len(msg.Buttons))
		}
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:   "button",
			Body:   &bodyOut{Text: msg.Text},
			Action: &actionOut{Buttons: wireButtons(msg.Buttons)},
		}
		decorate(p.Interactive, msg)

	case interfaces.OutboundList:
		if msg.List == nil || len(msg.List.Sections) == 0 {
			return nil, fmt.Errorf("list message needs at least one section")
		}
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:   "list",
			Body:   &bodyOut{Text: msg.Text},
			Action: &actionOut{Button: msg.List.ButtonLabel, Sections: wireSections(msg.List.Sections)},
		}
		decorate(p.Interactive, msg)

	case interfaces.OutboundCatalog:
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:   "catalog_message",
			Body:   &bodyOut{Text: msg.Text},
			Action: &actionOut{Name: "catalog_message"},
		}
		decorate(p.Interactive, msg)

	case interfaces.OutboundProductList:
		if len(msg.Products) == 0 {
			return nil, fmt.Errorf("product list message needs at least one section")
		}
		sections := make([]sectionOut, 0, len(msg.Products))
		for _, s := range msg.Products {
			refs := make([]productRef, 0, len(s.RetailerIDs))
			for _, id := range s.RetailerIDs {
				refs = append(refs, productRef{ProductRetailerID: id})
			}
			sections = append(sections, sectionOut{Title: s.Title, ProductItems: refs})
		}
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:   "product_list",
			Header: &headerOut{Type: "text", Text: msg.Header},
			Body:   &bodyOut{Text: msg.Text},
			Action: &actionOut{CatalogID: catalogID, Sections: sections},
		}

	case interfaces.OutboundOrderDetails:
		if msg.Order == nil {
			return nil, fmt.Errorf("order details message needs an order spec")
		}
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:  "order_details",
			Body:  &bodyOut{Text: msg.Text},
			Order: wireOrder(msg.Order),
		}
		decorate(p.Interactive, msg)

	case interfaces.OutboundLocationRequest:
		p.Type = "interactive"
		p.Interactive = &interactive{
			Type:   "location_request_message",
			Body:   &bodyOut{Text: msg.Text},
			Action: &actionOut{Name: "send_location"},
		}

	default:
		return nil, fmt.Errorf("unsupported outbound message type %q", msg.Type)
	}

	return p, nil
}

func decorate(i *interactive, msg interfaces.OutboundMessage) {
	if msg.Header != "" && i.Header == nil {
		i.Header = &headerOut{Type: "text", Text: msg.Header}
	}
	if msg.Footer != "" {
		i.Footer = &footerOut{Text: msg.Footer}
	}
}

func wireButtons(buttons []interfaces.Button) []buttonOut {
	out := make([]buttonOut, len(buttons))
	for i, b := range buttons {
		out[i].Type = "reply"
		out[i].Reply.ID = b.ID
		out[i].Reply.Title = b.Title
	}
	return out
}

func wireSections(sections []interfaces.ListSection) []sectionOut {
	out := make([]sectionOut, len(sections))
	for i, s := range sections {
		rows := make([]rowOut, len(s.Rows))
		for j, r := range s.Rows {
			rows[j] = rowOut{ID: r.ID, Title: r.Title, Description: r.Description}
		}
		out[i] = sectionOut{Title: s.Title, Rows: rows}
	}
	return out
}

func wireOrder(spec *interfaces.OrderDetailsSpec) *orderDetails {
	items := make([]orderItemOut, len(spec.Items))
	for i, item := range spec.Items {
		items[i] = orderItemOut{
			RetailerID: item.ProductID,
			Name:       item.Name,
			Amount:     amountOut{Value: item.PricePaise, Offset: 100},
			Quantity:   item.Quantity,
		}
	}
	return &orderDetails{
		ReferenceID: spec.ReferenceID,
		Type:        "digital-goods",
		PaymentType: "upi",
		Currency:    "INR",
		TotalAmount: amountOut{Value: spec.Pricing.TotalPaise, Offset: 100},
		Order: orderBlock{
			Status:   "pending",
			Items:    items,
			Subtotal: amountOut{Value: spec.Pricing.SubtotalPaise, Offset: 100},
			Tax:      amountOut{Value: spec.Pricing.TaxPaise, Offset: 100},
			Shipping: amountOut{Value: spec.Pricing.DeliveryFeePaise, Offset: 100},
		},
	}
}

// FormatOrderSummary renders the plain-text order summary reused by several
// conversation replies.
func FormatOrderSummary(order *domain.Order) string {
	text := fmt.Sprintf("Order %s\n", order.ID)
	for _, item := range order.Items {
		text += fmt.Sprintf("• %s ×%d — %s\n", item.Name, item.Quantity, domain.FormatPaise(item.PricePaise*int64(item.Quantity)))
	}
	text += fmt.Sprintf("\nSubtotal: %s", domain.FormatPaise(order.Pricing.SubtotalPaise))
	if order.Pricing.DeliveryFeePaise > 0 {
		text += fmt.Sprintf("\nDelivery: %s", domain.FormatPaise(order.Pricing.DeliveryFeePaise))
	} else {
		text += "\nDelivery: FREE"
	}
	text += fmt.Sprintf("\nTax: %s", domain.FormatPaise(order.Pricing.TaxPaise))
	text += fmt.Sprintf("\nTotal: %s", domain.FormatPaise(order.Pricing.TotalPaise))
	return text
}
