package domain

import "errors"

// CartItem is one line of a cart. At most one line exists per product id;
// repeated additions increment Quantity.
type CartItem struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	PricePaise  int64  `json:"price_paise"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Cart holds a phone number's pending items.
type Cart struct {
	Phone string     `json:"phone"`
	Items []CartItem `json:"items"`
}

var ErrEmptyCart = errors.New("cart is empty")

// NewCart returns an empty cart for a phone number.
func NewCart(phone string) *Cart {
	return &Cart{Phone: phone}
}

// AddItem merges an item into the cart, summing quantity when a line for
// the same product id already exists.
func (c *Cart) AddItem(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Clear removes every item.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity is the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// SubtotalPaise is the sum of unit price times quantity over all lines.
func (c *Cart) SubtotalPaise() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.PricePaise * int64(item.Quantity)
	}
	return subtotal
}
