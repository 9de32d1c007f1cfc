package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAddItemMergesByProductID(t *testing.T) {
	cart := NewCart("911234567890")
	cart.AddItem(CartItem{ProductID: "p1", Name: "Paneer Tikka", PricePaise: 25000, Quantity: 2})
	cart.AddItem(CartItem{ProductID: "p1", Name: "Paneer Tikka", PricePaise: 25000, Quantity: 1})
	cart.AddItem(CartItem{ProductID: "p2", Name: "Garlic Naan", PricePaise: 6000, Quantity: 1})

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 4, cart.TotalQuantity())
	assert.Equal(t, int64(3*25000+6000), cart.SubtotalPaise())
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	cart := NewCart("911234567890")
	cart.AddItem(CartItem{ProductID: "p1", PricePaise: 100, Quantity: 0})

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartClear(t *testing.T) {
	cart := NewCart("911234567890")
	cart.AddItem(CartItem{ProductID: "p1", PricePaise: 100, Quantity: 1})
	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.SubtotalPaise())
}
