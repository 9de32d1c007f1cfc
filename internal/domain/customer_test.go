package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetNameRejectsShortNames(t *testing.T) {
	c := NewCustomer("911234567890", "")

	assert.ErrorIs(t, c.SetName("S"), ErrInvalidName)
	assert.ErrorIs(t, c.SetName("  x  "), ErrInvalidName)
	require.NoError(t, c.SetName("  Sam  "))
	assert.Equal(t, "Sam", c.Name)
}

func TestSetEmail(t *testing.T) {
	c := NewCustomer("911234567890", "Sam")

	assert.ErrorIs(t, c.SetEmail("not-an-email"), ErrInvalidEmail)
	assert.ErrorIs(t, c.SetEmail("a@b"), ErrInvalidEmail)
	require.NoError(t, c.SetEmail("sam@example.com"))
	assert.Equal(t, "sam@example.com", c.Email)
}

func TestSetEmailSkipLeavesEmailUnset(t *testing.T) {
	c := NewCustomer("911234567890", "Sam")

	require.NoError(t, c.SetEmail("skip"))
	require.NoError(t, c.SetEmail("SKIP"))
	assert.Empty(t, c.Email)
}

func TestAddAddressDeduplicates(t *testing.T) {
	c := NewCustomer("911234567890", "Sam")
	c.AddAddress("42 MG Road")
	c.AddAddress("  42 MG Road  ")
	c.AddAddress("7 Park Street")
	c.AddAddress("")

	assert.Equal(t, []string{"42 MG Road", "7 Park Street"}, c.Addresses)
	assert.Equal(t, "7 Park Street", c.LatestAddress())
}

func TestAwardPoints(t *testing.T) {
	c := NewCustomer("911234567890", "Sam")
	c.AwardPoints(100)
	c.AwardPoints(-10)
	c.AwardPoints(25)

	assert.Equal(t, 125, c.LoyaltyPoints)
}
