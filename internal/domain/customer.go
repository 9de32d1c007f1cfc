package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Customer is identified by phone number. Created on the first inbound
// message from an unseen number; never deleted within the session lifetime.
type Customer struct {
	Phone         string       `json:"phone"`
	Name          string       `json:"name"`
	Email         string       `json:"email,omitempty"`
	IsRegistered  bool         `json:"is_registered"`
	LoyaltyPoints int          `json:"loyalty_points"`
	Addresses     []string     `json:"addresses,omitempty"`
	Preferences   *Preferences `json:"preferences,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	LastInboundAt time.Time    `json:"last_inbound_at"`
}

// Preferences is an optional customer preference set.
type Preferences struct {
	FavoriteCategories  []string `json:"favorite_categories,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// NewCustomer creates an unregistered customer for a phone number.
func NewCustomer(phone, profileName string) *Customer {
	now := time.Now()
	return &Customer{
		Phone:         phone,
		Name:          profileName,
		CreatedAt:     now,
		LastInboundAt: now,
	}
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalidName  = errors.New("name must be at least 2 characters")
	ErrInvalidEmail = errors.New("email address is not valid")
)

// SetName stores the registration name. Rejects names shorter than two
// characters after trimming.
func (c *Customer) SetName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return ErrInvalidName
	}
	c.Name = name
	return nil
}

// SetEmail stores the registration email. The literal "skip" leaves the
// email unset and is not an error.
func (c *Customer) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if strings.EqualFold(email, "skip") {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	c.Email = email
	return nil
}

// AddAddress appends a delivery address unless it is already saved.
func (c *Customer) AddAddress(address string) {
	address = strings.TrimSpace(address)
	if address == "" {
		return
	}
	for _, a := range c.Addresses {
		if a == address {
			return
		}
	}
	c.Addresses = append(c.Addresses, address)
}

// LatestAddress returns the most recently saved delivery address.
func (c *Customer) LatestAddress() string {
	if len(c.Addresses) == 0 {
		return ""
	}
	return c.Addresses[len(c.Addresses)-1]
}

// AwardPoints adds loyalty points to the balance.
func (c *Customer) AwardPoints(points int) {
	if points > 0 {
		c.LoyaltyPoints += points
	}
}

// TouchInbound records a user-initiated message, which opens the
// messaging-platform service window.
func (c *Customer) TouchInbound() {
	c.LastInboundAt = time.Now()
}

// WithinServiceWindow reports whether the 24-hour reply window opened by
// the customer's last inbound message is still open.
func (c *Customer) WithinServiceWindow() bool {
	return time.Since(c.LastInboundAt) < 24*time.Hour
}
