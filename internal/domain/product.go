package domain

import "strings"

// Product is a catalog-cache entry. A product is addressable by either its
// catalog id or its retailer id; synthesized placeholders carry the
// requested id as both.
type Product struct {
	ID          string `json:"id"`
	RetailerID  string `json:"retailer_id,omitempty"`
	Name        string `json:"name"`
	PricePaise  int64  `json:"price_paise"`
	Currency    string `json:"currency"`
	Available   bool   `json:"available"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Synthetic   bool   `json:"synthetic,omitempty"`
}

// MatchesQuery reports whether the product name or description contains the
// query, case-insensitively. Used by the fuzzy step of id resolution.
func (p *Product) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	return strings.Contains(strings.ToLower(p.Description), q)
}

// PlaceholderProduct fabricates a stable stand-in for an id that resolved
// nowhere, so the conversation can continue and retries within the cache
// window see the same product.
func PlaceholderProduct(id string, defaultPricePaise int64) *Product {
	return &Product{
		ID:          id,
		RetailerID:  id,
		Name:        "Item " + id,
		PricePaise:  defaultPricePaise,
		Currency:    "INR",
		Available:   true,
		Description: "Catalog item (details being updated)",
		ImageURL:    "https://via.placeholder.com/150",
		Synthetic:   true,
	}
}
