package domain

// PricingRules are the fixed checkout constants. Loaded from configuration
// and treated as immutable for the process lifetime.
type PricingRules struct {
	FreeDeliveryThresholdPaise int64
	DeliveryFeePaise           int64
	TaxRatePercent             int64
	DefaultPricePaise          int64
}

// PriceBreakdown is the computed checkout pricing for a cart.
type PriceBreakdown struct {
	SubtotalPaise    int64 `json:"subtotal_paise"`
	DeliveryFeePaise int64 `json:"delivery_fee_paise"`
	TaxPaise         int64 `json:"tax_paise"`
	TotalPaise       int64 `json:"total_paise"`
}

// ComputePricing applies the delivery-fee threshold and rounded percentage
// tax to a subtotal. Delivery is free at or above the threshold.
func ComputePricing(subtotalPaise int64, rules PricingRules) PriceBreakdown {
	var fee int64
	if subtotalPaise < rules.FreeDeliveryThresholdPaise {
		fee = rules.DeliveryFeePaise
	}

	// Round half up.
	tax := (subtotalPaise*rules.TaxRatePercent + 50) / 100

	return PriceBreakdown{
		SubtotalPaise:    subtotalPaise,
		DeliveryFeePaise: fee,
		TaxPaise:         tax,
		TotalPaise:       subtotalPaise + fee + tax,
	}
}

// LoyaltyPointsFor converts an order total into loyalty points: one point
// per ten rupees spent.
func LoyaltyPointsFor(totalPaise int64) int {
	return int(totalPaise / 1000)
}
