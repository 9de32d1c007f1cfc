package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRules = PricingRules{
	FreeDeliveryThresholdPaise: 50000,
	DeliveryFeePaise:           4000,
	TaxRatePercent:             5,
	DefaultPricePaise:          9900,
}

func TestComputePricingBelowThreshold(t *testing.T) {
	b := ComputePricing(49999, testRules)

	assert.Equal(t, int64(4000), b.DeliveryFeePaise)
	assert.Equal(t, int64(2500), b.TaxPaise)
	assert.Equal(t, int64(49999+4000+2500), b.TotalPaise)
}

func TestComputePricingFreeDeliveryAtThreshold(t *testing.T) {
	b := ComputePricing(50000, testRules)

	assert.Zero(t, b.DeliveryFeePaise)
	assert.Equal(t, int64(2500), b.TaxPaise)
	assert.Equal(t, int64(52500), b.TotalPaise)
}

func TestComputePricingTaxRoundsHalfUp(t *testing.T) {
	// 5% of 1010 paise is 50.5, which rounds up to 51.
	b := ComputePricing(1010, testRules)
	assert.Equal(t, int64(51), b.TaxPaise)

	// 5% of 1009 paise is 50.45, which rounds down to 50.
	b = ComputePricing(1009, testRules)
	assert.Equal(t, int64(50), b.TaxPaise)
}

func TestLoyaltyPointsFor(t *testing.T) {
	assert.Equal(t, 0, LoyaltyPointsFor(999))
	assert.Equal(t, 1, LoyaltyPointsFor(1000))
	assert.Equal(t, 52, LoyaltyPointsFor(52500))
}
