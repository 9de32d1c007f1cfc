package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// All amounts are carried as integer paise (1/100 of a rupee) to keep
// arithmetic exact. Catalog APIs report prices as free-form strings
// ("₹1,299.00", "1299 INR", "1299"), so parsing has to be forgiving.

// ParsePricePaise extracts an amount in paise from a catalog price string.
// Every character except digits and the decimal point is dropped before
// parsing. Returns an error when nothing numeric remains.
func ParsePricePaise(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return 0, fmt.Errorf("no numeric content in price %q", raw)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return int64(value*100 + 0.5), nil
}

// RupeesToPaise converts a currency-unit amount (as reported in catalog
// order line items) to paise.
func RupeesToPaise(rupees float64) int64 {
	if rupees < 0 {
		return 0
	}
	return int64(rupees*100 + 0.5)
}

// FormatPaise renders an amount for outbound messages, e.g. "₹1,299.00".
func FormatPaise(paise int64) string {
	rupees := paise / 100
	fraction := paise % 100
	return fmt.Sprintf("₹%s.%02d", groupDigits(rupees), fraction)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
