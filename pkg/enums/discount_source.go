package enums

import (
	"fmt"
	"strings"
)

// DiscountSource identifies the precedence level that produced a resolved
// discount. Sources are ordered from most to least specific; the resolver stops
// at the first level that applies.
type DiscountSource string

const (
	DiscountSourceDealerProduct  DiscountSource = "dealer-product"
	DiscountSourceDealerCategory DiscountSource = "dealer-category"
	DiscountSourceDealer         DiscountSource = "dealer"
	DiscountSourceProduct        DiscountSource = "product"
	DiscountSourceCategory       DiscountSource = "category"
	DiscountSourceGlobal         DiscountSource = "global"

	// DiscountSourceCustom marks an admin price override on an order line.
	// It is never produced by the resolver.
	DiscountSourceCustom DiscountSource = "custom"
)

// String returns the wire representation.
func (s DiscountSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known source.
func (s DiscountSource) IsValid() bool {
	switch s {
	case DiscountSourceDealerProduct,
		DiscountSourceDealerCategory,
		DiscountSourceDealer,
		DiscountSourceProduct,
		DiscountSourceCategory,
		DiscountSourceGlobal,
		DiscountSourceCustom:
		return true
	default:
		return false
	}
}

// IsDealerScoped reports whether the source comes from dealer-specific pricing.
// Dealer-scoped prices are exact and never stack with quantity tiers.
func (s DiscountSource) IsDealerScoped() bool {
	return strings.HasPrefix(string(s), "dealer")
}

// ParseDiscountSource converts a raw string into a DiscountSource.
func ParseDiscountSource(value string) (DiscountSource, error) {
	source := DiscountSource(strings.TrimSpace(strings.ToLower(value)))
	if !source.IsValid() {
		return "", fmt.Errorf("invalid discount source %q", value)
	}
	return source, nil
}
