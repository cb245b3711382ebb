package enums

import (
	"fmt"
	"strings"
)

// DiscountScope classifies what a quantity tier row is attached to.
type DiscountScope string

const (
	DiscountScopeProduct  DiscountScope = "product"
	DiscountScopeCategory DiscountScope = "category"
	DiscountScopeGlobal   DiscountScope = "global"
)

// GlobalTierReferenceID is the sentinel reference id used by global tier rows.
const GlobalTierReferenceID = "global"

// String returns the wire representation.
func (s DiscountScope) String() string {
	return string(s)
}

// IsValid reports whether the value is a known scope.
func (s DiscountScope) IsValid() bool {
	switch s {
	case DiscountScopeProduct, DiscountScopeCategory, DiscountScopeGlobal:
		return true
	default:
		return false
	}
}

// ParseDiscountScope converts a raw string into a DiscountScope.
func ParseDiscountScope(value string) (DiscountScope, error) {
	scope := DiscountScope(strings.TrimSpace(strings.ToLower(value)))
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid discount scope %q", value)
	}
	return scope, nil
}
