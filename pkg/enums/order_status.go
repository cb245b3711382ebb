package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks the fulfillment lifecycle of a wholesale order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the wire representation.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts a raw string into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(strings.TrimSpace(strings.ToLower(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid order status %q", value)
	}
	return status, nil
}
