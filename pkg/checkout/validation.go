package checkout

import (
	"fmt"

	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
)

// StockValidationInput describes the data required to verify a line item's
// stock sufficiency against the catalog snapshot.
type StockValidationInput struct {
	ProductID    string
	VariantID    string
	ProductTitle string
	Available    int
	Requested    int
}

// StockViolationDetail exposes the data returned to callers when a check fails.
type StockViolationDetail struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title,omitempty"`
	AvailableQty int    `json:"available_qty"`
	RequestedQty int    `json:"requested_qty"`
}

// ValidateStock ensures every provided line item can be covered by inventory.
// Admin-submitted orders skip this check entirely at the call site.
func ValidateStock(items []StockValidationInput) error {
	var violations []StockViolationDetail
	for _, item := range items {
		if item.Requested <= item.Available {
			continue
		}
		violations = append(violations, StockViolationDetail{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			ProductTitle: item.ProductTitle,
			AvailableQty: item.Available,
			RequestedQty: item.Requested,
		})
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("insufficient stock for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
