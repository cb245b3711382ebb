package visibility

import (
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
)

// ProductVisibilityInput drives the shared visibility checks for catalog reads.
// A nil Dealer means an admin or anonymous context with no restrictions.
type ProductVisibilityInput struct {
	Product *models.Product
	Dealer  *models.Dealer
}

// EnsureProductVisible enforces canonical rules so restricted products never
// leak through dealer-facing queries. Visibility is orthogonal to pricing.
func EnsureProductVisible(input ProductVisibilityInput) error {
	if input.Product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !input.Product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if input.Dealer == nil {
		return nil
	}

	if len(input.Dealer.AllowedVendors) > 0 && !contains(input.Dealer.AllowedVendors, input.Product.Vendor) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not available to this account")
	}

	if len(input.Dealer.AllowedCollectionIDs) > 0 {
		allowed := false
		for _, collection := range input.Product.Collections {
			if contains(input.Dealer.AllowedCollectionIDs, collection.ID) {
				allowed = true
				break
			}
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not available to this account")
		}
	}

	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
