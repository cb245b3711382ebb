package discounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// RuleResponse is the API representation of one flat discount rule.
type RuleResponse struct {
	ReferenceID string               `json:"reference_id"`
	DealerID    *uuid.UUID           `json:"dealer_id,omitempty"`
	Percent     float64              `json:"percent"`
	Source      enums.DiscountSource `json:"source"`
	UpdatedAt   time.Time            `json:"updated_at,omitempty"`
}

// DealerRuleList groups a dealer's override rules by flavor.
type DealerRuleList struct {
	DealerID          uuid.UUID      `json:"dealer_id"`
	ProductDiscounts  []RuleResponse `json:"product_discounts"`
	CategoryDiscounts []RuleResponse `json:"category_discounts"`
}

// TierInput carries one quantity tier write.
type TierInput struct {
	Scope       enums.DiscountScope
	ReferenceID string
	MinQuantity int
	Percent     float64
}

// TierResponse is the API representation of a quantity tier.
type TierResponse struct {
	Scope       enums.DiscountScope `json:"scope"`
	ReferenceID string              `json:"reference_id"`
	MinQuantity int                 `json:"min_quantity"`
	Percent     float64             `json:"percent"`
	UpdatedAt   time.Time           `json:"updated_at,omitempty"`
}
