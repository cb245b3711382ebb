package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// ListInput filters a priced catalog page. A nil DealerID prices anonymously.
type ListInput struct {
	DealerID     *uuid.UUID
	Pagination   pagination.Params
	CollectionID string
	Vendor       string
	Query        string
	Quantity     int
}

// GetInput fetches one priced product. Quantity drives tier evaluation and
// defaults to 1.
type GetInput struct {
	DealerID  *uuid.UUID
	ProductID string
	Quantity  int
}

type VariantResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	SKU            string          `json:"sku"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	InventoryQty   int             `json:"inventory_qty"`
}

type ProductResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Handle          string               `json:"handle"`
	Vendor          string               `json:"vendor"`
	CollectionIDs   []string             `json:"collection_ids"`
	DiscountPercent float64              `json:"discount_percent"`
	DiscountSource  enums.DiscountSource `json:"discount_source"`
	DiscountTiers   []pricing.Tier       `json:"discount_tiers,omitempty"`
	ActiveTier      *pricing.Tier        `json:"active_tier,omitempty"`
	NextTier        *pricing.Tier        `json:"next_tier,omitempty"`
	Variants        []VariantResponse    `json:"variants"`
}

type ProductList struct {
	Products   []ProductResponse `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
