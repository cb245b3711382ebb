package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// DiscountTier is a quantity threshold rule. ReferenceID is a product id, a
// collection id, or the "global" sentinel depending on Scope. The tier with the
// largest MinQuantity satisfied by the order quantity replaces the base percent.
type DiscountTier struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Scope       enums.DiscountScope `gorm:"column:scope;not null;uniqueIndex:uq_discount_tiers_scope_ref_qty"`
	ReferenceID string              `gorm:"column:reference_id;not null;uniqueIndex:uq_discount_tiers_scope_ref_qty"`
	MinQuantity int                 `gorm:"column:min_quantity;not null;uniqueIndex:uq_discount_tiers_scope_ref_qty"`
	Percent     float64             `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
