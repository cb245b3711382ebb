package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductDiscount is the global product-level discount rule. One row per
// product; admin upserts overwrite the percent in place.
type ProductDiscount struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID string    `gorm:"column:product_id;not null;uniqueIndex:uq_product_discounts_product"`
	Percent   float64   `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CategoryDiscount is the global collection-level discount rule.
type CategoryDiscount struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CollectionID string    `gorm:"column:collection_id;not null;uniqueIndex:uq_category_discounts_collection"`
	Percent      float64   `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DealerProductDiscount overrides pricing for a single (dealer, product) pair.
type DealerProductDiscount struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DealerID  uuid.UUID `gorm:"column:dealer_id;type:uuid;not null;uniqueIndex:uq_dealer_product_discounts"`
	ProductID string    `gorm:"column:product_id;not null;uniqueIndex:uq_dealer_product_discounts"`
	Percent   float64   `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DealerCategoryDiscount overrides pricing for a (dealer, collection) pair.
type DealerCategoryDiscount struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DealerID     uuid.UUID `gorm:"column:dealer_id;type:uuid;not null;uniqueIndex:uq_dealer_category_discounts"`
	CollectionID string    `gorm:"column:collection_id;not null;uniqueIndex:uq_dealer_category_discounts"`
	Percent      float64   `gorm:"column:percent;type:numeric(5,2);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
