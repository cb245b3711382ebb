package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// Order is a persisted wholesale order. DiscountPercent is the arithmetic mean
// of line-level percents, kept for display compatibility.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	DealerID        uuid.UUID         `gorm:"column:dealer_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;not null"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DiscountPercent float64           `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	Notes           *string           `gorm:"column:notes"`
	DueDate         *time.Time        `gorm:"column:due_date"`
	LineItems       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots pricing at submission time: retail, resolved
// wholesale, the percent and precedence source that produced it.
type OrderLineItem struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       string               `gorm:"column:product_id;not null"`
	VariantID       string               `gorm:"column:variant_id;not null"`
	Title           string               `gorm:"column:title"`
	Quantity        int                  `gorm:"column:quantity;not null"`
	RetailPrice     decimal.Decimal      `gorm:"column:retail_price;type:numeric(12,2);not null"`
	WholesalePrice  decimal.Decimal      `gorm:"column:wholesale_price;type:numeric(12,2);not null"`
	DiscountPercent float64              `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	DiscountSource  enums.DiscountSource `gorm:"column:discount_source;not null"`
	LineTotal       decimal.Decimal      `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
