package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant carries the sellable unit: retail price and stock.
type ProductVariant struct {
	ID           string          `gorm:"column:id;primaryKey"`
	ProductID    string          `gorm:"column:product_id;not null;index"`
	Title        string          `gorm:"column:title"`
	SKU          string          `gorm:"column:sku"`
	RetailPrice  decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2);not null"`
	InventoryQty int             `gorm:"column:inventory_qty;not null;default:0"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
