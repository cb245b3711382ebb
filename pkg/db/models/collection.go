package models

import "time"

// Collection mirrors a storefront collection used for category-level discounts.
type Collection struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Title     string    `gorm:"column:title;not null"`
	SyncedAt  time.Time `gorm:"column:synced_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
