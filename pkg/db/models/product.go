package models

import "time"

// Product is one row of the synced storefront catalog snapshot. IDs are the
// storefront's own identifiers, kept opaque on purpose.
type Product struct {
	ID          string           `gorm:"column:id;primaryKey"`
	Title       string           `gorm:"column:title;not null"`
	Handle      string           `gorm:"column:handle"`
	Vendor      string           `gorm:"column:vendor"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Collections []Collection     `gorm:"many2many:product_collections;joinForeignKey:ProductID;joinReferences:CollectionID"`
	SyncedAt    time.Time        `gorm:"column:synced_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
