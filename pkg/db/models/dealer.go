package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Dealer is a wholesale customer account. DiscountPercent is the blanket
// discount; nil means "defer to global rules", not zero. The allowed lists
// restrict catalog visibility and are orthogonal to pricing.
type Dealer struct {
	ID                   uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CompanyName          string         `gorm:"column:company_name;not null"`
	ContactEmail         string         `gorm:"column:contact_email"`
	DiscountPercent      *float64       `gorm:"column:discount_percent;type:numeric(5,2)"`
	DueDays              *int           `gorm:"column:due_days"`
	AllowedCollectionIDs pq.StringArray `gorm:"column:allowed_collection_ids;type:text[]"`
	AllowedVendors       pq.StringArray `gorm:"column:allowed_vendors;type:text[]"`
	IsActive             bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
