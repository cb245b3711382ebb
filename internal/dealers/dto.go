package dealers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
)

// CreateInput carries the fields accepted when an admin registers a dealer.
type CreateInput struct {
	CompanyName          string
	ContactEmail         string
	DiscountPercent      *float64
	DueDays              *int
	AllowedCollectionIDs []string
	AllowedVendors       []string
}

// UpdateInput carries partial dealer updates. The Set* flags distinguish
// "clear the value" from "leave it alone" for nullable columns.
type UpdateInput struct {
	CompanyName          *string
	ContactEmail         *string
	DiscountPercent      *float64
	SetDiscountPercent   bool
	DueDays              *int
	SetDueDays           bool
	AllowedCollectionIDs []string
	AllowedVendors       []string
	IsActive             *bool
}

// DealerResponse is the API representation of a dealer account.
type DealerResponse struct {
	ID                   uuid.UUID `json:"id"`
	CompanyName          string    `json:"company_name"`
	ContactEmail         string    `json:"contact_email,omitempty"`
	DiscountPercent      *float64  `json:"discount_percent,omitempty"`
	DueDays              *int      `json:"due_days,omitempty"`
	AllowedCollectionIDs []string  `json:"allowed_collection_ids,omitempty"`
	AllowedVendors       []string  `json:"allowed_vendors,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

// DealerList wraps the paginated dealers plus the next page cursor.
type DealerList struct {
	Dealers    []DealerResponse `json:"dealers"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func toResponse(dealer *models.Dealer) *DealerResponse {
	return &DealerResponse{
		ID:                   dealer.ID,
		CompanyName:          dealer.CompanyName,
		ContactEmail:         dealer.ContactEmail,
		DiscountPercent:      dealer.DiscountPercent,
		DueDays:              dealer.DueDays,
		AllowedCollectionIDs: dealer.AllowedCollectionIDs,
		AllowedVendors:       dealer.AllowedVendors,
		IsActive:             dealer.IsActive,
		CreatedAt:            dealer.CreatedAt,
	}
}
