package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// Actor is the authenticated principal placing or reading orders. Dealer
// actors always carry their dealer id; admin actors have none.
type Actor struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	DealerID *uuid.UUID
}

// LineInput is one requested order line. CustomPrice is the per-unit price an
// admin may force on a manually created order; dealers cannot set it.
type LineInput struct {
	ProductID   string           `json:"product_id" validate:"required"`
	VariantID   string           `json:"variant_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"required,gte=1"`
	CustomPrice *decimal.Decimal `json:"custom_price,omitempty"`
}

// CreateInput is an order submission. DealerID is only honored for admin
// actors creating an order on a dealer's behalf.
type CreateInput struct {
	DealerID *uuid.UUID  `json:"dealer_id,omitempty"`
	Notes    *string     `json:"notes,omitempty"`
	Lines    []LineInput `json:"lines" validate:"required,min=1,dive"`
}

type LineItemResponse struct {
	ID              uuid.UUID            `json:"id"`
	ProductID       string               `json:"product_id"`
	VariantID       string               `json:"variant_id"`
	Title           string               `json:"title"`
	Quantity        int                  `json:"quantity"`
	RetailPrice     decimal.Decimal      `json:"retail_price"`
	WholesalePrice  decimal.Decimal      `json:"wholesale_price"`
	DiscountPercent float64              `json:"discount_percent"`
	DiscountSource  enums.DiscountSource `json:"discount_source"`
	LineTotal       decimal.Decimal      `json:"line_total"`
}

type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	DealerID        uuid.UUID          `json:"dealer_id"`
	Status          enums.OrderStatus  `json:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	DiscountPercent float64            `json:"discount_percent"`
	Notes           *string            `json:"notes,omitempty"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	LineItems       []LineItemResponse `json:"line_items"`
	CreatedAt       time.Time          `json:"created_at"`
}

type OrderList struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func toResponse(order *models.Order) *OrderResponse {
	response := &OrderResponse{
		ID:              order.ID,
		DealerID:        order.DealerID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		DiscountPercent: order.DiscountPercent,
		Notes:           order.Notes,
		DueDate:         order.DueDate,
		LineItems:       make([]LineItemResponse, 0, len(order.LineItems)),
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.LineItems {
		response.LineItems = append(response.LineItems, LineItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			Title:           item.Title,
			Quantity:        item.Quantity,
			RetailPrice:     item.RetailPrice,
			WholesalePrice:  item.WholesalePrice,
			DiscountPercent: item.DiscountPercent,
			DiscountSource:  item.DiscountSource,
			LineTotal:       item.LineTotal,
		})
	}
	return response
}
