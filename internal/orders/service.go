package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/internal/catalog"
	"github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/internal/settings"
	"github.com/mvasquezdev/dealerhub-backend/pkg/checkout"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// Service finalizes, reads, and transitions wholesale orders. Every submitted
// line is re-priced server-side; client-supplied prices are only honored on
// admin custom-price lines.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*OrderResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error)
	List(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderResponse, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	dealers  dealers.Service
	settings settings.Service
	resolver *pricing.Resolver
}

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	dealerSvc dealers.Service,
	settingsSvc settings.Service,
	resolver *pricing.Resolver,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dealerSvc == nil {
		return nil, fmt.Errorf("dealers service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	return &service{
		repo:     repo,
		catalog:  catalogRepo,
		dealers:  dealerSvc,
		settings: settingsSvc,
		resolver: resolver,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*OrderResponse, error) {
	isAdmin := actor.Role == enums.UserRoleAdmin

	dealerID, err := targetDealerID(actor, input)
	if err != nil {
		return nil, err
	}
	if err := validateLines(input.Lines, isAdmin); err != nil {
		return nil, err
	}

	dealerCtx, dealer, err := s.dealers.PricingContext(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if !dealer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "dealer account is inactive")
	}

	products, variants, err := s.loadCatalogRows(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	refs := make([]pricing.ProductRef, 0, len(products))
	for _, product := range products {
		refs = append(refs, productRef(product))
	}
	snapshot, err := s.resolver.Snapshot(ctx, dealerCtx, refs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve discounts")
	}

	if !isAdmin {
		stock := make([]checkout.StockValidationInput, 0, len(input.Lines))
		for _, line := range input.Lines {
			variant := variants[line.VariantID]
			stock = append(stock, checkout.StockValidationInput{
				ProductID:    line.ProductID,
				VariantID:    line.VariantID,
				ProductTitle: products[line.ProductID].Title,
				Available:    variant.InventoryQty,
				Requested:    line.Quantity,
			})
		}
		if err := checkout.ValidateStock(stock); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		ID:       uuid.New(),
		DealerID: dealerID,
		Status:   enums.OrderStatusPending,
		Notes:    input.Notes,
	}

	percentSum := 0.0
	total := decimal.Zero
	for _, line := range input.Lines {
		product := products[line.ProductID]
		variant := variants[line.VariantID]
		item := priceLine(snapshot, product, variant, line)
		item.OrderID = order.ID
		order.LineItems = append(order.LineItems, item)
		percentSum += item.DiscountPercent
		total = total.Add(item.LineTotal)
	}

	order.TotalAmount = total
	// Arithmetic mean across lines, unweighted. A quantity-weighted mean would
	// be more representative, but existing documents depend on this figure.
	order.DiscountPercent = roundPercent(percentSum / float64(len(order.LineItems)))

	dueDate, err := s.dueDate(ctx, dealer)
	if err != nil {
		return nil, err
	}
	order.DueDate = dueDate

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	return toResponse(order), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Cross-dealer reads get the same answer as missing orders so dealer A
	// cannot probe for dealer B's order ids.
	if actor.Role != enums.UserRoleAdmin {
		if actor.DealerID == nil || *actor.DealerID != order.DealerID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return toResponse(order), nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error) {
	var scope *uuid.UUID
	if actor.Role != enums.UserRoleAdmin {
		if actor.DealerID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "dealer context required")
		}
		scope = actor.DealerID
	}

	rows, nextCursor, err := s.repo.List(ctx, params, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	list := &OrderList{Orders: make([]OrderResponse, 0, len(rows)), NextCursor: nextCursor}
	for i := range rows {
		list.Orders = append(list.Orders, *toResponse(&rows[i]))
	}
	return list, nil
}

// statusTransitions holds the allowed fulfillment moves. Completed and
// cancelled are terminal.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:   {enums.OrderStatusCompleted},
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderResponse, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	allowed := false
	for _, next := range statusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status),
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return toResponse(order), nil
}

func targetDealerID(actor Actor, input CreateInput) (uuid.UUID, error) {
	if actor.Role == enums.UserRoleAdmin {
		if input.DealerID == nil || *input.DealerID == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required for admin-created orders")
		}
		return *input.DealerID, nil
	}
	if actor.DealerID == nil || *actor.DealerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "dealer context required")
	}
	if input.DealerID != nil && *input.DealerID != *actor.DealerID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot create orders for another dealer")
	}
	return *actor.DealerID, nil
}

func validateLines(lines []LineInput, isAdmin bool) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	for i, line := range lines {
		if line.ProductID == "" || line.VariantID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: product and variant ids are required", i))
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be at least 1", i))
		}
		if line.CustomPrice != nil {
			if !isAdmin {
				return pkgerrors.New(pkgerrors.CodeForbidden, "custom prices are reserved for administrators")
			}
			if line.CustomPrice.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: custom price cannot be negative", i))
			}
		}
	}
	return nil
}

func (s *service) loadCatalogRows(ctx context.Context, lines []LineInput) (map[string]*models.Product, map[string]*models.ProductVariant, error) {
	productIDs := make([]string, 0, len(lines))
	variantIDs := make([]string, 0, len(lines))
	seenProducts := map[string]bool{}
	seenVariants := map[string]bool{}
	for _, line := range lines {
		if !seenProducts[line.ProductID] {
			seenProducts[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
		if !seenVariants[line.VariantID] {
			seenVariants[line.VariantID] = true
			variantIDs = append(variantIDs, line.VariantID)
		}
	}

	productRows, err := s.catalog.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	products := make(map[string]*models.Product, len(productRows))
	for i := range productRows {
		products[productRows[i].ID] = &productRows[i]
	}

	variantRows, err := s.catalog.FindVariants(ctx, variantIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	variants := make(map[string]*models.ProductVariant, len(variantRows))
	for i := range variantRows {
		variants[variantRows[i].ID] = &variantRows[i]
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || !product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", line.ProductID))
		}
		variant, ok := variants[line.VariantID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %s not found", line.VariantID))
		}
		if variant.ProductID != line.ProductID {
			return nil, nil, pkgerrors.New(
				pkgerrors.CodeValidation,
				fmt.Sprintf("variant %s does not belong to product %s", line.VariantID, line.ProductID),
			)
		}
	}
	return products, variants, nil
}

// priceLine produces one persisted line item. Custom-price lines skip
// resolution entirely; the percent is back-computed for display and audit.
func priceLine(snapshot *pricing.RuleSet, product *models.Product, variant *models.ProductVariant, line LineInput) models.OrderLineItem {
	item := models.OrderLineItem{
		ID:          uuid.New(),
		ProductID:   line.ProductID,
		VariantID:   line.VariantID,
		Title:       product.Title,
		Quantity:    line.Quantity,
		RetailPrice: variant.RetailPrice,
	}

	if line.CustomPrice != nil {
		item.WholesalePrice = line.CustomPrice.Round(2)
		item.DiscountPercent = pricing.DiscountPercentFromPrice(item.WholesalePrice, variant.RetailPrice)
		item.DiscountSource = enums.DiscountSourceCustom
	} else {
		ref := productRef(product)
		resolution := snapshot.Resolve(ref)
		tiers := snapshot.TiersFor(ref, resolution.Source)
		effective := pricing.EffectivePercent(resolution, tiers, line.Quantity)
		item.WholesalePrice = pricing.WholesalePrice(variant.RetailPrice, effective)
		item.DiscountPercent = effective
		item.DiscountSource = resolution.Source
	}

	item.LineTotal = item.WholesalePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	return item
}

func (s *service) dueDate(ctx context.Context, dealer *models.Dealer) (*time.Time, error) {
	days := 0
	if dealer.DueDays != nil {
		days = *dealer.DueDays
	} else {
		current, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		days = current.DefaultDueDays
	}
	if days <= 0 {
		return nil, nil
	}
	due := time.Now().UTC().AddDate(0, 0, days)
	return &due, nil
}

func productRef(product *models.Product) pricing.ProductRef {
	collectionIDs := make([]string, 0, len(product.Collections))
	for _, collection := range product.Collections {
		collectionIDs = append(collectionIDs, collection.ID)
	}
	return pricing.ProductRef{ProductID: product.ID, CollectionIDs: collectionIDs}
}

func roundPercent(value float64) float64 {
	return math.Round(value*100) / 100
}
