package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/internal/dealers"
	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/visibility"
)

// Service lists and fetches catalog products with resolved wholesale pricing
// already applied.
type Service interface {
	List(ctx context.Context, input ListInput) (*ProductList, error)
	Get(ctx context.Context, input GetInput) (*ProductResponse, error)
	SyncProducts(ctx context.Context, products []models.Product) error
	SyncCollections(ctx context.Context, collections []models.Collection) error
}

type service struct {
	repo     Repository
	dealers  dealers.Service
	resolver *pricing.Resolver
}

func NewService(repo Repository, dealerSvc dealers.Service, resolver *pricing.Resolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dealerSvc == nil {
		return nil, fmt.Errorf("dealers service required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	return &service{repo: repo, dealers: dealerSvc, resolver: resolver}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductList, error) {
	quantity, err := normalizeQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	dealerCtx, dealer, err := s.dealerContext(ctx, input.DealerID)
	if err != nil {
		return nil, err
	}

	filters := Filters{
		CollectionID: input.CollectionID,
		Vendor:       input.Vendor,
		Query:        input.Query,
	}
	if dealer != nil {
		filters.AllowedCollectionIDs = dealer.AllowedCollectionIDs
		filters.AllowedVendors = dealer.AllowedVendors
		if filters.CollectionID != "" && len(dealer.AllowedCollectionIDs) > 0 &&
			!containsString(dealer.AllowedCollectionIDs, filters.CollectionID) {
			return &ProductList{Products: []ProductResponse{}}, nil
		}
	}

	products, nextCursor, err := s.repo.List(ctx, input.Pagination, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	refs := make([]pricing.ProductRef, 0, len(products))
	for i := range products {
		refs = append(refs, productRef(&products[i]))
	}

	snapshot, err := s.resolver.Snapshot(ctx, dealerCtx, refs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve discounts")
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, priceProduct(snapshot, &products[i], quantity))
	}
	return &ProductList{Products: responses, NextCursor: nextCursor}, nil
}

func (s *service) Get(ctx context.Context, input GetInput) (*ProductResponse, error) {
	if input.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	quantity, err := normalizeQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	dealerCtx, dealer, err := s.dealerContext(ctx, input.DealerID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := visibility.EnsureProductVisible(visibility.ProductVisibilityInput{
		Product: product,
		Dealer:  dealer,
	}); err != nil {
		return nil, err
	}

	ref := productRef(product)
	snapshot, err := s.resolver.Snapshot(ctx, dealerCtx, []pricing.ProductRef{ref})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve discounts")
	}

	response := priceProduct(snapshot, product, quantity)
	return &response, nil
}

func (s *service) SyncProducts(ctx context.Context, products []models.Product) error {
	if err := s.repo.SyncProducts(ctx, products); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync products")
	}
	return nil
}

func (s *service) SyncCollections(ctx context.Context, collections []models.Collection) error {
	if err := s.repo.SyncCollections(ctx, collections); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync collections")
	}
	return nil
}

func (s *service) dealerContext(ctx context.Context, dealerID *uuid.UUID) (*pricing.DealerContext, *models.Dealer, error) {
	if dealerID == nil {
		return nil, nil, nil
	}
	return s.dealers.PricingContext(ctx, *dealerID)
}

// priceProduct resolves the base discount once per product, overlays the
// active tier at the requested quantity, and prices every variant with the
// effective percent.
func priceProduct(snapshot *pricing.RuleSet, product *models.Product, quantity int) ProductResponse {
	ref := productRef(product)
	resolution := snapshot.Resolve(ref)
	tiers := snapshot.TiersFor(ref, resolution.Source)
	effective := pricing.EffectivePercent(resolution, tiers, quantity)

	response := ProductResponse{
		ID:              product.ID,
		Title:           product.Title,
		Handle:          product.Handle,
		Vendor:          product.Vendor,
		CollectionIDs:   ref.CollectionIDs,
		DiscountPercent: effective,
		DiscountSource:  resolution.Source,
		DiscountTiers:   tiers,
		Variants:        make([]VariantResponse, 0, len(product.Variants)),
	}
	if tier, ok := pricing.ActiveTier(tiers, quantity); ok {
		response.ActiveTier = &tier
	}
	if tier, ok := pricing.NextTier(tiers, quantity); ok {
		response.NextTier = &tier
	}
	for _, variant := range product.Variants {
		response.Variants = append(response.Variants, VariantResponse{
			ID:             variant.ID,
			Title:          variant.Title,
			SKU:            variant.SKU,
			RetailPrice:    variant.RetailPrice,
			WholesalePrice: pricing.WholesalePrice(variant.RetailPrice, effective),
			InventoryQty:   variant.InventoryQty,
		})
	}
	return response
}

func productRef(product *models.Product) pricing.ProductRef {
	collectionIDs := make([]string, 0, len(product.Collections))
	for _, collection := range product.Collections {
		collectionIDs = append(collectionIDs, collection.ID)
	}
	return pricing.ProductRef{ProductID: product.ID, CollectionIDs: collectionIDs}
}

func normalizeQuantity(quantity int) (int, error) {
	if quantity == 0 {
		return 1, nil
	}
	if quantity < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return quantity, nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
