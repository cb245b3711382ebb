package discounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
)

// Service exposes the admin-facing discount rule management. Writes are
// upserts keyed on the rule's natural identity, so repeated PUTs converge.
type Service interface {
	UpsertProductDiscount(ctx context.Context, productID string, percent float64) (*RuleResponse, error)
	ListProductDiscounts(ctx context.Context) ([]RuleResponse, error)
	DeleteProductDiscount(ctx context.Context, productID string) error

	UpsertCategoryDiscount(ctx context.Context, collectionID string, percent float64) (*RuleResponse, error)
	ListCategoryDiscounts(ctx context.Context) ([]RuleResponse, error)
	DeleteCategoryDiscount(ctx context.Context, collectionID string) error

	UpsertDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string, percent float64) (*RuleResponse, error)
	ListDealerDiscounts(ctx context.Context, dealerID uuid.UUID) (*DealerRuleList, error)
	DeleteDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string) error

	UpsertDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string, percent float64) (*RuleResponse, error)
	DeleteDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string) error

	UpsertTier(ctx context.Context, input TierInput) (*TierResponse, error)
	ListTiers(ctx context.Context, scope enums.DiscountScope, referenceID string) ([]TierResponse, error)
	DeleteTier(ctx context.Context, scope enums.DiscountScope, referenceID string, minQuantity int) error
}

type service struct {
	repo Repository
}

// NewService builds the discounts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) UpsertProductDiscount(ctx context.Context, productID string, percent float64) (*RuleResponse, error) {
	productID, err := requireReference(productID, "product id")
	if err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	rule := &models.ProductDiscount{
		ID:        uuid.New(),
		ProductID: productID,
		Percent:   percent,
	}
	if err := s.repo.UpsertProductDiscount(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product discount")
	}
	return &RuleResponse{ReferenceID: productID, Percent: percent, Source: enums.DiscountSourceProduct}, nil
}

func (s *service) ListProductDiscounts(ctx context.Context) ([]RuleResponse, error) {
	rows, err := s.repo.ListProductDiscounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product discounts")
	}
	out := make([]RuleResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, RuleResponse{
			ReferenceID: row.ProductID,
			Percent:     row.Percent,
			Source:      enums.DiscountSourceProduct,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) DeleteProductDiscount(ctx context.Context, productID string) error {
	productID, err := requireReference(productID, "product id")
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteProductDiscount(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product discount")
	}
	return requireAffected(affected, "product discount")
}

func (s *service) UpsertCategoryDiscount(ctx context.Context, collectionID string, percent float64) (*RuleResponse, error) {
	collectionID, err := requireReference(collectionID, "collection id")
	if err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	rule := &models.CategoryDiscount{
		ID:           uuid.New(),
		CollectionID: collectionID,
		Percent:      percent,
	}
	if err := s.repo.UpsertCategoryDiscount(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save category discount")
	}
	return &RuleResponse{ReferenceID: collectionID, Percent: percent, Source: enums.DiscountSourceCategory}, nil
}

func (s *service) ListCategoryDiscounts(ctx context.Context) ([]RuleResponse, error) {
	rows, err := s.repo.ListCategoryDiscounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list category discounts")
	}
	out := make([]RuleResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, RuleResponse{
			ReferenceID: row.CollectionID,
			Percent:     row.Percent,
			Source:      enums.DiscountSourceCategory,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) DeleteCategoryDiscount(ctx context.Context, collectionID string) error {
	collectionID, err := requireReference(collectionID, "collection id")
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteCategoryDiscount(ctx, collectionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category discount")
	}
	return requireAffected(affected, "category discount")
}

func (s *service) UpsertDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string, percent float64) (*RuleResponse, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	productID, err := requireReference(productID, "product id")
	if err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	rule := &models.DealerProductDiscount{
		ID:        uuid.New(),
		DealerID:  dealerID,
		ProductID: productID,
		Percent:   percent,
	}
	if err := s.repo.UpsertDealerProductDiscount(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save dealer product discount")
	}
	return &RuleResponse{ReferenceID: productID, DealerID: &dealerID, Percent: percent, Source: enums.DiscountSourceDealerProduct}, nil
}

func (s *service) ListDealerDiscounts(ctx context.Context, dealerID uuid.UUID) (*DealerRuleList, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	productRows, err := s.repo.ListDealerProductDiscounts(ctx, dealerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dealer product discounts")
	}
	categoryRows, err := s.repo.ListDealerCategoryDiscounts(ctx, dealerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dealer category discounts")
	}

	out := &DealerRuleList{
		DealerID:          dealerID,
		ProductDiscounts:  make([]RuleResponse, 0, len(productRows)),
		CategoryDiscounts: make([]RuleResponse, 0, len(categoryRows)),
	}
	for _, row := range productRows {
		out.ProductDiscounts = append(out.ProductDiscounts, RuleResponse{
			ReferenceID: row.ProductID,
			DealerID:    &row.DealerID,
			Percent:     row.Percent,
			Source:      enums.DiscountSourceDealerProduct,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	for _, row := range categoryRows {
		out.CategoryDiscounts = append(out.CategoryDiscounts, RuleResponse{
			ReferenceID: row.CollectionID,
			DealerID:    &row.DealerID,
			Percent:     row.Percent,
			Source:      enums.DiscountSourceDealerCategory,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) DeleteDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string) error {
	if dealerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	productID, err := requireReference(productID, "product id")
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteDealerProductDiscount(ctx, dealerID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dealer product discount")
	}
	return requireAffected(affected, "dealer product discount")
}

func (s *service) UpsertDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string, percent float64) (*RuleResponse, error) {
	if dealerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	collectionID, err := requireReference(collectionID, "collection id")
	if err != nil {
		return nil, err
	}
	if err := validatePercent(percent); err != nil {
		return nil, err
	}
	rule := &models.DealerCategoryDiscount{
		ID:           uuid.New(),
		DealerID:     dealerID,
		CollectionID: collectionID,
		Percent:      percent,
	}
	if err := s.repo.UpsertDealerCategoryDiscount(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save dealer category discount")
	}
	return &RuleResponse{ReferenceID: collectionID, DealerID: &dealerID, Percent: percent, Source: enums.DiscountSourceDealerCategory}, nil
}

func (s *service) DeleteDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string) error {
	if dealerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	collectionID, err := requireReference(collectionID, "collection id")
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteDealerCategoryDiscount(ctx, dealerID, collectionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dealer category discount")
	}
	return requireAffected(affected, "dealer category discount")
}

func (s *service) UpsertTier(ctx context.Context, input TierInput) (*TierResponse, error) {
	referenceID, err := normalizeTierReference(input.Scope, input.ReferenceID)
	if err != nil {
		return nil, err
	}
	if input.MinQuantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min quantity must be at least 1")
	}
	if err := validatePercent(input.Percent); err != nil {
		return nil, err
	}

	tier := &models.DiscountTier{
		ID:          uuid.New(),
		Scope:       input.Scope,
		ReferenceID: referenceID,
		MinQuantity: input.MinQuantity,
		Percent:     input.Percent,
	}
	if err := s.repo.UpsertTier(ctx, tier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save discount tier")
	}
	return &TierResponse{
		Scope:       input.Scope,
		ReferenceID: referenceID,
		MinQuantity: input.MinQuantity,
		Percent:     input.Percent,
	}, nil
}

func (s *service) ListTiers(ctx context.Context, scope enums.DiscountScope, referenceID string) ([]TierResponse, error) {
	if !scope.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tier scope")
	}
	rows, err := s.repo.ListTiers(ctx, scope, strings.TrimSpace(referenceID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount tiers")
	}
	out := make([]TierResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, TierResponse{
			Scope:       row.Scope,
			ReferenceID: row.ReferenceID,
			MinQuantity: row.MinQuantity,
			Percent:     row.Percent,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) DeleteTier(ctx context.Context, scope enums.DiscountScope, referenceID string, minQuantity int) error {
	referenceID, err := normalizeTierReference(scope, referenceID)
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteTier(ctx, scope, referenceID, minQuantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount tier")
	}
	return requireAffected(affected, "discount tier")
}

func normalizeTierReference(scope enums.DiscountScope, referenceID string) (string, error) {
	if !scope.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid tier scope")
	}
	referenceID = strings.TrimSpace(referenceID)
	if scope == enums.DiscountScopeGlobal {
		if referenceID != "" && referenceID != enums.GlobalTierReferenceID {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "global tiers do not take a reference id")
		}
		return enums.GlobalTierReferenceID, nil
	}
	if referenceID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "reference id required for scoped tiers")
	}
	return referenceID, nil
}

func requireReference(value, label string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, label+" required")
	}
	return value, nil
}

func requireAffected(affected int64, label string) error {
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, label+" not found")
	}
	return nil
}

func validatePercent(percent float64) error {
	if percent < 0 || percent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	return nil
}
