package dealers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// Service exposes dealer account management plus the pricing-side dealer
// context lookup used by catalog and order flows.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*DealerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*DealerResponse, error)
	List(ctx context.Context, params pagination.Params) (*DealerList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DealerResponse, error)
	PricingContext(ctx context.Context, dealerID uuid.UUID) (*pricing.DealerContext, *models.Dealer, error)
}

type service struct {
	repo Repository
}

// NewService builds the dealers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dealers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*DealerResponse, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}
	if err := validatePercent(input.DiscountPercent); err != nil {
		return nil, err
	}
	if input.DueDays != nil && *input.DueDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due days cannot be negative")
	}

	dealer := &models.Dealer{
		ID:                   uuid.New(),
		CompanyName:          name,
		ContactEmail:         strings.TrimSpace(input.ContactEmail),
		DiscountPercent:      input.DiscountPercent,
		DueDays:              input.DueDays,
		AllowedCollectionIDs: pq.StringArray(input.AllowedCollectionIDs),
		AllowedVendors:       pq.StringArray(input.AllowedVendors),
		IsActive:             true,
	}
	if err := s.repo.Create(ctx, dealer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dealer")
	}
	return toResponse(dealer), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DealerResponse, error) {
	dealer, err := s.findDealer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(dealer), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*DealerList, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dealers")
	}
	out := &DealerList{
		Dealers:    make([]DealerResponse, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		out.Dealers = append(out.Dealers, *toResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DealerResponse, error) {
	if _, err := s.findDealer(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		updates["company_name"] = name
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = strings.TrimSpace(*input.ContactEmail)
	}
	if input.SetDiscountPercent {
		if err := validatePercent(input.DiscountPercent); err != nil {
			return nil, err
		}
		updates["discount_percent"] = input.DiscountPercent
	}
	if input.SetDueDays {
		if input.DueDays != nil && *input.DueDays < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "due days cannot be negative")
		}
		updates["due_days"] = input.DueDays
	}
	if input.AllowedCollectionIDs != nil {
		updates["allowed_collection_ids"] = pq.StringArray(input.AllowedCollectionIDs)
	}
	if input.AllowedVendors != nil {
		updates["allowed_vendors"] = pq.StringArray(input.AllowedVendors)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no dealer fields provided")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dealer")
	}
	dealer, err := s.findDealer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(dealer), nil
}

// PricingContext loads the dealer and shapes it for the discount resolver.
// Inactive dealers resolve as anonymous so stale logins see public pricing.
func (s *service) PricingContext(ctx context.Context, dealerID uuid.UUID) (*pricing.DealerContext, *models.Dealer, error) {
	dealer, err := s.findDealer(ctx, dealerID)
	if err != nil {
		return nil, nil, err
	}
	if !dealer.IsActive {
		return nil, dealer, nil
	}
	return &pricing.DealerContext{
		DealerID:       dealer.ID,
		BlanketPercent: dealer.DiscountPercent,
	}, dealer, nil
}

func (s *service) findDealer(ctx context.Context, id uuid.UUID) (*models.Dealer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dealer id required")
	}
	dealer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer")
	}
	return dealer, nil
}

func validatePercent(percent *float64) error {
	if percent == nil {
		return nil
	}
	if *percent < 0 || *percent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	return nil
}
