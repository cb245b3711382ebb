package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/internal/pricing"
	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/mvasquezdev/dealerhub-backend/pkg/errors"
)

// Service exposes the portal-wide configuration singleton.
type Service interface {
	Get(ctx context.Context) (*SettingsResponse, error)
	Update(ctx context.Context, input UpdateInput) (*SettingsResponse, error)
}

// UpdateInput carries partial updates; nil fields keep their current value.
type UpdateInput struct {
	DiscountPercent *float64
	DefaultDueDays  *int
}

// SettingsResponse is the API representation of the singleton row.
type SettingsResponse struct {
	DiscountPercent float64   `json:"discount_percent"`
	DefaultDueDays  int       `json:"default_due_days"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type service struct {
	repo Repository
}

// NewService builds the settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the current configuration. A missing row is reported with the
// resolver's defaults rather than an error so a fresh install still answers.
func (s *service) Get(ctx context.Context) (*SettingsResponse, error) {
	row, err := s.repo.Find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SettingsResponse{
				DiscountPercent: pricing.DefaultFallbackPercent,
				DefaultDueDays:  defaultDueDays,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	return toResponse(row), nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*SettingsResponse, error) {
	if input.DiscountPercent == nil && input.DefaultDueDays == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings fields provided")
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
		}
	}
	if input.DefaultDueDays != nil && *input.DefaultDueDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default due days cannot be negative")
	}

	row, err := s.repo.Find(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
		}
		row = &models.Settings{
			ID:              models.SettingsRowID,
			DiscountPercent: pricing.DefaultFallbackPercent,
			DefaultDueDays:  defaultDueDays,
		}
	}

	if input.DiscountPercent != nil {
		row.DiscountPercent = *input.DiscountPercent
	}
	if input.DefaultDueDays != nil {
		row.DefaultDueDays = *input.DefaultDueDays
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return toResponse(row), nil
}

const defaultDueDays = 30

func toResponse(row *models.Settings) *SettingsResponse {
	return &SettingsResponse{
		DiscountPercent: row.DiscountPercent,
		DefaultDueDays:  row.DefaultDueDays,
		UpdatedAt:       row.UpdatedAt,
	}
}
