package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// Repository implements RuleStore over the discount rule tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a rule store tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// DealerProductPercents loads dealer-specific product overrides for the id set.
func (r *Repository) DealerProductPercents(ctx context.Context, dealerID uuid.UUID, productIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.DealerProductDiscount
	err := r.db.WithContext(ctx).
		Where("dealer_id = ? AND product_id IN ?", dealerID, productIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.Percent
	}
	return out, nil
}

// DealerCategoryPercents loads dealer-specific collection overrides for the id set.
func (r *Repository) DealerCategoryPercents(ctx context.Context, dealerID uuid.UUID, collectionIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return out, nil
	}
	var rows []models.DealerCategoryDiscount
	err := r.db.WithContext(ctx).
		Where("dealer_id = ? AND collection_id IN ?", dealerID, collectionIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CollectionID] = row.Percent
	}
	return out, nil
}

// ProductPercents loads global product rules for the id set.
func (r *Repository) ProductPercents(ctx context.Context, productIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.ProductDiscount
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProductID] = row.Percent
	}
	return out, nil
}

// CategoryPercents loads global collection rules for the id set.
func (r *Repository) CategoryPercents(ctx context.Context, collectionIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return out, nil
	}
	var rows []models.CategoryDiscount
	err := r.db.WithContext(ctx).
		Where("collection_id IN ?", collectionIDs).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CollectionID] = row.Percent
	}
	return out, nil
}

// SettingsPercent returns the configured fallback percent, nil when the
// singleton row is absent.
func (r *Repository) SettingsPercent(ctx context.Context) (*float64, error) {
	var row models.Settings
	err := r.db.WithContext(ctx).First(&row, "id = ?", models.SettingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	percent := row.DiscountPercent
	return &percent, nil
}

// TiersByReference loads quantity tiers for a scope keyed by reference id,
// sorted by ascending threshold.
func (r *Repository) TiersByReference(ctx context.Context, scope enums.DiscountScope, referenceIDs []string) (map[string][]Tier, error) {
	out := make(map[string][]Tier, len(referenceIDs))
	if len(referenceIDs) == 0 {
		return out, nil
	}
	var rows []models.DiscountTier
	err := r.db.WithContext(ctx).
		Where("scope = ? AND reference_id IN ?", scope, referenceIDs).
		Order("min_quantity ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ReferenceID] = append(out[row.ReferenceID], Tier{
			MinQuantity: row.MinQuantity,
			Percent:     row.Percent,
		})
	}
	return out, nil
}
