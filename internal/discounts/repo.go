package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/enums"
)

// Repository defines persistence operations for every discount rule flavor.
// Upserts key on the rule's natural identity so admin PUTs overwrite in place.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	UpsertProductDiscount(ctx context.Context, rule *models.ProductDiscount) error
	ListProductDiscounts(ctx context.Context) ([]models.ProductDiscount, error)
	DeleteProductDiscount(ctx context.Context, productID string) (int64, error)

	UpsertCategoryDiscount(ctx context.Context, rule *models.CategoryDiscount) error
	ListCategoryDiscounts(ctx context.Context) ([]models.CategoryDiscount, error)
	DeleteCategoryDiscount(ctx context.Context, collectionID string) (int64, error)

	UpsertDealerProductDiscount(ctx context.Context, rule *models.DealerProductDiscount) error
	ListDealerProductDiscounts(ctx context.Context, dealerID uuid.UUID) ([]models.DealerProductDiscount, error)
	DeleteDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string) (int64, error)

	UpsertDealerCategoryDiscount(ctx context.Context, rule *models.DealerCategoryDiscount) error
	ListDealerCategoryDiscounts(ctx context.Context, dealerID uuid.UUID) ([]models.DealerCategoryDiscount, error)
	DeleteDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string) (int64, error)

	UpsertTier(ctx context.Context, tier *models.DiscountTier) error
	ListTiers(ctx context.Context, scope enums.DiscountScope, referenceID string) ([]models.DiscountTier, error)
	DeleteTier(ctx context.Context, scope enums.DiscountScope, referenceID string, minQuantity int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a discounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) UpsertProductDiscount(ctx context.Context, rule *models.ProductDiscount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
		}).
		Create(rule).Error
}

func (r *repository) ListProductDiscounts(ctx context.Context) ([]models.ProductDiscount, error) {
	var rows []models.ProductDiscount
	err := r.db.WithContext(ctx).Order("product_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteProductDiscount(ctx context.Context, productID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductDiscount{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertCategoryDiscount(ctx context.Context, rule *models.CategoryDiscount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
		}).
		Create(rule).Error
}

func (r *repository) ListCategoryDiscounts(ctx context.Context) ([]models.CategoryDiscount, error) {
	var rows []models.CategoryDiscount
	err := r.db.WithContext(ctx).Order("collection_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteCategoryDiscount(ctx context.Context, collectionID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Delete(&models.CategoryDiscount{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertDealerProductDiscount(ctx context.Context, rule *models.DealerProductDiscount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dealer_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
		}).
		Create(rule).Error
}

func (r *repository) ListDealerProductDiscounts(ctx context.Context, dealerID uuid.UUID) ([]models.DealerProductDiscount, error) {
	var rows []models.DealerProductDiscount
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("product_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteDealerProductDiscount(ctx context.Context, dealerID uuid.UUID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("dealer_id = ? AND product_id = ?", dealerID, productID).
		Delete(&models.DealerProductDiscount{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertDealerCategoryDiscount(ctx context.Context, rule *models.DealerCategoryDiscount) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dealer_id"}, {Name: "collection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
		}).
		Create(rule).Error
}

func (r *repository) ListDealerCategoryDiscounts(ctx context.Context, dealerID uuid.UUID) ([]models.DealerCategoryDiscount, error) {
	var rows []models.DealerCategoryDiscount
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("collection_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteDealerCategoryDiscount(ctx context.Context, dealerID uuid.UUID, collectionID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("dealer_id = ? AND collection_id = ?", dealerID, collectionID).
		Delete(&models.DealerCategoryDiscount{})
	return res.RowsAffected, res.Error
}

func (r *repository) UpsertTier(ctx context.Context, tier *models.DiscountTier) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "reference_id"}, {Name: "min_quantity"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "updated_at"}),
		}).
		Create(tier).Error
}

func (r *repository) ListTiers(ctx context.Context, scope enums.DiscountScope, referenceID string) ([]models.DiscountTier, error) {
	query := r.db.WithContext(ctx).Where("scope = ?", scope)
	if referenceID != "" {
		query = query.Where("reference_id = ?", referenceID)
	}
	var rows []models.DiscountTier
	err := query.Order("reference_id ASC, min_quantity ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteTier(ctx context.Context, scope enums.DiscountScope, referenceID string, minQuantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("scope = ? AND reference_id = ? AND min_quantity = ?", scope, referenceID, minQuantity).
		Delete(&models.DiscountTier{})
	return res.RowsAffected, res.Error
}
