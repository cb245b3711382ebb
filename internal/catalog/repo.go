package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// Filters narrow the catalog listing. The Allowed* slices come from the
// dealer's visibility restrictions; empty means unrestricted.
type Filters struct {
	CollectionID         string
	Vendor               string
	Query                string
	AllowedCollectionIDs []string
	AllowedVendors       []string
}

// Repository defines persistence operations for the synced catalog snapshot.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Product, string, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	FindVariants(ctx context.Context, variantIDs []string) ([]models.ProductVariant, error)
	SyncProducts(ctx context.Context, products []models.Product) error
	SyncCollections(ctx context.Context, collections []models.Collection) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.Product, string, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Variants").
		Preload("Collections").
		Where("products.is_active = ?", true).
		Order("products.created_at DESC, products.id DESC").
		Limit(limit)

	if filters.Vendor != "" {
		query = query.Where("products.vendor = ?", filters.Vendor)
	}
	if filters.Query != "" {
		query = query.Where("products.title LIKE ?", "%"+filters.Query+"%")
	}
	if len(filters.AllowedVendors) > 0 {
		query = query.Where("products.vendor IN ?", filters.AllowedVendors)
	}

	collectionIDs := []string{}
	if filters.CollectionID != "" {
		collectionIDs = append(collectionIDs, filters.CollectionID)
	}
	if len(filters.AllowedCollectionIDs) > 0 && filters.CollectionID == "" {
		collectionIDs = filters.AllowedCollectionIDs
	}
	if len(collectionIDs) > 0 {
		query = query.Where(
			"products.id IN (?)",
			r.db.Table("product_collections").
				Select("product_id").
				Where("collection_id IN ?", collectionIDs),
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(products.created_at < ?) OR (products.created_at = ? AND products.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) == limit {
		rows = rows[:limit-1]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Collections").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Collections").
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindVariants(ctx context.Context, variantIDs []string) ([]models.ProductVariant, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id IN ?", variantIDs).
		Find(&rows).Error
	return rows, err
}

// SyncProducts upserts a storefront snapshot batch. Variants and collection
// links are replaced so rows dropped upstream disappear with the sync.
func (r *repository) SyncProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			product := products[i]
			err := tx.
				Omit(clause.Associations).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					UpdateAll: true,
				}).
				Create(&product).Error
			if err != nil {
				return err
			}

			variantIDs := make([]string, 0, len(product.Variants))
			for j := range product.Variants {
				product.Variants[j].ProductID = product.ID
				variantIDs = append(variantIDs, product.Variants[j].ID)
			}
			if len(product.Variants) > 0 {
				err = tx.
					Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "id"}},
						UpdateAll: true,
					}).
					Create(&product.Variants).Error
				if err != nil {
					return err
				}
			}
			stale := tx.Where("product_id = ?", product.ID)
			if len(variantIDs) > 0 {
				stale = stale.Where("id NOT IN ?", variantIDs)
			}
			if err := stale.Delete(&models.ProductVariant{}).Error; err != nil {
				return err
			}

			err = tx.Model(&models.Product{ID: product.ID}).
				Association("Collections").
				Replace(product.Collections)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) SyncCollections(ctx context.Context, collections []models.Collection) error {
	if len(collections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&collections).Error
}
