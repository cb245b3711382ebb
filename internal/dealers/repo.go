package dealers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
	"github.com/mvasquezdev/dealerhub-backend/pkg/pagination"
)

// Repository defines persistence operations for dealer accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dealer *models.Dealer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dealer, error)
	List(ctx context.Context, params pagination.Params) ([]models.Dealer, string, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dealers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, dealer *models.Dealer) error {
	return r.db.WithContext(ctx).Create(dealer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.db.WithContext(ctx).First(&dealer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dealer, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Dealer, string, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Dealer
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) == limit {
		rows = rows[:limit-1]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID.String(),
		})
	}
	return rows, nextCursor, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Dealer{}).
		Where("id = ?", id).
		Updates(updates).Error
}
