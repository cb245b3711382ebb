package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mvasquezdev/dealerhub-backend/pkg/db/models"
)

// Repository defines persistence operations for the settings singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context) (*models.Settings, error)
	Upsert(ctx context.Context, row *models.Settings) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context) (*models.Settings, error) {
	var row models.Settings
	err := r.db.WithContext(ctx).First(&row, "id = ?", models.SettingsRowID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Upsert(ctx context.Context, row *models.Settings) error {
	row.ID = models.SettingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"discount_percent", "default_due_days", "updated_at"}),
		}).
		Create(row).Error
}
