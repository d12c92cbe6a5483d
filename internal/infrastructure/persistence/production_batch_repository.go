package persistence

import (
	"context"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionBatchRepository implements inventory.ProductionBatchRepository using GORM
type GormProductionBatchRepository struct {
	db *gorm.DB
}

// NewGormProductionBatchRepository creates a new GormProductionBatchRepository
func NewGormProductionBatchRepository(db *gorm.DB) *GormProductionBatchRepository {
	return &GormProductionBatchRepository{db: db}
}

// Create inserts the batch together with its material lines
func (r *GormProductionBatchRepository) Create(ctx context.Context, batch *inventory.ProductionBatch) error {
	err := r.db.WithContext(ctx).Create(models.ProductionBatchModelFromDomain(batch)).Error
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists.WithMessage("Batch number already exists")
	}
	return err
}

// FindByID loads a batch with its materials
func (r *GormProductionBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionBatch, error) {
	var model models.ProductionBatchModel
	if err := r.db.WithContext(ctx).Preload("Materials").First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, inventory.ErrProductionBatchNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists batches matching the filter; the date range applies to production_date
func (r *GormProductionBatchRepository) FindAll(ctx context.Context, filter inventory.ProductionBatchFilter) ([]inventory.ProductionBatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductionBatchModel{})
	if filter.FeedCategoryID != nil {
		query = query.Where("feed_category_id = ?", *filter.FeedCategoryID)
	}
	query = rangeQuery(query, "production_date", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductionBatchModel
	page := filter.Page.Normalize(productionSortFields, "production_date")
	if err := pageQuery(query, page).Preload("Materials").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]inventory.ProductionBatch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

var _ inventory.ProductionBatchRepository = (*GormProductionBatchRepository)(nil)
