package persistence

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFeedStockRepository implements inventory.FeedStockRepository using GORM.
// Balances change only through single-statement increments and guarded
// decrements so concurrent writers can never drive a balance negative.
type GormFeedStockRepository struct {
	db *gorm.DB
}

// NewGormFeedStockRepository creates a new GormFeedStockRepository
func NewGormFeedStockRepository(db *gorm.DB) *GormFeedStockRepository {
	return &GormFeedStockRepository{db: db}
}

// FindByFeedCategoryID loads the balance row of a category
func (r *GormFeedStockRepository) FindByFeedCategoryID(ctx context.Context, categoryID uuid.UUID) (*inventory.FinishedFeedStock, error) {
	var model models.FinishedFeedStockModel
	if err := r.db.WithContext(ctx).First(&model, "feed_category_id = ?", categoryID).Error; err != nil {
		return nil, notFound(err, shared.ErrNotFound)
	}
	return model.ToDomain(), nil
}

// FindByFeedCategoryIDs loads the balance rows of several categories
func (r *GormFeedStockRepository) FindByFeedCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) ([]inventory.FinishedFeedStock, error) {
	if len(categoryIDs) == 0 {
		return []inventory.FinishedFeedStock{}, nil
	}
	var rows []models.FinishedFeedStockModel
	if err := r.db.WithContext(ctx).Where("feed_category_id IN ?", categoryIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return feedStockToDomain(rows), nil
}

// FindAll returns every balance row
func (r *GormFeedStockRepository) FindAll(ctx context.Context) ([]inventory.FinishedFeedStock, error) {
	var rows []models.FinishedFeedStockModel
	if err := r.db.WithContext(ctx).Order("quantity_available asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return feedStockToDomain(rows), nil
}

// Increment upserts the row, adding bags to any existing balance
func (r *GormFeedStockRepository) Increment(ctx context.Context, categoryID uuid.UUID, bags int64) error {
	now := time.Now().UTC()
	row := &models.FinishedFeedStockModel{
		ID:                uuid.New(),
		FeedCategoryID:    categoryID,
		QuantityAvailable: bags,
		UpdatedAt:         now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "feed_category_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity_available": gorm.Expr("finished_feed_stock.quantity_available + excluded.quantity_available"),
			"updated_at":         now,
		}),
	}).Create(row).Error
}

// DecrementIfAvailable runs UPDATE ... WHERE quantity_available >= bags.
// Zero affected rows means the stock was short (or the row is missing).
func (r *GormFeedStockRepository) DecrementIfAvailable(ctx context.Context, categoryID uuid.UUID, bags int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.FinishedFeedStockModel{}).
		Where("feed_category_id = ? AND quantity_available >= ?", categoryID, bags).
		Updates(map[string]any{
			"quantity_available": gorm.Expr("quantity_available - ?", bags),
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func feedStockToDomain(rows []models.FinishedFeedStockModel) []inventory.FinishedFeedStock {
	out := make([]inventory.FinishedFeedStock, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormFeedStockTransactionRepository implements inventory.FeedStockTransactionRepository
type GormFeedStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormFeedStockTransactionRepository creates a new GormFeedStockTransactionRepository
func NewGormFeedStockTransactionRepository(db *gorm.DB) *GormFeedStockTransactionRepository {
	return &GormFeedStockTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormFeedStockTransactionRepository) Create(ctx context.Context, tx *inventory.FeedStockTransaction) error {
	return r.db.WithContext(ctx).Create(models.FeedStockTransactionModelFromDomain(tx)).Error
}

// FindAll lists ledger entries matching the filter
func (r *GormFeedStockTransactionRepository) FindAll(ctx context.Context, filter inventory.LedgerFilter) ([]inventory.FeedStockTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FeedStockTransactionModel{})
	if filter.EntityID != nil {
		query = query.Where("feed_category_id = ?", *filter.EntityID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	query = rangeQuery(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.FeedStockTransactionModel
	page := filter.Page.Normalize(ledgerSortFields, "created_at")
	if err := pageQuery(query, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]inventory.FeedStockTransaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// MovementBetween sums inbound and outbound bags within [from, to)
func (r *GormFeedStockTransactionRepository) MovementBetween(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (inventory.Movement, error) {
	var in, out int64
	err := r.db.WithContext(ctx).Model(&models.FeedStockTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0), "+
			"COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0)").
		Where("feed_category_id = ? AND created_at >= ? AND created_at < ?", categoryID, from.UTC(), to.UTC()).
		Row().Scan(&in, &out)
	if err != nil {
		return inventory.Movement{}, err
	}
	return inventory.Movement{In: decimal.NewFromInt(in), Out: decimal.NewFromInt(out)}, nil
}

var (
	_ inventory.FeedStockRepository            = (*GormFeedStockRepository)(nil)
	_ inventory.FeedStockTransactionRepository = (*GormFeedStockTransactionRepository)(nil)
)
