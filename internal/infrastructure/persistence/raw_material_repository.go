package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRawMaterialRepository implements inventory.RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw material by ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.RawMaterial, error) {
	var model models.RawMaterialModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, inventory.ErrRawMaterialNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every raw material ordered by name
func (r *GormRawMaterialRepository) FindAll(ctx context.Context) ([]inventory.RawMaterial, error) {
	var rows []models.RawMaterialModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.RawMaterial, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for a material with the same name, ignoring case
func (r *GormRawMaterialRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RawMaterialModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a raw material
func (r *GormRawMaterialRepository) Save(ctx context.Context, material *inventory.RawMaterial) error {
	err := r.db.WithContext(ctx).Save(models.RawMaterialModelFromDomain(material)).Error
	if isDuplicateKey(err) {
		return inventory.ErrRawMaterialExists
	}
	return err
}

// GormRawMaterialTransactionRepository implements inventory.RawMaterialTransactionRepository.
// Rows are append-only.
type GormRawMaterialTransactionRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialTransactionRepository creates a new GormRawMaterialTransactionRepository
func NewGormRawMaterialTransactionRepository(db *gorm.DB) *GormRawMaterialTransactionRepository {
	return &GormRawMaterialTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormRawMaterialTransactionRepository) Create(ctx context.Context, tx *inventory.RawMaterialTransaction) error {
	return r.db.WithContext(ctx).Create(models.RawMaterialTransactionModelFromDomain(tx)).Error
}

// CreateBatch appends several entries in one statement
func (r *GormRawMaterialTransactionRepository) CreateBatch(ctx context.Context, txs []*inventory.RawMaterialTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	rows := make([]*models.RawMaterialTransactionModel, len(txs))
	for i, tx := range txs {
		rows[i] = models.RawMaterialTransactionModelFromDomain(tx)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindAll lists ledger entries matching the filter
func (r *GormRawMaterialTransactionRepository) FindAll(ctx context.Context, filter inventory.LedgerFilter) ([]inventory.RawMaterialTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RawMaterialTransactionModel{})
	if filter.EntityID != nil {
		query = query.Where("raw_material_id = ?", *filter.EntityID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	query = rangeQuery(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RawMaterialTransactionModel
	page := filter.Page.Normalize(ledgerSortFields, "created_at")
	if err := pageQuery(query, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]inventory.RawMaterialTransaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Balance sums every delta of the material
func (r *GormRawMaterialTransactionRepository) Balance(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.RawMaterialTransactionModel{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("raw_material_id = ?", materialID).
		Row().Scan(&balance)
	return balance, err
}

// Balances sums deltas grouped by material
func (r *GormRawMaterialTransactionRepository) Balances(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := r.db.WithContext(ctx).Model(&models.RawMaterialTransactionModel{}).
		Select("raw_material_id, COALESCE(SUM(delta), 0)").
		Group("raw_material_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var (
			id      uuid.UUID
			balance decimal.Decimal
		)
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, err
		}
		balances[id] = balance
	}
	return balances, rows.Err()
}

// MovementBetween sums inbound and outbound deltas within [from, to)
func (r *GormRawMaterialTransactionRepository) MovementBetween(ctx context.Context, materialID uuid.UUID, from, to time.Time) (inventory.Movement, error) {
	var m inventory.Movement
	err := r.db.WithContext(ctx).Model(&models.RawMaterialTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0), "+
			"COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0)").
		Where("raw_material_id = ? AND created_at >= ? AND created_at < ?", materialID, from.UTC(), to.UTC()).
		Row().Scan(&m.In, &m.Out)
	return m, err
}

var (
	_ inventory.RawMaterialRepository            = (*GormRawMaterialRepository)(nil)
	_ inventory.RawMaterialTransactionRepository = (*GormRawMaterialTransactionRepository)(nil)
)
