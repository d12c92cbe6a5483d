package persistence

import (
	"context"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, trade.ErrOrderNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("order_status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`(LOWER(order_number) LIKE ? ESCAPE '\' OR customer_id IN (SELECT id FROM customers WHERE LOWER(name) LIKE ? ESCAPE '\'))`,
			pattern, pattern)
	}
	query = rangeQuery(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	page := filter.Page.Normalize(orderSortFields, "created_at")
	if err := pageQuery(query, page).Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]trade.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts the order header and items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists.WithMessage("Order number already exists")
	}
	return err
}

// Update persists the mutable header fields. Items never change after creation.
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"paid_amount":   model.PaidAmount,
			"due_amount":    model.DueAmount,
			"order_status":  model.OrderStatus,
			"delivery_date": model.DeliveryDate,
			"canceled_at":   model.CanceledAt,
			"updated_at":    model.UpdatedAt,
			"version":       order.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	order.Version++
	return nil
}

// Summary aggregates counts per status and money totals. Canceled orders
// count toward collections (until refunded) but not sales or outstanding.
func (r *GormOrderRepository) Summary(ctx context.Context) (*trade.OrderSummary, error) {
	summary := &trade.OrderSummary{CountByStatus: make(map[trade.OrderStatus]int64)}

	var counts []struct {
		OrderStatus trade.OrderStatus
		Count       int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.CountByStatus[c.OrderStatus] = c.Count
	}

	var sales, collected, outstanding decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("COALESCE(SUM(CASE WHEN order_status <> ? THEN final_amount ELSE 0 END), 0), "+
			"COALESCE(SUM(paid_amount), 0), "+
			"COALESCE(SUM(CASE WHEN order_status <> ? THEN due_amount ELSE 0 END), 0)",
			trade.OrderStatusCanceled, trade.OrderStatusCanceled).
		Row().Scan(&sales, &collected, &outstanding)
	if err != nil {
		return nil, err
	}
	summary.TotalSales = sales
	summary.TotalCollected = collected
	summary.TotalOutstanding = outstanding
	return summary, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
