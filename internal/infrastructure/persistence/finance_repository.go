package persistence

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM.
// The payments table is an append-only cash ledger.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create appends a ledger entry
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	return r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error
}

// FindAll lists entries matching the filter; the date range applies to payment_date
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]finance.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Method != "" {
		query = query.Where("payment_method = ?", filter.Method)
	}
	query = rangeQuery(query, "payment_date", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	page := filter.Page.Normalize(paymentSortFields, "payment_date")
	if err := pageQuery(query, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]finance.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SumByOrder returns the signed total of the order's entries
func (r *GormPaymentRepository) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("order_id = ?", orderID).
		Row().Scan(&sum)
	return sum, err
}

// SumBetween returns the signed total of entries dated within [from, to)
func (r *GormPaymentRepository) SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("payment_date >= ? AND payment_date < ?", from.UTC(), to.UTC()).
		Row().Scan(&sum)
	return sum, err
}

// GormRefundRepository implements finance.RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// Create inserts a refund
func (r *GormRefundRepository) Create(ctx context.Context, refund *finance.Refund) error {
	return r.db.WithContext(ctx).Create(models.RefundModelFromDomain(refund)).Error
}

// FindByID finds a refund by ID
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Refund, error) {
	var model models.RefundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, finance.ErrRefundNotFoundOrProcessed)
	}
	return model.ToDomain(), nil
}

// FindAll lists refunds matching the filter
func (r *GormRefundRepository) FindAll(ctx context.Context, filter finance.RefundFilter) ([]finance.Refund, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RefundModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = rangeQuery(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RefundModel
	page := filter.Page.Normalize(refundSortFields, "created_at")
	if err := pageQuery(query, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]finance.Refund, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// MarkProcessed writes the decision only while the stored row is PENDING
func (r *GormRefundRepository) MarkProcessed(ctx context.Context, refund *finance.Refund) (bool, error) {
	model := models.RefundModelFromDomain(refund)
	result := r.db.WithContext(ctx).Model(&models.RefundModel{}).
		Where("id = ? AND status = ?", refund.ID, finance.RefundStatusPending).
		Updates(map[string]any{
			"status":        model.Status,
			"admin_user_id": model.AdminUserID,
			"processed_at":  model.ProcessedAt,
			"updated_at":    model.UpdatedAt,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	refund.Version++
	return true, nil
}

// CountPending counts refunds awaiting a decision
func (r *GormRefundRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RefundModel{}).
		Where("status = ?", finance.RefundStatusPending).
		Count(&count).Error
	return count, err
}

var (
	_ finance.PaymentRepository = (*GormPaymentRepository)(nil)
	_ finance.RefundRepository  = (*GormRefundRepository)(nil)
)
