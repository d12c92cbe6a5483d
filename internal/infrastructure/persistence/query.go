package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sort whitelists map API field names to columns.
var (
	ledgerSortFields = map[string]string{
		"created_at": "created_at",
		"quantity":   "quantity",
		"type":       "type",
	}
	productionSortFields = map[string]string{
		"production_date": "production_date",
		"produced_bags":   "produced_bags",
		"created_at":      "created_at",
		"batch_number":    "batch_number",
	}
	customerSortFields = map[string]string{
		"name":       "name",
		"district":   "district",
		"state":      "state",
		"type":       "type",
		"created_at": "created_at",
	}
	orderSortFields = map[string]string{
		"created_at":    "created_at",
		"order_number":  "order_number",
		"final_amount":  "final_amount",
		"due_amount":    "due_amount",
		"status":        "order_status",
		"delivery_date": "delivery_date",
	}
	paymentSortFields = map[string]string{
		"payment_date": "payment_date",
		"amount":       "amount_paid",
		"created_at":   "created_at",
	}
	refundSortFields = map[string]string{
		"created_at":   "created_at",
		"amount":       "amount",
		"status":       "status",
		"processed_at": "processed_at",
	}
)

// pageQuery applies ordering and limits of a normalized page
func pageQuery(db *gorm.DB, p shared.Page) *gorm.DB {
	return db.Order(p.OrderClause()).Offset(p.Offset()).Limit(p.PageSize)
}

// rangeQuery restricts column to the half-open window [From, To)
func rangeQuery(db *gorm.DB, column string, r shared.DateRange) *gorm.DB {
	if r.From != nil {
		db = db.Where(column+" >= ?", r.From.UTC())
	}
	if r.To != nil {
		db = db.Where(column+" < ?", r.To.UTC())
	}
	return db
}

// likePattern builds a case-insensitive contains pattern for LOWER(column) LIKE ?
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// notFound maps gorm's missing-row error to the given domain error
func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

// isDuplicateKey reports a unique-constraint violation (requires TranslateError)
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// saveVersioned updates the row of table guarded by WHERE version = ?, bumping
// the stored version. When no row has the ID yet it inserts model instead.
// It returns the version now stored.
func saveVersioned(ctx context.Context, db *gorm.DB, table, model any, id uuid.UUID, version int, fields map[string]any) (int, error) {
	fields["version"] = version + 1
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	result := db.WithContext(ctx).Model(table).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if result.Error != nil {
		return version, result.Error
	}
	if result.RowsAffected > 0 {
		return version + 1, nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return version, err
	}
	if count > 0 {
		return version, shared.ErrConcurrentModification
	}
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return version, err
	}
	return version, nil
}
