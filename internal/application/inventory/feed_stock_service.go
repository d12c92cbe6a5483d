package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FeedStockService records production, sales and adjustments of bagged feed.
// Every balance change is paired with a ledger row in the same transaction.
type FeedStockService struct {
	scope           txn.TransactionScope
	loc             *time.Location
	lowStockBags    int64
	businessMetrics *telemetry.BusinessMetrics
}

// NewFeedStockService creates a new FeedStockService
func NewFeedStockService(scope txn.TransactionScope, loc *time.Location, lowStockBags int64) *FeedStockService {
	if loc == nil {
		loc = time.UTC
	}
	return &FeedStockService{scope: scope, loc: loc, lowStockBags: lowStockBags}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *FeedStockService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// RecordProduction stores a batch, consumes its raw materials and adds the
// produced bags to stock in one transaction. Raw-material balances are not
// checked and may go negative.
func (s *FeedStockService) RecordProduction(ctx context.Context, adminID uuid.UUID, req RecordProductionRequest) (resp *ProductionBatchResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.record_production",
		attribute.String("feed_category_id", req.FeedCategoryID.String()),
		attribute.Int64("produced_bags", req.ProducedBags))
	defer func() { telemetry.EndSpan(span, err) }()

	usages := make([]inventory.MaterialUsage, len(req.Materials))
	for i, m := range req.Materials {
		usages[i] = inventory.MaterialUsage{RawMaterialID: m.RawMaterialID, Quantity: m.Quantity}
	}
	var productionDate time.Time
	if req.ProductionDate != nil {
		productionDate = *req.ProductionDate
	}
	batch, err := inventory.NewProductionBatch(req.FeedCategoryID, adminID, req.ProducedBags, productionDate, usages, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		if _, err := repos.FeedCategories().FindByID(ctx, batch.FeedCategoryID); err != nil {
			return err
		}

		consumed := make([]*inventory.RawMaterialTransaction, 0, len(batch.Materials))
		for _, m := range batch.Materials {
			if _, err := repos.RawMaterials().FindByID(ctx, m.RawMaterialID); err != nil {
				return err
			}
			out, err := inventory.NewRawMaterialTransaction(m.RawMaterialID, adminID, inventory.RawTransactionOut,
				m.QuantityUsed, "Consumed by batch "+batch.BatchNumber)
			if err != nil {
				return err
			}
			consumed = append(consumed, out.WithReference(inventory.ReferenceProductionBatch, batch.ID))
		}

		if err := repos.ProductionBatches().Create(ctx, batch); err != nil {
			return err
		}
		if err := repos.RawMaterialLedger().CreateBatch(ctx, consumed); err != nil {
			return err
		}
		if err := repos.FeedStock().Increment(ctx, batch.FeedCategoryID, batch.ProducedBags); err != nil {
			return err
		}
		in, err := inventory.NewProductionIn(batch.FeedCategoryID, adminID, batch.ID, batch.ProducedBags)
		if err != nil {
			return err
		}
		return repos.FeedLedger().Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordProduction(ctx, batch.ProducedBags)
	}
	logger.FromContext(ctx).Info("production recorded",
		zap.String("batch_number", batch.BatchNumber),
		zap.String("feed_category_id", batch.FeedCategoryID.String()),
		zap.Int64("bags", batch.ProducedBags),
		zap.Int("materials", len(batch.Materials)))

	response := ToProductionBatchResponse(batch)
	return &response, nil
}

// GetBatch returns a production batch with its materials
func (s *FeedStockService) GetBatch(ctx context.Context, id uuid.UUID) (*ProductionBatchResponse, error) {
	batch, err := s.scope.Reader().ProductionBatches().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductionBatchResponse(batch)
	return &response, nil
}

// ListBatches lists production batches
func (s *FeedStockService) ListBatches(ctx context.Context, filter ProductionBatchListFilter) (shared.Paginated[ProductionBatchResponse], error) {
	domainFilter := filter.ToDomain(s.loc)
	batches, total, err := s.scope.Reader().ProductionBatches().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductionBatchResponse]{}, err
	}
	items := make([]ProductionBatchResponse, len(batches))
	for i := range batches {
		items[i] = ToProductionBatchResponse(&batches[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

// DeductForSale removes bags for an order in its own transaction
func (s *FeedStockService) DeductForSale(ctx context.Context, adminID, feedCategoryID uuid.UUID, bags int64, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos txn.Repositories) error {
		return DeductStock(ctx, repos, adminID, feedCategoryID, bags, orderID)
	})
}

// DeductStock decrements stock with a conditional update and writes the
// SALE_OUT row. repos must belong to the caller's transaction so a failure
// rolls back everything the caller wrote before it.
func DeductStock(ctx context.Context, repos txn.Repositories, adminID, feedCategoryID uuid.UUID, bags int64, orderID uuid.UUID) error {
	entry, err := inventory.NewSaleOut(feedCategoryID, adminID, orderID, bags)
	if err != nil {
		return err
	}
	ok, err := repos.FeedStock().DecrementIfAvailable(ctx, feedCategoryID, bags)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrInsufficientStock.WithMessage(
			fmt.Sprintf("Insufficient stock for feed category %s: %d bags requested", feedCategoryID, bags))
	}
	return repos.FeedLedger().Create(ctx, entry)
}

// RestockCanceled returns bags of a canceled, already dispatched order to
// stock with a compensating ADJUSTMENT row. repos must be transactional.
func RestockCanceled(ctx context.Context, repos txn.Repositories, adminID, feedCategoryID, orderID uuid.UUID, orderNumber string, bags int64) error {
	entry, err := inventory.NewCancellationRestock(feedCategoryID, adminID, orderID, orderNumber, bags)
	if err != nil {
		return err
	}
	if err := repos.FeedStock().Increment(ctx, feedCategoryID, bags); err != nil {
		return err
	}
	return repos.FeedLedger().Create(ctx, entry)
}

// Adjust applies a signed manual correction. A negative delta uses the same
// conditional update as a sale and never drives stock below zero.
func (s *FeedStockService) Adjust(ctx context.Context, adminID uuid.UUID, req FeedAdjustmentRequest) (*FeedStockTransactionResponse, error) {
	entry, err := inventory.NewFeedAdjustment(req.FeedCategoryID, adminID, req.Delta, req.Reason)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		if _, err := repos.FeedCategories().FindByID(ctx, req.FeedCategoryID); err != nil {
			return err
		}
		if req.Delta > 0 {
			if err := repos.FeedStock().Increment(ctx, req.FeedCategoryID, req.Delta); err != nil {
				return err
			}
		} else {
			ok, err := repos.FeedStock().DecrementIfAvailable(ctx, req.FeedCategoryID, -req.Delta)
			if err != nil {
				return err
			}
			if !ok {
				return shared.ErrInsufficientStock.WithMessage("Adjustment would make stock negative")
			}
		}
		return repos.FeedLedger().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("feed stock adjusted",
		zap.String("feed_category_id", req.FeedCategoryID.String()),
		zap.Int64("delta", req.Delta),
		zap.String("reason", entry.Reason))

	response := ToFeedStockTransactionResponse(entry)
	return &response, nil
}

// GetStock returns the balance of one category; a category never produced has 0 bags
func (s *FeedStockService) GetStock(ctx context.Context, feedCategoryID uuid.UUID) (*FeedStockResponse, error) {
	repos := s.scope.Reader()
	category, err := repos.FeedCategories().FindByID(ctx, feedCategoryID)
	if err != nil {
		return nil, err
	}
	rows, err := repos.FeedStock().FindByFeedCategoryIDs(ctx, []uuid.UUID{feedCategoryID})
	if err != nil {
		return nil, err
	}
	var stock *inventory.FinishedFeedStock
	if len(rows) > 0 {
		stock = &rows[0]
	}
	response := s.toStockResponse(category, stock)
	return &response, nil
}

// ListStock returns the balance of every feed category, ordered by category name
func (s *FeedStockService) ListStock(ctx context.Context) ([]FeedStockResponse, error) {
	repos := s.scope.Reader()
	categories, err := repos.FeedCategories().FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows, err := repos.FeedStock().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[uuid.UUID]*inventory.FinishedFeedStock, len(rows))
	for i := range rows {
		byCategory[rows[i].FeedCategoryID] = &rows[i]
	}

	responses := make([]FeedStockResponse, len(categories))
	for i := range categories {
		responses[i] = s.toStockResponse(&categories[i], byCategory[categories[i].ID])
	}
	return responses, nil
}

// LowStock returns categories at or below the low-stock threshold
func (s *FeedStockService) LowStock(ctx context.Context) ([]FeedStockResponse, error) {
	all, err := s.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]FeedStockResponse, 0)
	for _, st := range all {
		if st.IsLow {
			low = append(low, st)
		}
	}
	return low, nil
}

// CountLowStock implements telemetry.LowStockCounter
func (s *FeedStockService) CountLowStock(ctx context.Context) (int64, error) {
	low, err := s.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(low)), nil
}

// ListTransactions lists finished-feed ledger entries
func (s *FeedStockService) ListTransactions(ctx context.Context, filter LedgerListFilter) (shared.Paginated[FeedStockTransactionResponse], error) {
	if filter.Type != "" && !inventory.FeedTransactionType(filter.Type).IsValid() {
		return shared.Paginated[FeedStockTransactionResponse]{}, shared.ErrInvalidInput.WithMessage("Type must be PRODUCTION_IN, SALE_OUT or ADJUSTMENT")
	}
	domainFilter := filter.ToDomain(s.loc)
	entries, total, err := s.scope.Reader().FeedLedger().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[FeedStockTransactionResponse]{}, err
	}
	items := make([]FeedStockTransactionResponse, len(entries))
	for i := range entries {
		items[i] = ToFeedStockTransactionResponse(&entries[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

func (s *FeedStockService) toStockResponse(category *catalog.FeedCategory, stock *inventory.FinishedFeedStock) FeedStockResponse {
	r := FeedStockResponse{
		FeedCategoryID:   category.ID,
		FeedCategoryName: category.Name,
	}
	if stock != nil {
		r.QuantityAvailable = stock.QuantityAvailable
		updated := stock.UpdatedAt
		r.UpdatedAt = &updated
	}
	r.IsLow = r.QuantityAvailable <= s.lowStockBags
	return r
}

var _ telemetry.LowStockCounter = (*FeedStockService)(nil)
