package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// LowStockCounter reports how many feed categories are at or below the low-stock threshold
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// BusinessMetrics records feed-office business events: orders, stock
// movements, payments and snapshot runs.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersCreated    *Counter
	orderValuePaise  *Counter
	orderTransitions *Counter
	bagsProduced     *Counter
	bagsSold         *Counter
	payments         *Counter
	refunds          *Counter
	snapshotRuns     *Counter
	snapshotDuration *Histogram
	lowStock         *Gauge

	stopOnce sync.Once
	stop     chan struct{}
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates every business instrument on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger, stop: make(chan struct{})}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.ordersCreated, "feed_orders_created_total", "Orders created", "{orders}"},
		{&bm.orderValuePaise, "feed_order_value_total", "Final order value in minor currency units", "{paise}"},
		{&bm.orderTransitions, "feed_order_transitions_total", "Order status transitions", "{transitions}"},
		{&bm.bagsProduced, "feed_bags_produced_total", "Bags of finished feed produced", "{bags}"},
		{&bm.bagsSold, "feed_bags_sold_total", "Bags of finished feed dispatched", "{bags}"},
		{&bm.payments, "feed_payments_total", "Payments recorded", "{payments}"},
		{&bm.refunds, "feed_refunds_processed_total", "Refunds approved or rejected", "{refunds}"},
		{&bm.snapshotRuns, "feed_snapshot_runs_total", "Daily snapshot runs", "{runs}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	var err error
	bm.snapshotDuration, err = NewHistogram(cfg.Meter, "feed_snapshot_duration_seconds",
		"Duration of a daily snapshot run", "s", 0.1, 0.5, 1, 5, 15, 60)
	if err != nil {
		return nil, err
	}
	bm.lowStock, err = NewGauge(cfg.Meter, "feed_low_stock_categories",
		"Feed categories at or below the low-stock threshold", "{categories}")
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderCreated counts a new order and its final amount
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, finalAmount decimal.Decimal) {
	bm.ordersCreated.Inc(ctx)
	bm.orderValuePaise.Add(ctx, finalAmount.Shift(2).IntPart())
}

// RecordOrderTransition counts an order entering status
func (bm *BusinessMetrics) RecordOrderTransition(ctx context.Context, status string) {
	bm.orderTransitions.Inc(ctx, AttrOrderStatus.String(status))
}

// RecordProduction counts bags produced by a batch
func (bm *BusinessMetrics) RecordProduction(ctx context.Context, bags int64) {
	bm.bagsProduced.Add(ctx, bags)
}

// RecordSale counts bags leaving stock on dispatch
func (bm *BusinessMetrics) RecordSale(ctx context.Context, bags int64) {
	bm.bagsSold.Add(ctx, bags)
}

// RecordPayment counts a customer payment by method
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, method string) {
	bm.payments.Inc(ctx, AttrPaymentMethod.String(method))
}

// RecordRefundProcessed counts an approve or reject decision
func (bm *BusinessMetrics) RecordRefundProcessed(ctx context.Context, outcome string) {
	bm.refunds.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordSnapshotRun counts a snapshot run and its duration
func (bm *BusinessMetrics) RecordSnapshotRun(ctx context.Context, d time.Duration, failed bool) {
	outcome := "success"
	if failed {
		outcome = "failed"
	}
	bm.snapshotRuns.Inc(ctx, AttrOutcome.String(outcome))
	bm.snapshotDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// StartLowStockCollection samples src every interval until Stop or ctx is done.
func (bm *BusinessMetrics) StartLowStockCollection(ctx context.Context, src LowStockCounter, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			bm.collectLowStock(ctx, src)
			select {
			case <-ctx.Done():
				return
			case <-bm.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (bm *BusinessMetrics) collectLowStock(ctx context.Context, src LowStockCounter) {
	n, err := src.CountLowStock(ctx)
	if err != nil {
		bm.logger.Warn("collect low stock count", zap.Error(err))
		return
	}
	bm.lowStock.Record(ctx, n)
}

// Stop ends periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() { close(bm.stop) })
}
