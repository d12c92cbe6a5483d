package finance

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PaymentService records customer payments against orders
type PaymentService struct {
	scope           txn.TransactionScope
	loc             *time.Location
	businessMetrics *telemetry.BusinessMetrics
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope txn.TransactionScope, loc *time.Location) *PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentService{scope: scope, loc: loc}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *PaymentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// RecordPayment adds a payment and moves it from due to paid on the order.
// The order update carries a version check, so two payments racing for the
// same balance cannot both succeed.
func (s *PaymentService) RecordPayment(ctx context.Context, adminID, orderID uuid.UUID, req RecordPaymentRequest) (resp *RecordPaymentResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "finance.record_payment",
		attribute.String("order_id", orderID.String()),
		attribute.String("payment_method", req.Method))
	defer func() { telemetry.EndSpan(span, err) }()

	amount := req.Amount.Round(2)
	var paidAt time.Time
	if req.PaymentDate != nil {
		paidAt = *req.PaymentDate
	}

	var (
		order   *trade.Order
		payment *finance.Payment
	)
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.ApplyPayment(amount); err != nil {
			return err
		}
		payment, err = finance.NewPayment(order.ID, adminID, amount, finance.PaymentMethod(req.Method), paidAt, req.Note)
		if err != nil {
			return err
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, string(payment.Method))
	}
	logger.FromContext(ctx).Info("payment recorded",
		zap.String("order_number", order.OrderNumber),
		zap.String("amount", payment.AmountPaid.StringFixed(2)),
		zap.String("method", string(payment.Method)),
		zap.String("due_amount", order.DueAmount.StringFixed(2)))

	return &RecordPaymentResponse{
		Payment:    ToPaymentResponse(payment),
		PaidAmount: order.PaidAmount,
		DueAmount:  order.DueAmount,
	}, nil
}

// List returns cash ledger entries matching the filter
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) (shared.Paginated[PaymentResponse], error) {
	domainFilter := filter.ToDomain(s.loc)
	payments, total, err := s.scope.Reader().Payments().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	items := make([]PaymentResponse, len(payments))
	for i := range payments {
		items[i] = ToPaymentResponse(&payments[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

// NetCollected returns the signed ledger total for an order, payments minus
// approved refunds. It must agree with the order's paid amount.
func (s *PaymentService) NetCollected(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	repos := s.scope.Reader()
	if _, err := repos.Orders().FindByID(ctx, orderID); err != nil {
		return decimal.Zero, err
	}
	return repos.Payments().SumByOrder(ctx, orderID)
}
