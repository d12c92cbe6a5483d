package finance

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RefundService approves or rejects refunds raised by order cancellation
type RefundService struct {
	scope           txn.TransactionScope
	loc             *time.Location
	businessMetrics *telemetry.BusinessMetrics
}

// NewRefundService creates a new RefundService
func NewRefundService(scope txn.TransactionScope, loc *time.Location) *RefundService {
	if loc == nil {
		loc = time.UTC
	}
	return &RefundService{scope: scope, loc: loc}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *RefundService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Approve settles a pending refund: a negative REFUND entry goes into the
// cash ledger and the order's paid amount drops by the same amount.
func (s *RefundService) Approve(ctx context.Context, adminID, refundID uuid.UUID) (resp *RefundResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "finance.approve_refund", attribute.String("refund_id", refundID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var refund *finance.Refund
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		refund, err = s.decide(ctx, repos, refundID, func(r *finance.Refund) error { return r.Approve(adminID) })
		if err != nil {
			return err
		}

		if err := repos.Payments().Create(ctx, finance.NewRefundReversal(refund, adminID)); err != nil {
			return err
		}
		order, err := repos.Orders().FindByID(ctx, refund.OrderID)
		if err != nil {
			return err
		}
		if err := order.ApplyRefund(refund.Amount); err != nil {
			return err
		}
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.recordOutcome(ctx, refund)
	response := ToRefundResponse(refund)
	return &response, nil
}

// Reject closes a pending refund without touching money
func (s *RefundService) Reject(ctx context.Context, adminID, refundID uuid.UUID) (resp *RefundResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "finance.reject_refund", attribute.String("refund_id", refundID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var refund *finance.Refund
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		refund, err = s.decide(ctx, repos, refundID, func(r *finance.Refund) error { return r.Reject(adminID) })
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recordOutcome(ctx, refund)
	response := ToRefundResponse(refund)
	return &response, nil
}

// decide loads the refund, applies the decision and persists it with a
// PENDING guard. Losing the race reports the refund as already processed.
func (s *RefundService) decide(ctx context.Context, repos txn.Repositories, refundID uuid.UUID, apply func(*finance.Refund) error) (*finance.Refund, error) {
	refund, err := repos.Refunds().FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if err := apply(refund); err != nil {
		return nil, err
	}
	ok, err := repos.Refunds().MarkProcessed(ctx, refund)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, finance.ErrRefundNotFoundOrProcessed
	}
	return refund, nil
}

func (s *RefundService) recordOutcome(ctx context.Context, refund *finance.Refund) {
	if s.businessMetrics != nil {
		s.businessMetrics.RecordRefundProcessed(ctx, string(refund.Status))
	}
	logger.FromContext(ctx).Info("refund processed",
		zap.String("refund_id", refund.ID.String()),
		zap.String("order_id", refund.OrderID.String()),
		zap.String("status", string(refund.Status)),
		zap.String("amount", refund.Amount.StringFixed(2)))
}

// List returns refunds matching the filter
func (s *RefundService) List(ctx context.Context, filter RefundListFilter) (shared.Paginated[RefundResponse], error) {
	domainFilter := filter.ToDomain(s.loc)
	refunds, total, err := s.scope.Reader().Refunds().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[RefundResponse]{}, err
	}
	items := make([]RefundResponse, len(refunds))
	for i := range refunds {
		items[i] = ToRefundResponse(&refunds[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}
