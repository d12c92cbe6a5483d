package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	invapp "github.com/feedoffice/backend/internal/application/inventory"
	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService drives the order lifecycle. Stock is validated, not reserved,
// when an order is created and is taken out on dispatch.
type OrderService struct {
	scope           txn.TransactionScope
	loc             *time.Location
	businessMetrics *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(scope txn.TransactionScope, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderService{scope: scope, loc: loc}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create validates the customer, the categories and current stock, then
// stores a PENDING order. Nothing is written if any item is short.
func (s *OrderService) Create(ctx context.Context, adminID uuid.UUID, req CreateOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "trade.create_order",
		attribute.String("customer_id", req.CustomerID.String()),
		attribute.Int("items", len(req.Items)))
	defer func() { telemetry.EndSpan(span, err) }()

	discount := trade.NoDiscount()
	if req.Discount != nil {
		discount = trade.Discount{Type: trade.DiscountType(req.Discount.Type), Value: req.Discount.Value}
	}
	if err := discount.Validate(); err != nil {
		return nil, err
	}

	var (
		order    *trade.Order
		customer *partner.Customer
	)
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		customer, err = repos.Customers().FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}

		inputs, err := resolveItems(ctx, repos, req.Items)
		if err != nil {
			return err
		}
		order, err = trade.NewOrder(customer.ID, adminID, inputs, discount, req.DeliveryDate)
		if err != nil {
			return err
		}

		rows, err := repos.FeedStock().FindByFeedCategoryIDs(ctx, order.FeedCategoryIDs())
		if err != nil {
			return err
		}
		available := make(map[uuid.UUID]int64, len(rows))
		for _, row := range rows {
			available[row.FeedCategoryID] = row.QuantityAvailable
		}
		if err := order.ValidateStock(available); err != nil {
			return err
		}

		return repos.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderCreated(ctx, order.FinalAmount)
	}
	logger.FromContext(ctx).Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", order.CustomerID.String()),
		zap.String("final_amount", order.FinalAmount.StringFixed(2)))

	response := ToOrderResponse(order, customer.Name)
	return &response, nil
}

// resolveItems loads the requested categories in one query and fills in
// default prices.
func resolveItems(ctx context.Context, repos txn.Repositories, items []CreateOrderItemInput) ([]trade.ItemInput, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.FeedCategoryID)
	}
	categories, err := repos.FeedCategories().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.FeedCategory, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	inputs := make([]trade.ItemInput, 0, len(items))
	for _, item := range items {
		category, ok := byID[item.FeedCategoryID]
		if !ok {
			return nil, catalog.ErrFeedCategoryNotFound.WithMessage(
				fmt.Sprintf("Feed category %s not found", item.FeedCategoryID))
		}
		price := category.DefaultPrice
		if item.PricePerBag != nil {
			price = *item.PricePerBag
		}
		inputs = append(inputs, trade.ItemInput{
			FeedCategoryID: item.FeedCategoryID,
			QuantityBags:   item.QuantityBags,
			PricePerBag:    price,
		})
	}
	return inputs, nil
}

// UpdateStatus applies one edge of the status table together with its side
// effects. Entering DISPATCHED re-checks stock item by item with a conditional
// decrement; any shortfall rolls the whole transition back.
func (s *OrderService) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, target trade.OrderStatus) (*OrderResponse, error) {
	return s.transition(ctx, adminID, orderID, "trade.update_order_status", func(order *trade.Order) (trade.TransitionEffect, error) {
		return order.TransitionTo(target)
	})
}

// Cancel cancels an order from any non-terminal state. Unlike UpdateStatus it
// also accepts a DISPATCHED order, whose bags return to stock.
func (s *OrderService) Cancel(ctx context.Context, adminID, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, adminID, orderID, "trade.cancel_order", func(order *trade.Order) (trade.TransitionEffect, error) {
		return order.Cancel()
	})
}

func (s *OrderService) transition(
	ctx context.Context,
	adminID, orderID uuid.UUID,
	spanName string,
	apply func(*trade.Order) (trade.TransitionEffect, error),
) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, spanName, attribute.String("order_id", orderID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		order  *trade.Order
		effect trade.TransitionEffect
	)
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		effect, err = apply(order)
		if err != nil {
			return err
		}

		if effect.DeductStock {
			for _, item := range order.Items {
				if err := invapp.DeductStock(ctx, repos, adminID, item.FeedCategoryID, item.QuantityBags, order.ID); err != nil {
					return err
				}
			}
		}
		if effect.To == trade.OrderStatusCanceled {
			if err := applyCancellation(ctx, repos, adminID, order, effect); err != nil {
				return err
			}
		}
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderTransition(ctx, effect.To.String())
		if effect.DeductStock {
			s.businessMetrics.RecordSale(ctx, totalBags(order))
		}
	}
	log := logger.FromContext(ctx).With(
		zap.String("order_number", order.OrderNumber),
		zap.String("from", effect.From.String()),
		zap.String("to", effect.To.String()))
	if effect.RefundAmount.IsPositive() {
		log = log.With(zap.String("refund_amount", effect.RefundAmount.StringFixed(2)))
	}
	log.Info("order status changed")

	response := ToOrderResponse(order, "")
	return &response, nil
}

// applyCancellation creates the pending refund and, for a dispatched order,
// puts every item's bags back.
func applyCancellation(ctx context.Context, repos txn.Repositories, adminID uuid.UUID, order *trade.Order, effect trade.TransitionEffect) error {
	if effect.RefundAmount.IsPositive() {
		refund, err := finance.NewRefund(order.ID, order.CustomerID, effect.RefundAmount,
			fmt.Sprintf("Order %s canceled", order.OrderNumber))
		if err != nil {
			return err
		}
		if err := repos.Refunds().Create(ctx, refund); err != nil {
			return err
		}
	}
	if effect.RestoreStock {
		for _, item := range order.Items {
			if err := invapp.RestockCanceled(ctx, repos, adminID, item.FeedCategoryID, order.ID, order.OrderNumber, item.QuantityBags); err != nil {
				return err
			}
		}
	}
	return nil
}

func totalBags(order *trade.Order) int64 {
	var bags int64
	for _, item := range order.Items {
		bags += item.QuantityBags
	}
	return bags
}

// Get returns an order with its items and customer name
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	repos := s.scope.Reader()
	order, err := repos.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	name := ""
	if customer, err := repos.Customers().FindByID(ctx, order.CustomerID); err == nil {
		name = customer.Name
	} else if !errors.Is(err, partner.ErrCustomerNotFound) {
		return nil, err
	}
	response := ToOrderResponse(order, name)
	return &response, nil
}

// List returns orders matching the filter, newest first by default
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	repos := s.scope.Reader()
	domainFilter := filter.ToDomain(s.loc)
	orders, total, err := repos.Orders().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	customerIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		customerIDs = append(customerIDs, o.CustomerID)
	}
	names := make(map[uuid.UUID]string, len(customerIDs))
	if len(customerIDs) > 0 {
		customers, err := repos.Customers().FindByIDs(ctx, customerIDs)
		if err != nil {
			return shared.Paginated[OrderResponse]{}, err
		}
		for _, c := range customers {
			names[c.ID] = c.Name
		}
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i], names[orders[i].CustomerID])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}
