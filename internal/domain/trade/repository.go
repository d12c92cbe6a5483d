package trade

import (
	"context"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter filters order listings
type OrderFilter struct {
	shared.Page
	shared.DateRange
	CustomerID *uuid.UUID
	Status     OrderStatus
	// Search matches the order number or the customer name
	Search string
}

// OrderSummary aggregates order figures for the dashboard
type OrderSummary struct {
	CountByStatus    map[OrderStatus]int64
	TotalSales       decimal.Decimal
	TotalCollected   decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// OrderRepository persists orders with their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	// Create inserts the order and all of its items
	Create(ctx context.Context, order *Order) error
	// Update persists header fields with an optimistic version check
	Update(ctx context.Context, order *Order) error
	Summary(ctx context.Context) (*OrderSummary, error)
}
