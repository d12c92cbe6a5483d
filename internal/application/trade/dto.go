package trade

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderItemInput represents a requested order line. A nil PricePerBag
// takes the feed category's default price.
type CreateOrderItemInput struct {
	FeedCategoryID uuid.UUID        `json:"feed_category_id" binding:"required"`
	QuantityBags   int64            `json:"quantity_bags" binding:"required,gt=0"`
	PricePerBag    *decimal.Decimal `json:"price_per_bag"`
}

// DiscountInput represents an order-level discount
type DiscountInput struct {
	Type  string          `json:"type" binding:"required,oneof=NONE FLAT PERCENTAGE"`
	Value decimal.Decimal `json:"value"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID   uuid.UUID              `json:"customer_id" binding:"required"`
	Items        []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	Discount     *DiscountInput         `json:"discount"`
	DeliveryDate *time.Time             `json:"delivery_date"`
}

// UpdateOrderStatusRequest represents a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED DISPATCHED DELIVERED CANCELED"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	FeedCategoryID uuid.UUID       `json:"feed_category_id"`
	QuantityBags   int64           `json:"quantity_bags"`
	PricePerBag    decimal.Decimal `json:"price_per_bag"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	AdminUserID   uuid.UUID           `json:"admin_user_id"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	DiscountType  string              `json:"discount_type"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	FinalAmount   decimal.Decimal     `json:"final_amount"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	DueAmount     decimal.Decimal     `json:"due_amount"`
	Status        string              `json:"order_status"`
	DeliveryDate  *time.Time          `json:"delivery_date,omitempty"`
	CanceledAt    *time.Time          `json:"canceled_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// OrderListFilter represents query options for order listings
type OrderListFilter struct {
	CustomerID *uuid.UUID `form:"-"` // parsed by the handler from ?customer_id=
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED DISPATCHED DELIVERED CANCELED"`
	Search     string     `form:"search" binding:"max=100"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter
func (f OrderListFilter) ToDomain(loc *time.Location) trade.OrderFilter {
	return trade.OrderFilter{
		Page:       shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		DateRange:  shared.NewDateRange(f.FromDate, f.ToDate, loc),
		CustomerID: f.CustomerID,
		Status:     trade.OrderStatus(f.Status),
		Search:     f.Search,
	}
}

// ToOrderResponse converts an order to a response
func ToOrderResponse(o *trade.Order, customerName string) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:             item.ID,
			FeedCategoryID: item.FeedCategoryID,
			QuantityBags:   item.QuantityBags,
			PricePerBag:    item.PricePerBag,
			Subtotal:       item.Subtotal,
		}
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		CustomerName:  customerName,
		AdminUserID:   o.AdminUserID,
		Items:         items,
		TotalAmount:   o.TotalAmount,
		DiscountType:  string(o.Discount.Type),
		DiscountValue: o.Discount.Value,
		FinalAmount:   o.FinalAmount,
		PaidAmount:    o.PaidAmount,
		DueAmount:     o.DueAmount,
		Status:        o.Status.String(),
		DeliveryDate:  o.DeliveryDate,
		CanceledAt:    o.CanceledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}
}
