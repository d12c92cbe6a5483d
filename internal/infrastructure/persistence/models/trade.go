package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	AggregateModel
	OrderNumber   string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	AdminUserID   uuid.UUID          `gorm:"type:uuid;not null"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(18,2);not null"`
	DiscountType  trade.DiscountType `gorm:"type:varchar(20);not null;default:'NONE'"`
	DiscountValue decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	FinalAmount   decimal.Decimal    `gorm:"type:numeric(18,2);not null"`
	PaidAmount    decimal.Decimal    `gorm:"type:numeric(18,2);not null;default:0"`
	DueAmount     decimal.Decimal    `gorm:"type:numeric(18,2);not null"`
	OrderStatus   trade.OrderStatus  `gorm:"type:varchar(20);not null;index"`
	DeliveryDate  *time.Time         `gorm:"index"`
	CanceledAt    *time.Time         `gorm:"default:null"`
	Items         []OrderItemModel   `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one order line
type OrderItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	FeedCategoryID uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityBags   int64           `gorm:"not null"`
	PricePerBag    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain entity
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		AdminUserID:       m.AdminUserID,
		TotalAmount:       m.TotalAmount,
		Discount:          trade.Discount{Type: m.DiscountType, Value: m.DiscountValue},
		FinalAmount:       m.FinalAmount,
		PaidAmount:        m.PaidAmount,
		DueAmount:         m.DueAmount,
		Status:            m.OrderStatus,
		DeliveryDate:      m.DeliveryDate,
		CanceledAt:        m.CanceledAt,
		Items:             make([]trade.OrderItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, trade.OrderItem{
			ID:             item.ID,
			OrderID:        item.OrderID,
			FeedCategoryID: item.FeedCategoryID,
			QuantityBags:   item.QuantityBags,
			PricePerBag:    item.PricePerBag,
			Subtotal:       item.Subtotal,
		})
	}
	return o
}

// OrderModelFromDomain converts a domain entity to the persistence model
func OrderModelFromDomain(e *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:   e.OrderNumber,
		CustomerID:    e.CustomerID,
		AdminUserID:   e.AdminUserID,
		TotalAmount:   e.TotalAmount,
		DiscountType:  e.Discount.Type,
		DiscountValue: e.Discount.Value,
		FinalAmount:   e.FinalAmount,
		PaidAmount:    e.PaidAmount,
		DueAmount:     e.DueAmount,
		OrderStatus:   e.Status,
		DeliveryDate:  utcPtr(e.DeliveryDate),
		CanceledAt:    utcPtr(e.CanceledAt),
		Items:         make([]OrderItemModel, 0, len(e.Items)),
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	for _, item := range e.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:             item.ID,
			OrderID:        e.ID,
			FeedCategoryID: item.FeedCategoryID,
			QuantityBags:   item.QuantityBags,
			PricePerBag:    item.PricePerBag,
			Subtotal:       item.Subtotal,
		})
	}
	return m
}
