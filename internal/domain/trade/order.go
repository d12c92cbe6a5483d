package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// IsValid returns true if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDispatched, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states that admit no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCanceled
	case OrderStatusConfirmed:
		return target == OrderStatusDispatched || target == OrderStatusCanceled
	case OrderStatusDispatched:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCanceled:
		return false
	}
	return false
}

var (
	ErrOrderNotFound           = shared.NewDomainError(shared.CodeOrderNotFound, "Order not found")
	ErrFinalState              = shared.NewDomainError(shared.CodeFinalState, "Order is already in a final state")
	ErrInvalidStatusTransition = shared.NewDomainError(shared.CodeInvalidStatusTransition, "Status transition not allowed")
	ErrOverpayment             = shared.NewDomainError(shared.CodeOverpayment, "Payment exceeds the amount due")
	ErrInvalidDiscount         = shared.NewDomainError(shared.CodeInvalidDiscount, "Invalid discount")
)

// OrderItem is a line of an order
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	FeedCategoryID uuid.UUID
	QuantityBags   int64
	PricePerBag    decimal.Decimal
	Subtotal       decimal.Decimal
}

// ItemInput is a requested order line
type ItemInput struct {
	FeedCategoryID uuid.UUID
	QuantityBags   int64
	PricePerBag    decimal.Decimal
}

// Order is the aggregate root of the order lifecycle.
// PaidAmount + DueAmount == FinalAmount until a cancellation zeroes DueAmount
// or an approved refund reduces PaidAmount.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	CustomerID   uuid.UUID
	AdminUserID  uuid.UUID
	Items        []OrderItem
	TotalAmount  decimal.Decimal
	Discount     Discount
	FinalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	DueAmount    decimal.Decimal
	Status       OrderStatus
	DeliveryDate *time.Time
	CanceledAt   *time.Time
}

// NewOrder builds a PENDING order and computes its totals
func NewOrder(customerID, adminID uuid.UUID, items []ItemInput, discount Discount, deliveryDate *time.Time) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeCustomerNotFound, "Customer not found")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Order must contain at least one item")
	}
	if discount.Type == "" {
		discount = NoDiscount()
	}
	if err := discount.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		AdminUserID:       adminID,
		Discount:          discount,
		Status:            OrderStatusPending,
		DeliveryDate:      deliveryDate,
		PaidAmount:        decimal.Zero,
		Items:             make([]OrderItem, 0, len(items)),
	}
	o.OrderNumber = GenerateOrderNumber(o.CreatedAt, o.ID)

	for _, in := range items {
		if in.FeedCategoryID == uuid.Nil {
			return nil, shared.NewDomainError(shared.CodeFeedCategoryNotFound, "Feed category not found")
		}
		if in.QuantityBags <= 0 {
			return nil, shared.ErrInvalidQuantity.WithMessage("Quantity must be greater than zero")
		}
		if in.PricePerBag.IsNegative() {
			return nil, shared.ErrInvalidAmount.WithMessage("Price per bag cannot be negative")
		}
		o.Items = append(o.Items, OrderItem{
			ID:             uuid.New(),
			OrderID:        o.ID,
			FeedCategoryID: in.FeedCategoryID,
			QuantityBags:   in.QuantityBags,
			PricePerBag:    in.PricePerBag,
			Subtotal:       in.PricePerBag.Mul(decimal.NewFromInt(in.QuantityBags)),
		})
	}

	o.recalculateTotals()
	o.DueAmount = o.FinalAmount
	return o, nil
}

// GenerateOrderNumber derives a human-readable order number
func GenerateOrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:8]))
}

func (o *Order) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total
	o.FinalAmount = total.Sub(o.Discount.AmountOff(total))
	if o.FinalAmount.IsNegative() {
		o.FinalAmount = decimal.Zero
	}
}

// RequestedBags sums the requested bags per feed category
func (o *Order) RequestedBags() map[uuid.UUID]int64 {
	requested := make(map[uuid.UUID]int64, len(o.Items))
	for _, item := range o.Items {
		requested[item.FeedCategoryID] += item.QuantityBags
	}
	return requested
}

// FeedCategoryIDs returns the distinct feed categories on the order
func (o *Order) FeedCategoryIDs() []uuid.UUID {
	requested := o.RequestedBags()
	ids := make([]uuid.UUID, 0, len(requested))
	for _, item := range o.Items {
		if _, ok := requested[item.FeedCategoryID]; ok {
			ids = append(ids, item.FeedCategoryID)
			delete(requested, item.FeedCategoryID)
		}
	}
	return ids
}

// ValidateStock checks every requested category against available bags.
// A category missing from available counts as zero stock.
func (o *Order) ValidateStock(available map[uuid.UUID]int64) error {
	requested := o.RequestedBags()
	for _, id := range o.FeedCategoryIDs() {
		want := requested[id]
		have := available[id]
		if want > have {
			return shared.ErrInsufficientStock.WithMessage(
				fmt.Sprintf("Insufficient stock for feed category %s: requested %d, available %d", id, want, have))
		}
	}
	return nil
}

// TransitionEffect describes the side effects the caller must apply in the
// same transaction as the status change.
type TransitionEffect struct {
	From OrderStatus
	To   OrderStatus
	// DeductStock is set when entering DISPATCHED
	DeductStock bool
	// RestoreStock is set when canceling an order that was DISPATCHED
	RestoreStock bool
	// RefundAmount is positive when a pending refund must be created
	RefundAmount decimal.Decimal
}

// TransitionTo moves the order to target, returning the required side effects
func (o *Order) TransitionTo(target OrderStatus) (TransitionEffect, error) {
	if !target.IsValid() {
		return TransitionEffect{}, ErrInvalidStatusTransition.WithMessage(fmt.Sprintf("Unknown status %q", target))
	}
	if o.Status.IsTerminal() {
		return TransitionEffect{}, ErrFinalState.WithMessage(fmt.Sprintf("Order is %s and cannot change status", o.Status))
	}
	if !o.Status.CanTransitionTo(target) {
		return TransitionEffect{}, ErrInvalidStatusTransition.WithMessage(
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	if target == OrderStatusCanceled {
		return o.cancel(), nil
	}

	effect := TransitionEffect{From: o.Status, To: target, RefundAmount: decimal.Zero}
	effect.DeductStock = target == OrderStatusDispatched
	o.Status = target
	o.UpdatedAt = time.Now()
	return effect, nil
}

// Cancel cancels the order from any non-terminal state, including DISPATCHED
// where the goods come back into stock. The status table's stricter
// DISPATCHED edge applies only to TransitionTo.
func (o *Order) Cancel() (TransitionEffect, error) {
	if o.Status.IsTerminal() {
		return TransitionEffect{}, ErrFinalState.WithMessage(fmt.Sprintf("Order is %s and cannot be canceled", o.Status))
	}
	return o.cancel(), nil
}

func (o *Order) cancel() TransitionEffect {
	now := time.Now()
	effect := TransitionEffect{
		From:         o.Status,
		To:           OrderStatusCanceled,
		RestoreStock: o.Status == OrderStatusDispatched,
		RefundAmount: decimal.Zero,
	}
	if o.PaidAmount.IsPositive() {
		effect.RefundAmount = o.PaidAmount
	}
	o.DueAmount = decimal.Zero
	o.CanceledAt = &now
	o.Status = OrderStatusCanceled
	o.UpdatedAt = now
	return effect
}

// ApplyPayment records amount against the due balance
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}
	if amount.GreaterThan(o.DueAmount) {
		return ErrOverpayment.WithMessage(
			fmt.Sprintf("Payment of %s exceeds the amount due of %s", amount.StringFixed(2), o.DueAmount.StringFixed(2)))
	}
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.DueAmount = o.DueAmount.Sub(amount)
	o.UpdatedAt = time.Now()
	return nil
}

// ApplyRefund reduces the paid amount by an approved refund. DueAmount is untouched.
func (o *Order) ApplyRefund(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}
	o.PaidAmount = o.PaidAmount.Sub(amount)
	o.UpdatedAt = time.Now()
	return nil
}
