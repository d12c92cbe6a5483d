package handler

import (
	financeapp "github.com/feedoffice/backend/internal/application/finance"
	tradeapp "github.com/feedoffice/backend/internal/application/trade"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves orders and the payments recorded against them
type OrderHandler struct {
	BaseHandler
	orderService   *tradeapp.OrderService
	paymentService *financeapp.PaymentService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, paymentService *financeapp.PaymentService) *OrderHandler {
	return &OrderHandler{orderService: orderService, paymentService: paymentService}
}

// Create places a PENDING order after checking stock
func (h *OrderHandler) Create(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Create(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns orders matching the query
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) || !h.queryID(c, "customer_id", &filter.CustomerID) {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus moves an order along the status table
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.UpdateStatus(c.Request.Context(), adminID, id, trade.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels an order, returning dispatched bags to stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.Cancel(c.Request.Context(), adminID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment records money received against an order
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.paymentService.RecordPayment(c.Request.Context(), adminID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
