package handler

import (
	"context"

	financeapp "github.com/feedoffice/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type refundAction func(ctx context.Context, adminID, refundID uuid.UUID) (*financeapp.RefundResponse, error)

// FinanceHandler serves payment listings and refund processing
type FinanceHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
	refundService  *financeapp.RefundService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(paymentService *financeapp.PaymentService, refundService *financeapp.RefundService) *FinanceHandler {
	return &FinanceHandler{paymentService: paymentService, refundService: refundService}
}

// ListPayments returns payments, including refund rows
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	var filter financeapp.PaymentListFilter
	if !h.bindQuery(c, &filter) || !h.queryID(c, "order_id", &filter.OrderID) {
		return
	}
	page, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListRefunds returns refunds
func (h *FinanceHandler) ListRefunds(c *gin.Context) {
	var filter financeapp.RefundListFilter
	if !h.bindQuery(c, &filter) ||
		!h.queryID(c, "order_id", &filter.OrderID) ||
		!h.queryID(c, "customer_id", &filter.CustomerID) {
		return
	}
	page, err := h.refundService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ApproveRefund pays out a pending refund
func (h *FinanceHandler) ApproveRefund(c *gin.Context) {
	h.processRefund(c, h.refundService.Approve)
}

// RejectRefund closes a pending refund without paying it
func (h *FinanceHandler) RejectRefund(c *gin.Context) {
	h.processRefund(c, h.refundService.Reject)
}

func (h *FinanceHandler) processRefund(c *gin.Context, process refundAction) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := process(c.Request.Context(), adminID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
