package handler

import (
	partnerapp "github.com/feedoffice/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List returns customers matching type, district, state and search
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Create adds a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns one customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.customerService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces a customer's details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
