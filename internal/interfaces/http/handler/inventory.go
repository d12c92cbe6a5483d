package handler

import (
	invapp "github.com/feedoffice/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// RawMaterialHandler serves the raw-material ledger
type RawMaterialHandler struct {
	BaseHandler
	rawService *invapp.RawMaterialService
}

// NewRawMaterialHandler creates a new RawMaterialHandler
func NewRawMaterialHandler(rawService *invapp.RawMaterialService) *RawMaterialHandler {
	return &RawMaterialHandler{rawService: rawService}
}

// List returns all raw materials with balances
func (h *RawMaterialHandler) List(c *gin.Context) {
	materials, err := h.rawService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, materials)
}

// Create registers a raw material
func (h *RawMaterialHandler) Create(c *gin.Context) {
	var req invapp.CreateRawMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.rawService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get returns a raw material with its balance
func (h *RawMaterialHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.rawService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordTransaction appends an IN, OUT or ADJUSTMENT entry
func (h *RawMaterialHandler) RecordTransaction(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req invapp.RecordRawTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.rawService.RecordTransaction(c.Request.Context(), adminID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTransactions returns ledger entries
func (h *RawMaterialHandler) ListTransactions(c *gin.Context) {
	var filter invapp.LedgerListFilter
	if !h.bindQuery(c, &filter) || !h.queryID(c, "raw_material_id", &filter.EntityID) {
		return
	}
	page, err := h.rawService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// FeedStockHandler serves finished-feed stock and production batches
type FeedStockHandler struct {
	BaseHandler
	stockService *invapp.FeedStockService
}

// NewFeedStockHandler creates a new FeedStockHandler
func NewFeedStockHandler(stockService *invapp.FeedStockService) *FeedStockHandler {
	return &FeedStockHandler{stockService: stockService}
}

// ListStock returns the bag balance of every feed category
func (h *FeedStockHandler) ListStock(c *gin.Context) {
	stock, err := h.stockService.ListStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// GetStock returns the balance of one feed category
func (h *FeedStockHandler) GetStock(c *gin.Context) {
	id, ok := h.pathID(c, "feedCategoryId")
	if !ok {
		return
	}
	resp, err := h.stockService.GetStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Adjust corrects a balance by a signed number of bags
func (h *FeedStockHandler) Adjust(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	var req invapp.FeedAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.stockService.Adjust(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTransactions returns finished-feed ledger entries
func (h *FeedStockHandler) ListTransactions(c *gin.Context) {
	var filter invapp.LedgerListFilter
	if !h.bindQuery(c, &filter) || !h.queryID(c, "feed_category_id", &filter.EntityID) {
		return
	}
	page, err := h.stockService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// RecordProduction stores a production batch and moves its stock
func (h *FeedStockHandler) RecordProduction(c *gin.Context) {
	adminID, ok := h.adminID(c)
	if !ok {
		return
	}
	var req invapp.RecordProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.stockService.RecordProduction(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListBatches returns production batches
func (h *FeedStockHandler) ListBatches(c *gin.Context) {
	var filter invapp.ProductionBatchListFilter
	if !h.bindQuery(c, &filter) || !h.queryID(c, "feed_category_id", &filter.FeedCategoryID) {
		return
	}
	page, err := h.stockService.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// GetBatch returns a production batch with its materials
func (h *FeedStockHandler) GetBatch(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.stockService.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
