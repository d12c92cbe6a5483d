package handler

import (
	catalogapp "github.com/feedoffice/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves animal types and feed categories
type CatalogHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(categoryService *catalogapp.CategoryService) *CatalogHandler {
	return &CatalogHandler{categoryService: categoryService}
}

// ListAnimalTypes returns all animal types
func (h *CatalogHandler) ListAnimalTypes(c *gin.Context) {
	types, err := h.categoryService.ListAnimalTypes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// CreateAnimalType adds an animal type
func (h *CatalogHandler) CreateAnimalType(c *gin.Context) {
	var req catalogapp.CreateAnimalTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.CreateAnimalType(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListFeedCategories returns feed categories, optionally for one animal type
func (h *CatalogHandler) ListFeedCategories(c *gin.Context) {
	var filter catalogapp.FeedCategoryListFilter
	if !h.queryID(c, "animal_type_id", &filter.AnimalTypeID) {
		return
	}
	categories, err := h.categoryService.ListFeedCategories(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateFeedCategory adds a feed category
func (h *CatalogHandler) CreateFeedCategory(c *gin.Context) {
	var req catalogapp.FeedCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.CreateFeedCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetFeedCategory returns one feed category
func (h *CatalogHandler) GetFeedCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.categoryService.GetFeedCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateFeedCategory replaces a feed category's fields
func (h *CatalogHandler) UpdateFeedCategory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.FeedCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categoryService.UpdateFeedCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
