package catalog

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAnimalTypeRequest represents a request to create an animal type
type CreateAnimalTypeRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AnimalTypeResponse represents an animal type in API responses
type AnimalTypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToAnimalTypeResponse converts an animal type to a response
func ToAnimalTypeResponse(a *catalog.AnimalType) AnimalTypeResponse {
	return AnimalTypeResponse{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt}
}

// FeedCategoryRequest creates or updates a feed category. The animal type
// cannot be changed after creation.
type FeedCategoryRequest struct {
	AnimalTypeID uuid.UUID       `json:"animal_type_id"`
	Name         string          `json:"name" binding:"required,max=100"`
	UnitSizeKg   decimal.Decimal `json:"unit_size_kg" binding:"decimal_gt0"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// FeedCategoryListFilter restricts a category listing
type FeedCategoryListFilter struct {
	AnimalTypeID *uuid.UUID `form:"-"` // parsed by the handler from ?animal_type_id=
}

// FeedCategoryResponse represents a feed category in API responses
type FeedCategoryResponse struct {
	ID             uuid.UUID       `json:"id"`
	AnimalTypeID   uuid.UUID       `json:"animal_type_id"`
	AnimalTypeName string          `json:"animal_type_name,omitempty"`
	Name           string          `json:"name"`
	UnitSizeKg     decimal.Decimal `json:"unit_size_kg"`
	DefaultPrice   decimal.Decimal `json:"default_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToFeedCategoryResponse converts a feed category to a response
func ToFeedCategoryResponse(c *catalog.FeedCategory, animalTypeName string) FeedCategoryResponse {
	return FeedCategoryResponse{
		ID:             c.ID,
		AnimalTypeID:   c.AnimalTypeID,
		AnimalTypeName: animalTypeName,
		Name:           c.Name,
		UnitSizeKg:     c.UnitSizeKg,
		DefaultPrice:   c.DefaultPrice,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
