package catalog

import (
	"strings"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFeedCategoryNotFound = shared.NewDomainError(shared.CodeFeedCategoryNotFound, "Feed category not found")
	ErrFeedCategoryExists   = shared.NewDomainError(shared.CodeFeedCategoryExists, "Feed category with this name already exists for the animal type")
	ErrAnimalTypeNotFound   = shared.NewDomainError(shared.CodeAnimalTypeNotFound, "Animal type not found")
	ErrAnimalTypeExists     = shared.NewDomainError(shared.CodeAnimalTypeExists, "Animal type already exists")
)

// AnimalType groups feed categories (cattle, poultry, ...)
type AnimalType struct {
	shared.BaseEntity
	Name string
}

// NewAnimalType creates an animal type
func NewAnimalType(name string) (*AnimalType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Animal type name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Animal type name cannot exceed 100 characters")
	}
	return &AnimalType{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// FeedCategory is a sellable bagged feed product
type FeedCategory struct {
	shared.BaseEntity
	AnimalTypeID uuid.UUID
	Name         string
	UnitSizeKg   decimal.Decimal
	DefaultPrice decimal.Decimal
}

// NewFeedCategory creates a feed category
func NewFeedCategory(animalTypeID uuid.UUID, name string, unitSizeKg, defaultPrice decimal.Decimal) (*FeedCategory, error) {
	if animalTypeID == uuid.Nil {
		return nil, ErrAnimalTypeNotFound
	}
	c := &FeedCategory{
		BaseEntity:   shared.NewBaseEntity(),
		AnimalTypeID: animalTypeID,
	}
	if err := c.Update(name, unitSizeKg, defaultPrice); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the mutable attributes of the category
func (c *FeedCategory) Update(name string, unitSizeKg, defaultPrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Feed category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Feed category name cannot exceed 100 characters")
	}
	if !unitSizeKg.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unit size must be greater than zero")
	}
	if defaultPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Default price cannot be negative")
	}
	c.Name = name
	c.UnitSizeKg = unitSizeKg
	c.DefaultPrice = defaultPrice.Round(2)
	c.Touch()
	return nil
}
