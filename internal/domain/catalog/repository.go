package catalog

import (
	"context"

	"github.com/google/uuid"
)

// AnimalTypeRepository persists animal types
type AnimalTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AnimalType, error)
	FindAll(ctx context.Context) ([]AnimalType, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, animalType *AnimalType) error
}

// FeedCategoryRepository persists feed categories
type FeedCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeedCategory, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]FeedCategory, error)
	// FindAll lists categories, optionally restricted to one animal type
	FindAll(ctx context.Context, animalTypeID *uuid.UUID) ([]FeedCategory, error)
	ExistsByName(ctx context.Context, animalTypeID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, category *FeedCategory) error
}
