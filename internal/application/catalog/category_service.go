package catalog

import (
	"context"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages animal types and the feed categories sold under them
type CategoryService struct {
	scope txn.TransactionScope
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(scope txn.TransactionScope) *CategoryService {
	return &CategoryService{scope: scope}
}

// CreateAnimalType adds an animal type; names are unique ignoring case
func (s *CategoryService) CreateAnimalType(ctx context.Context, req CreateAnimalTypeRequest) (*AnimalTypeResponse, error) {
	animalType, err := catalog.NewAnimalType(req.Name)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos txn.Repositories) error {
		exists, err := repos.AnimalTypes().ExistsByName(ctx, animalType.Name)
		if err != nil {
			return err
		}
		if exists {
			return catalog.ErrAnimalTypeExists
		}
		return repos.AnimalTypes().Save(ctx, animalType)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("animal type created", zap.String("name", animalType.Name))
	resp := ToAnimalTypeResponse(animalType)
	return &resp, nil
}

// ListAnimalTypes returns every animal type ordered by name
func (s *CategoryService) ListAnimalTypes(ctx context.Context) ([]AnimalTypeResponse, error) {
	types, err := s.scope.Reader().AnimalTypes().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AnimalTypeResponse, len(types))
	for i := range types {
		out[i] = ToAnimalTypeResponse(&types[i])
	}
	return out, nil
}

// CreateFeedCategory adds a feed category under an existing animal type
func (s *CategoryService) CreateFeedCategory(ctx context.Context, req FeedCategoryRequest) (*FeedCategoryResponse, error) {
	var (
		category   *catalog.FeedCategory
		animalType *catalog.AnimalType
	)
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		animalType, err = repos.AnimalTypes().FindByID(ctx, req.AnimalTypeID)
		if err != nil {
			return err
		}
		category, err = catalog.NewFeedCategory(animalType.ID, req.Name, req.UnitSizeKg, req.DefaultPrice)
		if err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, repos, category, nil); err != nil {
			return err
		}
		return repos.FeedCategories().Save(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("feed category created",
		zap.String("name", category.Name),
		zap.String("animal_type", animalType.Name))
	resp := ToFeedCategoryResponse(category, animalType.Name)
	return &resp, nil
}

// UpdateFeedCategory changes the name, unit size and default price.
// Existing orders keep the prices they were created with.
func (s *CategoryService) UpdateFeedCategory(ctx context.Context, id uuid.UUID, req FeedCategoryRequest) (*FeedCategoryResponse, error) {
	var category *catalog.FeedCategory
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		category, err = repos.FeedCategories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := category.Update(req.Name, req.UnitSizeKg, req.DefaultPrice); err != nil {
			return err
		}
		if err := ensureUniqueName(ctx, repos, category, &category.ID); err != nil {
			return err
		}
		return repos.FeedCategories().Save(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("feed category updated",
		zap.String("id", category.ID.String()),
		zap.String("default_price", category.DefaultPrice.StringFixed(2)))
	return s.withAnimalTypeName(ctx, category)
}

func ensureUniqueName(ctx context.Context, repos txn.Repositories, category *catalog.FeedCategory, excludeID *uuid.UUID) error {
	exists, err := repos.FeedCategories().ExistsByName(ctx, category.AnimalTypeID, category.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return catalog.ErrFeedCategoryExists
	}
	return nil
}

// GetFeedCategory returns one feed category
func (s *CategoryService) GetFeedCategory(ctx context.Context, id uuid.UUID) (*FeedCategoryResponse, error) {
	category, err := s.scope.Reader().FeedCategories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAnimalTypeName(ctx, category)
}

// ListFeedCategories returns feed categories ordered by name
func (s *CategoryService) ListFeedCategories(ctx context.Context, filter FeedCategoryListFilter) ([]FeedCategoryResponse, error) {
	repos := s.scope.Reader()
	categories, err := repos.FeedCategories().FindAll(ctx, filter.AnimalTypeID)
	if err != nil {
		return nil, err
	}
	types, err := repos.AnimalTypes().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	out := make([]FeedCategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToFeedCategoryResponse(&categories[i], names[categories[i].AnimalTypeID])
	}
	return out, nil
}

func (s *CategoryService) withAnimalTypeName(ctx context.Context, category *catalog.FeedCategory) (*FeedCategoryResponse, error) {
	animalType, err := s.scope.Reader().AnimalTypes().FindByID(ctx, category.AnimalTypeID)
	if err != nil {
		return nil, err
	}
	resp := ToFeedCategoryResponse(category, animalType.Name)
	return &resp, nil
}
