package persistence

import (
	"context"
	"strings"

	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAnimalTypeRepository implements catalog.AnimalTypeRepository using GORM
type GormAnimalTypeRepository struct {
	db *gorm.DB
}

// NewGormAnimalTypeRepository creates a new GormAnimalTypeRepository
func NewGormAnimalTypeRepository(db *gorm.DB) *GormAnimalTypeRepository {
	return &GormAnimalTypeRepository{db: db}
}

// FindByID finds an animal type by ID
func (r *GormAnimalTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AnimalType, error) {
	var model models.AnimalTypeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, catalog.ErrAnimalTypeNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every animal type ordered by name
func (r *GormAnimalTypeRepository) FindAll(ctx context.Context) ([]catalog.AnimalType, error) {
	var rows []models.AnimalTypeModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.AnimalType, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for an animal type with the same name, ignoring case
func (r *GormAnimalTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AnimalTypeModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates an animal type
func (r *GormAnimalTypeRepository) Save(ctx context.Context, animalType *catalog.AnimalType) error {
	err := r.db.WithContext(ctx).Save(models.AnimalTypeModelFromDomain(animalType)).Error
	if isDuplicateKey(err) {
		return catalog.ErrAnimalTypeExists
	}
	return err
}

// GormFeedCategoryRepository implements catalog.FeedCategoryRepository using GORM
type GormFeedCategoryRepository struct {
	db *gorm.DB
}

// NewGormFeedCategoryRepository creates a new GormFeedCategoryRepository
func NewGormFeedCategoryRepository(db *gorm.DB) *GormFeedCategoryRepository {
	return &GormFeedCategoryRepository{db: db}
}

// FindByID finds a feed category by ID
func (r *GormFeedCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.FeedCategory, error) {
	var model models.FeedCategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, catalog.ErrFeedCategoryNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several categories; unknown IDs are absent from the result
func (r *GormFeedCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.FeedCategory, error) {
	if len(ids) == 0 {
		return []catalog.FeedCategory{}, nil
	}
	var rows []models.FeedCategoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return feedCategoriesToDomain(rows), nil
}

// FindAll lists categories, optionally for one animal type
func (r *GormFeedCategoryRepository) FindAll(ctx context.Context, animalTypeID *uuid.UUID) ([]catalog.FeedCategory, error) {
	query := r.db.WithContext(ctx).Order("name asc")
	if animalTypeID != nil {
		query = query.Where("animal_type_id = ?", *animalTypeID)
	}
	var rows []models.FeedCategoryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return feedCategoriesToDomain(rows), nil
}

// ExistsByName checks for a same-named category under the animal type, skipping excludeID
func (r *GormFeedCategoryRepository) ExistsByName(ctx context.Context, animalTypeID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.FeedCategoryModel{}).
		Where("animal_type_id = ? AND LOWER(name) = ?", animalTypeID, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a feed category
func (r *GormFeedCategoryRepository) Save(ctx context.Context, category *catalog.FeedCategory) error {
	err := r.db.WithContext(ctx).Save(models.FeedCategoryModelFromDomain(category)).Error
	if isDuplicateKey(err) {
		return catalog.ErrFeedCategoryExists
	}
	return err
}

func feedCategoriesToDomain(rows []models.FeedCategoryModel) []catalog.FeedCategory {
	out := make([]catalog.FeedCategory, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ catalog.AnimalTypeRepository   = (*GormAnimalTypeRepository)(nil)
	_ catalog.FeedCategoryRepository = (*GormFeedCategoryRepository)(nil)
)
