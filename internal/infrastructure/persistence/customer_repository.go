package persistence

import (
	"context"
	"strings"

	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, partner.ErrCustomerNotFound)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several customers; unknown IDs are absent from the result
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// FindAll lists customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.District != "" {
		query = query.Where("LOWER(district) = ?", strings.ToLower(strings.TrimSpace(filter.District)))
	}
	if filter.State != "" {
		query = query.Where("LOWER(state) = ?", strings.ToLower(strings.TrimSpace(filter.State)))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerModel
	page := filter.Page.Normalize(customerSortFields, "created_at")
	if err := pageQuery(query, page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return customersToDomain(rows), total, nil
}

// Exists checks if a customer exists
func (r *GormCustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Save inserts a new customer or updates an existing one with an optimistic version check
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	version, err := saveVersioned(ctx, r.db, &models.CustomerModel{}, model, customer.ID, customer.Version, map[string]any{
		"name":       model.Name,
		"phone":      model.Phone,
		"address":    model.Address,
		"type":       model.Type,
		"district":   model.District,
		"state":      model.State,
		"latitude":   model.Latitude,
		"longitude":  model.Longitude,
		"updated_at": model.UpdatedAt,
	})
	if err != nil {
		return err
	}
	customer.Version = version
	return nil
}

func customersToDomain(rows []models.CustomerModel) []partner.Customer {
	out := make([]partner.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
