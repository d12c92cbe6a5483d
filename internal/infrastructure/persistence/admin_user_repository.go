package persistence

import (
	"context"
	"strings"

	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements identity.AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin user by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, identity.ErrAdminUserNotFound)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds an admin user by username (case-insensitive)
func (r *GormAdminUserRepository) FindByUsername(ctx context.Context, username string) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	err := r.db.WithContext(ctx).
		First(&model, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		return nil, notFound(err, identity.ErrAdminUserNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll returns every admin user ordered by username
func (r *GormAdminUserRepository) FindAll(ctx context.Context) ([]identity.AdminUser, error) {
	var rows []models.AdminUserModel
	if err := r.db.WithContext(ctx).Order("username asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.AdminUser, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByUsername checks if a username is taken
func (r *GormAdminUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminUserModel{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

// Count returns the number of admin users
func (r *GormAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminUserModel{}).Count(&count).Error
	return count, err
}

// Save inserts a new user or updates an existing one with an optimistic version check
func (r *GormAdminUserRepository) Save(ctx context.Context, user *identity.AdminUser) error {
	model := models.AdminUserModelFromDomain(user)
	version, err := saveVersioned(ctx, r.db, &models.AdminUserModel{}, model, user.ID, user.Version, map[string]any{
		"password_hash": model.PasswordHash,
		"full_name":     model.FullName,
		"role":          model.Role,
		"is_active":     model.IsActive,
		"last_login_at": model.LastLoginAt,
		"updated_at":    model.UpdatedAt,
	})
	if isDuplicateKey(err) {
		return identity.ErrUsernameExists
	}
	if err != nil {
		return err
	}
	user.Version = version
	return nil
}

var _ identity.AdminUserRepository = (*GormAdminUserRepository)(nil)
