package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository persists admin users
type AdminUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)
	FindAll(ctx context.Context) ([]AdminUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *AdminUser) error
}
