package partner

import (
	"context"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter filters customer listings
type CustomerFilter struct {
	shared.Page
	Type     CustomerType
	District string
	State    string
	// Search matches name or phone
	Search string
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, customer *Customer) error
}
