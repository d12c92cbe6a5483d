package partner

import (
	"context"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	scope txn.TransactionScope
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(scope txn.TransactionScope) *CustomerService {
	return &CustomerService{scope: scope}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.scope.Reader().Customers().Save(ctx, customer); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("type", string(customer.Type)))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update replaces a customer's details. The save is version-checked, so a
// concurrent edit fails with a concurrent-modification error.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		customer, err = repos.Customers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := customer.Update(req.details()); err != nil {
			return err
		}
		return repos.Customers().Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("customer updated", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns a customer
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.scope.Reader().Customers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	domainFilter := filter.ToDomain()
	customers, total, err := s.scope.Reader().Customers().FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := domainFilter.Page.Normalize(nil, "")
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}
