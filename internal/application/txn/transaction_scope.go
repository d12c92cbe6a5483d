// Package txn defines the unit of work shared by every application service
// that writes to more than one table.
package txn

import (
	"context"

	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/domain/trade"
)

// TransactionScope runs business operations atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back; otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
	// Reader returns repositories bound to the plain connection pool, for reads
	// that do not need a transaction.
	Reader() Repositories
}

// Repositories provides access to all repositories. Within Execute they all
// share the same underlying database transaction.
type Repositories interface {
	RawMaterials() inventory.RawMaterialRepository
	RawMaterialLedger() inventory.RawMaterialTransactionRepository
	FeedStock() inventory.FeedStockRepository
	FeedLedger() inventory.FeedStockTransactionRepository
	ProductionBatches() inventory.ProductionBatchRepository
	AnimalTypes() catalog.AnimalTypeRepository
	FeedCategories() catalog.FeedCategoryRepository
	Customers() partner.CustomerRepository
	Orders() trade.OrderRepository
	Payments() finance.PaymentRepository
	Refunds() finance.RefundRepository
	Snapshots() report.SnapshotRepository
}

// RepositorySet is a plain Repositories implementation. Nil fields are allowed
// as long as the code under test does not reach them.
type RepositorySet struct {
	RawMaterialRepo       inventory.RawMaterialRepository
	RawMaterialLedgerRepo inventory.RawMaterialTransactionRepository
	FeedStockRepo         inventory.FeedStockRepository
	FeedLedgerRepo        inventory.FeedStockTransactionRepository
	ProductionBatchRepo   inventory.ProductionBatchRepository
	AnimalTypeRepo        catalog.AnimalTypeRepository
	FeedCategoryRepo      catalog.FeedCategoryRepository
	CustomerRepo          partner.CustomerRepository
	OrderRepo             trade.OrderRepository
	PaymentRepo           finance.PaymentRepository
	RefundRepo            finance.RefundRepository
	SnapshotRepo          report.SnapshotRepository
}

func (s *RepositorySet) RawMaterials() inventory.RawMaterialRepository {
	return s.RawMaterialRepo
}

func (s *RepositorySet) RawMaterialLedger() inventory.RawMaterialTransactionRepository {
	return s.RawMaterialLedgerRepo
}

func (s *RepositorySet) FeedStock() inventory.FeedStockRepository {
	return s.FeedStockRepo
}

func (s *RepositorySet) FeedLedger() inventory.FeedStockTransactionRepository {
	return s.FeedLedgerRepo
}

func (s *RepositorySet) ProductionBatches() inventory.ProductionBatchRepository {
	return s.ProductionBatchRepo
}

func (s *RepositorySet) AnimalTypes() catalog.AnimalTypeRepository {
	return s.AnimalTypeRepo
}

func (s *RepositorySet) FeedCategories() catalog.FeedCategoryRepository {
	return s.FeedCategoryRepo
}

func (s *RepositorySet) Customers() partner.CustomerRepository {
	return s.CustomerRepo
}

func (s *RepositorySet) Orders() trade.OrderRepository {
	return s.OrderRepo
}

func (s *RepositorySet) Payments() finance.PaymentRepository {
	return s.PaymentRepo
}

func (s *RepositorySet) Refunds() finance.RefundRepository {
	return s.RefundRepo
}

func (s *RepositorySet) Snapshots() report.SnapshotRepository {
	return s.SnapshotRepo
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with mocked repositories.
type NoOpTransactionScope struct {
	Repos *RepositorySet
	// Calls counts Execute invocations
	Calls int
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos
func NewNoOpTransactionScope(repos *RepositorySet) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	s.Calls++
	return fn(s.Repos)
}

// Reader returns the wrapped repositories
func (s *NoOpTransactionScope) Reader() Repositories {
	return s.Repos
}

var (
	_ TransactionScope = (*NoOpTransactionScope)(nil)
	_ Repositories     = (*RepositorySet)(nil)
)
