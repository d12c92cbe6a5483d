package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrTransactionWait is returned when no connection became free in time
var ErrTransactionWait = errors.New("timed out waiting for a database connection")

// NewRepositories binds every repository to db, which may be a pool or a transaction
func NewRepositories(db *gorm.DB) *txn.RepositorySet {
	return &txn.RepositorySet{
		RawMaterialRepo:       NewGormRawMaterialRepository(db),
		RawMaterialLedgerRepo: NewGormRawMaterialTransactionRepository(db),
		FeedStockRepo:         NewGormFeedStockRepository(db),
		FeedLedgerRepo:        NewGormFeedStockTransactionRepository(db),
		ProductionBatchRepo:   NewGormProductionBatchRepository(db),
		AnimalTypeRepo:        NewGormAnimalTypeRepository(db),
		FeedCategoryRepo:      NewGormFeedCategoryRepository(db),
		CustomerRepo:          NewGormCustomerRepository(db),
		OrderRepo:             NewGormOrderRepository(db),
		PaymentRepo:           NewGormPaymentRepository(db),
		RefundRepo:            NewGormRefundRepository(db),
		SnapshotRepo:          NewGormSnapshotRepository(db),
	}
}

// GormTransactionScope implements txn.TransactionScope using GORM transactions.
// txTimeout bounds the whole unit of work; waitTimeout bounds how long Begin
// may block on an exhausted pool.
type GormTransactionScope struct {
	db          *gorm.DB
	reader      *txn.RepositorySet
	txTimeout   time.Duration
	waitTimeout time.Duration
}

// NewGormTransactionScope creates a new GormTransactionScope. Zero timeouts disable the bound.
func NewGormTransactionScope(db *gorm.DB, txTimeout, waitTimeout time.Duration) *GormTransactionScope {
	return &GormTransactionScope{
		db:          db,
		reader:      NewRepositories(db),
		txTimeout:   txTimeout,
		waitTimeout: waitTimeout,
	}
}

// Reader returns repositories bound to the pool
func (s *GormTransactionScope) Reader() txn.Repositories {
	return s.reader
}

// Execute runs fn in a transaction, committing on nil and rolling back on error or panic
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos txn.Repositories) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx, release, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.FromContext(ctx).Warn("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// begin starts a transaction, giving up after waitTimeout. The returned
// release func must run once the transaction has finished.
func (s *GormTransactionScope) begin(ctx context.Context) (*gorm.DB, func(), error) {
	if s.waitTimeout <= 0 {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, nil, fmt.Errorf("begin transaction: %w", tx.Error)
		}
		return tx, func() {}, nil
	}

	// the transaction keeps txCtx for its lifetime, so the timer may only
	// cancel it while Begin is still waiting
	txCtx, cancel := context.WithCancel(ctx)
	timer := time.AfterFunc(s.waitTimeout, cancel)
	tx := s.db.WithContext(txCtx).Begin()
	if !timer.Stop() {
		if tx.Error == nil {
			tx.Rollback()
		}
		cancel()
		return nil, nil, ErrTransactionWait
	}
	if tx.Error != nil {
		cancel()
		return nil, nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return tx, cancel, nil
}

var _ txn.TransactionScope = (*GormTransactionScope)(nil)
