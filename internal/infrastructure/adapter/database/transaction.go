package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// Context keys
type (
	lockKey struct{}
	txKey   struct{}
)

// UnitOfWork serializes every store access behind one mutex and optionally
// wraps the work in a database transaction.
type UnitOfWork struct {
	db      *gorm.DB
	mu      sync.Mutex
	logger  coreport.Logger
	metrics *MetricsCollector
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, metrics *MetricsCollector) *UnitOfWork {
	return &UnitOfWork{
		db:      db,
		logger:  logger,
		metrics: metrics,
	}
}

// holdsLock reports whether ctx was produced inside a unit of work of u
func (u *UnitOfWork) holdsLock(ctx context.Context) bool {
	owner, ok := ctx.Value(lockKey{}).(*UnitOfWork)
	return ok && owner == u
}

// acquire takes the lock unless ctx already holds it
func (u *UnitOfWork) acquire(ctx context.Context) (context.Context, func()) {
	if u.holdsLock(ctx) {
		return ctx, func() {}
	}
	u.mu.Lock()
	return context.WithValue(ctx, lockKey{}, u), u.mu.Unlock
}

// Exclusive runs work while holding the store lock, without a transaction
func (u *UnitOfWork) Exclusive(ctx context.Context, work persistence.Work) error {
	nested := u.holdsLock(ctx)
	ctx, release := u.acquire(ctx)
	defer release()

	if nested {
		return work(ctx)
	}
	_, err := u.metrics.MeasureWork(ctx, "exclusive", func() error {
		return work(ctx)
	})
	return err
}

// Transactional runs work inside one database transaction while holding the lock.
// A nested call joins the transaction already carried by ctx.
func (u *UnitOfWork) Transactional(ctx context.Context, work persistence.Work) error {
	if u.holdsLock(ctx) && txFromContext(ctx) != nil {
		return work(ctx)
	}

	ctx, release := u.acquire(ctx)
	defer release()

	_, err := u.metrics.MeasureWork(ctx, "transactional", func() error {
		return u.runInTransaction(ctx, work)
	})
	return err
}

// runInTransaction begins, commits or rolls back one transaction around work
func (u *UnitOfWork) runInTransaction(ctx context.Context, work persistence.Work) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return fmt.Errorf("%w: begin transaction: %s", errs.ErrStorageFailure, tx.Error.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			u.rollback(tx)
			panic(r)
		}
	}()

	if err := work(context.WithValue(ctx, txKey{}, tx)); err != nil {
		u.rollback(tx)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: commit transaction: %s", errs.ErrStorageFailure, err.Error())
	}
	return nil
}

// rollback rolls back tx, tolerating a transaction that is already closed
func (u *UnitOfWork) rollback(tx *gorm.DB) {
	u.logger.Debug("Rolling back database transaction", nil)

	err := tx.Rollback().Error
	if err == nil {
		return
	}
	if strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return
	}
	u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
}

// Operations returns an operation repository bound to ctx
func (u *UnitOfWork) Operations(ctx context.Context) persistence.OperationRepository {
	return repository.NewOperationRepository(u.getDbFromContext(ctx), u.logger)
}

// Tags returns a tag repository bound to ctx
func (u *UnitOfWork) Tags(ctx context.Context) persistence.TagRepository {
	return repository.NewTagRepository(u.getDbFromContext(ctx), u.logger)
}

// TagRules returns a tag rule repository bound to ctx
func (u *UnitOfWork) TagRules(ctx context.Context) persistence.TagRuleRepository {
	return repository.NewTagRuleRepository(u.getDbFromContext(ctx), u.logger)
}

// BankAccounts returns a bank account repository bound to ctx
func (u *UnitOfWork) BankAccounts(ctx context.Context) persistence.BankAccountRepository {
	return repository.NewBankAccountRepository(u.getDbFromContext(ctx), u.logger)
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// getDbFromContext retrieves the transaction from ctx, or the base handle
func (u *UnitOfWork) getDbFromContext(ctx context.Context) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}

var _ persistence.UnitOfWork = (*UnitOfWork)(nil)
