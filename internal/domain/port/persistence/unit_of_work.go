package persistence

import (
	"context"
)

// Work is a function executed by the unit of work. The context it receives
// carries the lock and, for Transactional, the open database transaction.
type Work func(ctx context.Context) error

// UnitOfWork owns the single exclusive lock over the store and hands out
// repositories bound to the current context.
//
// Acquisition is re-entrant: calling Exclusive or Transactional with a context
// that already holds the lock runs the work inline instead of blocking.
type UnitOfWork interface {
	// Exclusive runs work while holding the store lock, without a transaction
	Exclusive(ctx context.Context, work Work) error

	// Transactional runs work while holding the store lock inside one database
	// transaction. The transaction commits when work returns nil and rolls back
	// on any error, including a panic.
	Transactional(ctx context.Context, work Work) error

	// Operations returns an operation repository bound to ctx
	Operations(ctx context.Context) OperationRepository

	// Tags returns a tag repository bound to ctx
	Tags(ctx context.Context) TagRepository

	// TagRules returns a tag rule repository bound to ctx
	TagRules(ctx context.Context) TagRuleRepository

	// BankAccounts returns a bank account repository bound to ctx
	BankAccounts(ctx context.Context) BankAccountRepository
}
