package persistence

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// BankAccountRepository defines storage access for bank accounts
type BankAccountRepository interface {
	// List returns every bank account, id ascending
	List(ctx context.Context) ([]*entity.BankAccount, error)

	// FindByID returns one bank account
	//
	// Possible errors:
	// - ErrBankAccountNotFound: If no account has the id
	FindByID(ctx context.Context, id uint64) (*entity.BankAccount, error)

	// Save creates the account when ID is zero, otherwise updates it
	//
	// Possible errors:
	// - ErrBankAccountNotFound: If updating an account that does not exist
	// - ErrConstraintViolation: If the slug is already taken
	Save(ctx context.Context, account *entity.BankAccount) error
}
