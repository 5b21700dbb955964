package usecase

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// AccountUseCase defines bank account management
type AccountUseCase interface {
	ListBankAccounts(ctx context.Context) ([]*entity.BankAccount, error)
	SaveBankAccount(ctx context.Context, account *entity.BankAccount) (*entity.BankAccount, error)
}
