package account

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
)

// Service manages bank accounts
type Service struct {
	uow    persistence.UnitOfWork
	logger coreport.Logger
}

// NewAccountService creates a new bank account service
func NewAccountService(uow persistence.UnitOfWork, logger coreport.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// ListBankAccounts returns every bank account
func (s *Service) ListBankAccounts(ctx context.Context) ([]*entity.BankAccount, error) {
	var accounts []*entity.BankAccount
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		accounts, err = s.uow.BankAccounts(ctx).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveBankAccount creates an account, or updates it when ID is set
func (s *Service) SaveBankAccount(ctx context.Context, account *entity.BankAccount) (*entity.BankAccount, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		return s.uow.BankAccounts(ctx).Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bank account saved", map[string]any{
		"bank_account_id": account.ID,
		"slug":            account.Slug,
	})
	return account, nil
}

var _ usecase.AccountUseCase = (*Service)(nil)
