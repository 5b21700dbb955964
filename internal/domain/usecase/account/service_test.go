package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coremocks "github.com/ledgertriage/ledgertriage/mocks/port/core"
	persistencemocks "github.com/ledgertriage/ledgertriage/mocks/port/persistence"
)

func TestAccountService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, *persistencemocks.MockUnitOfWork, *persistencemocks.MockBankAccountRepository) {
		uow := persistencemocks.NewMockUnitOfWork(t)
		repo := persistencemocks.NewMockBankAccountRepository(t)
		uow.On("Exclusive", mock.Anything, mock.Anything).Return(persistencemocks.RunWork).Maybe()
		uow.On("Transactional", mock.Anything, mock.Anything).Return(persistencemocks.RunWork).Maybe()
		uow.On("BankAccounts", mock.Anything).Return(repo).Maybe()
		return NewAccountService(uow, coremocks.NewPermissiveLogger(t)), uow, repo
	}

	t.Run("List", func(t *testing.T) {
		service, _, repo := setup(t)
		accounts := []*entity.BankAccount{{ID: 1, Name: "Main", Slug: "main", Currency: "EUR"}}
		repo.On("List", mock.Anything).Return(accounts, nil).Once()

		got, err := service.ListBankAccounts(ctx)

		require.NoError(t, err)
		assert.Equal(t, accounts, got)
	})

	t.Run("Save derives slug", func(t *testing.T) {
		service, _, repo := setup(t)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(a *entity.BankAccount) bool {
			return a.Slug == "joint-account"
		})).Return(nil).Once()

		saved, err := service.SaveBankAccount(ctx, &entity.BankAccount{Name: "Joint Account"})

		require.NoError(t, err)
		assert.Equal(t, "EUR", saved.Currency)
	})

	t.Run("Save rejects invalid account", func(t *testing.T) {
		service, uow, _ := setup(t)

		saved, err := service.SaveBankAccount(ctx, &entity.BankAccount{})

		assert.Nil(t, saved)
		assert.ErrorIs(t, err, errs.ErrInvalidBankAccount)
		uow.AssertNotCalled(t, "Transactional", mock.Anything, mock.Anything)
	})
}
