package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// BankAccountRepository implements persistence.BankAccountRepository using GORM
type BankAccountRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBankAccountRepository creates a new BankAccountRepository instance
func NewBankAccountRepository(db *gorm.DB, logger coreport.Logger) *BankAccountRepository {
	return &BankAccountRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *BankAccountRepository) modelToEntity(m *model.BankAccount) *entity.BankAccount {
	return &entity.BankAccount{
		ID:       m.ID,
		Name:     m.Name,
		Slug:     m.Slug,
		Currency: m.Currency,
	}
}

// List returns every bank account, id ascending
func (r *BankAccountRepository) List(ctx context.Context) ([]*entity.BankAccount, error) {
	var models []model.BankAccount
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, r.errorClassifier.Wrap("list bank accounts", err)
	}

	accounts := make([]*entity.BankAccount, len(models))
	for i := range models {
		accounts[i] = r.modelToEntity(&models[i])
	}
	return accounts, nil
}

// FindByID returns one bank account
func (r *BankAccountRepository) FindByID(ctx context.Context, id uint64) (*entity.BankAccount, error) {
	var m model.BankAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", errs.ErrBankAccountNotFound, id)
		}
		return nil, r.errorClassifier.Wrap("get bank account", err)
	}
	return r.modelToEntity(&m), nil
}

// Save creates the account when ID is zero, otherwise updates it
func (r *BankAccountRepository) Save(ctx context.Context, account *entity.BankAccount) error {
	if account.ID == 0 {
		m := model.BankAccount{
			Name:     account.Name,
			Slug:     account.Slug,
			Currency: account.Currency,
		}
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			r.logger.Error("Failed to create bank account", map[string]any{
				"slug":  account.Slug,
				"error": err.Error(),
			})
			return r.errorClassifier.Wrap("create bank account", err)
		}
		account.ID = m.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.BankAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"name":     account.Name,
			"slug":     account.Slug,
			"currency": account.Currency,
		})
	if result.Error != nil {
		return r.errorClassifier.Wrap("update bank account", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", errs.ErrBankAccountNotFound, account.ID)
	}
	return nil
}

var _ persistence.BankAccountRepository = (*BankAccountRepository)(nil)
