package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockOperationUseCase is a testify mock of usecase.OperationUseCase
type MockOperationUseCase struct {
	mock.Mock
}

// NewMockOperationUseCase creates a MockOperationUseCase and asserts its expectations on cleanup
func NewMockOperationUseCase(t testingT) *MockOperationUseCase {
	m := &MockOperationUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOperationUseCase) InsertBatch(ctx context.Context, operations []*entity.Operation) (int, error) {
	args := m.Called(ctx, operations)
	return args.Int(0), args.Error(1)
}

func (m *MockOperationUseCase) FindAll(ctx context.Context) ([]*entity.Operation, error) {
	args := m.Called(ctx)
	ops, _ := args.Get(0).([]*entity.Operation)
	return ops, args.Error(1)
}

func (m *MockOperationUseCase) FindByID(ctx context.Context, id uint64) (*entity.Operation, error) {
	args := m.Called(ctx, id)
	op, _ := args.Get(0).(*entity.Operation)
	return op, args.Error(1)
}

func (m *MockOperationUseCase) FindTriage(ctx context.Context) ([]*entity.Operation, error) {
	args := m.Called(ctx)
	ops, _ := args.Get(0).([]*entity.Operation)
	return ops, args.Error(1)
}

func (m *MockOperationUseCase) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationUseCase) ResolveViaEdit(ctx context.Context, id uint64, details string) (*entity.Operation, error) {
	args := m.Called(ctx, id, details)
	op, _ := args.Get(0).(*entity.Operation)
	return op, args.Error(1)
}

func (m *MockOperationUseCase) DetectCollisions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOperationUseCase) Import(ctx context.Context, operations []*entity.Operation) (*usecase.ImportResult, error) {
	args := m.Called(ctx, operations)
	result, _ := args.Get(0).(*usecase.ImportResult)
	return result, args.Error(1)
}

// MockTaggingUseCase is a testify mock of usecase.TaggingUseCase
type MockTaggingUseCase struct {
	mock.Mock
}

// NewMockTaggingUseCase creates a MockTaggingUseCase and asserts its expectations on cleanup
func NewMockTaggingUseCase(t testingT) *MockTaggingUseCase {
	m := &MockTaggingUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTaggingUseCase) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]*entity.Tag)
	return tags, args.Error(1)
}

func (m *MockTaggingUseCase) SaveTag(ctx context.Context, tag *entity.Tag) (*entity.Tag, error) {
	args := m.Called(ctx, tag)
	saved, _ := args.Get(0).(*entity.Tag)
	return saved, args.Error(1)
}

func (m *MockTaggingUseCase) ListTagRules(ctx context.Context) ([]*entity.TagRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]*entity.TagRule)
	return rules, args.Error(1)
}

func (m *MockTaggingUseCase) SaveTagRule(ctx context.Context, rule *entity.TagRule) (*entity.TagRule, error) {
	args := m.Called(ctx, rule)
	saved, _ := args.Get(0).(*entity.TagRule)
	return saved, args.Error(1)
}

func (m *MockTaggingUseCase) ApplyRules(ctx context.Context, operationID uint64) (int, error) {
	args := m.Called(ctx, operationID)
	return args.Int(0), args.Error(1)
}

func (m *MockTaggingUseCase) TagUntagged(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTaggingUseCase) RetagAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockAccountUseCase is a testify mock of usecase.AccountUseCase
type MockAccountUseCase struct {
	mock.Mock
}

// NewMockAccountUseCase creates a MockAccountUseCase and asserts its expectations on cleanup
func NewMockAccountUseCase(t testingT) *MockAccountUseCase {
	m := &MockAccountUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccountUseCase) ListBankAccounts(ctx context.Context) ([]*entity.BankAccount, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]*entity.BankAccount)
	return accounts, args.Error(1)
}

func (m *MockAccountUseCase) SaveBankAccount(ctx context.Context, account *entity.BankAccount) (*entity.BankAccount, error) {
	args := m.Called(ctx, account)
	saved, _ := args.Get(0).(*entity.BankAccount)
	return saved, args.Error(1)
}

var (
	_ usecase.OperationUseCase = (*MockOperationUseCase)(nil)
	_ usecase.TaggingUseCase   = (*MockTaggingUseCase)(nil)
	_ usecase.AccountUseCase   = (*MockAccountUseCase)(nil)
)
