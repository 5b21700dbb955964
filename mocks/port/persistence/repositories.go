package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockOperationRepository is a testify mock of persistence.OperationRepository
type MockOperationRepository struct {
	mock.Mock
}

// NewMockOperationRepository creates a MockOperationRepository and asserts its expectations on cleanup
func NewMockOperationRepository(t testingT) *MockOperationRepository {
	m := &MockOperationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOperationRepository) CreateBatch(ctx context.Context, operations []*entity.Operation) error {
	args := m.Called(ctx, operations)
	return args.Error(0)
}

func (m *MockOperationRepository) FindAll(ctx context.Context) ([]*entity.Operation, error) {
	args := m.Called(ctx)
	return operationsArg(args, 0), args.Error(1)
}

func (m *MockOperationRepository) FindByID(ctx context.Context, id uint64) (*entity.Operation, error) {
	args := m.Called(ctx, id)
	if op, ok := args.Get(0).(*entity.Operation); ok {
		return op, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOperationRepository) FindByState(ctx context.Context, state entity.OperationState) ([]*entity.Operation, error) {
	args := m.Called(ctx, state)
	return operationsArg(args, 0), args.Error(1)
}

func (m *MockOperationRepository) FindUntagged(ctx context.Context) ([]*entity.Operation, error) {
	args := m.Called(ctx)
	return operationsArg(args, 0), args.Error(1)
}

func (m *MockOperationRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) UpdateDetails(ctx context.Context, id uint64, details string, state entity.OperationState) error {
	args := m.Called(ctx, id, details, state)
	return args.Error(0)
}

func (m *MockOperationRepository) TransitionSharedHashes(ctx context.Context, to entity.OperationState) (int64, error) {
	args := m.Called(ctx, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationRepository) FindMixedHashGroups(ctx context.Context) ([]persistence.HashGroup, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]persistence.HashGroup)
	return groups, args.Error(1)
}

func (m *MockOperationRepository) AttachTags(ctx context.Context, operationID uint64, tagIDs []uint64) (int64, error) {
	args := m.Called(ctx, operationID, tagIDs)
	return args.Get(0).(int64), args.Error(1)
}

func operationsArg(args mock.Arguments, index int) []*entity.Operation {
	ops, _ := args.Get(index).([]*entity.Operation)
	return ops
}

// MockTagRepository is a testify mock of persistence.TagRepository
type MockTagRepository struct {
	mock.Mock
}

// NewMockTagRepository creates a MockTagRepository and asserts its expectations on cleanup
func NewMockTagRepository(t testingT) *MockTagRepository {
	m := &MockTagRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTagRepository) List(ctx context.Context) ([]*entity.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]*entity.Tag)
	return tags, args.Error(1)
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uint64) (*entity.Tag, error) {
	args := m.Called(ctx, id)
	tag, _ := args.Get(0).(*entity.Tag)
	return tag, args.Error(1)
}

func (m *MockTagRepository) Save(ctx context.Context, tag *entity.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	args := m.Called(ctx, ids)
	missing, _ := args.Get(0).([]uint64)
	return missing, args.Error(1)
}

// MockTagRuleRepository is a testify mock of persistence.TagRuleRepository
type MockTagRuleRepository struct {
	mock.Mock
}

// NewMockTagRuleRepository creates a MockTagRuleRepository and asserts its expectations on cleanup
func NewMockTagRuleRepository(t testingT) *MockTagRuleRepository {
	m := &MockTagRuleRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTagRuleRepository) List(ctx context.Context) ([]*entity.TagRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]*entity.TagRule)
	return rules, args.Error(1)
}

func (m *MockTagRuleRepository) FindByID(ctx context.Context, id uint64) (*entity.TagRule, error) {
	args := m.Called(ctx, id)
	rule, _ := args.Get(0).(*entity.TagRule)
	return rule, args.Error(1)
}

func (m *MockTagRuleRepository) Save(ctx context.Context, rule *entity.TagRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

// MockBankAccountRepository is a testify mock of persistence.BankAccountRepository
type MockBankAccountRepository struct {
	mock.Mock
}

// NewMockBankAccountRepository creates a MockBankAccountRepository and asserts its expectations on cleanup
func NewMockBankAccountRepository(t testingT) *MockBankAccountRepository {
	m := &MockBankAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBankAccountRepository) List(ctx context.Context) ([]*entity.BankAccount, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]*entity.BankAccount)
	return accounts, args.Error(1)
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, id uint64) (*entity.BankAccount, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*entity.BankAccount)
	return account, args.Error(1)
}

func (m *MockBankAccountRepository) Save(ctx context.Context, account *entity.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

var (
	_ persistence.UnitOfWork            = (*MockUnitOfWork)(nil)
	_ persistence.OperationRepository   = (*MockOperationRepository)(nil)
	_ persistence.TagRepository         = (*MockTagRepository)(nil)
	_ persistence.TagRuleRepository     = (*MockTagRuleRepository)(nil)
	_ persistence.BankAccountRepository = (*MockBankAccountRepository)(nil)
)
