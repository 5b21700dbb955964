package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
)

// RunWork can be passed to Return for Exclusive or Transactional so the mock
// executes the work it receives
var RunWork = func(ctx context.Context, work persistence.Work) error {
	return work(ctx)
}

// MockUnitOfWork is a testify mock of persistence.UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// NewMockUnitOfWork creates a MockUnitOfWork and asserts its expectations on cleanup
func NewMockUnitOfWork(t testingT) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUnitOfWork) Exclusive(ctx context.Context, work persistence.Work) error {
	args := m.MethodCalled("Exclusive", ctx, work)
	return dispatch(args, ctx, work)
}

func (m *MockUnitOfWork) Transactional(ctx context.Context, work persistence.Work) error {
	args := m.MethodCalled("Transactional", ctx, work)
	return dispatch(args, ctx, work)
}

func dispatch(args mock.Arguments, ctx context.Context, work persistence.Work) error {
	if fn, ok := args.Get(0).(func(context.Context, persistence.Work) error); ok {
		return fn(ctx, work)
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) Operations(ctx context.Context) persistence.OperationRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.OperationRepository)
}

func (m *MockUnitOfWork) Tags(ctx context.Context) persistence.TagRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TagRepository)
}

func (m *MockUnitOfWork) TagRules(ctx context.Context) persistence.TagRuleRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.TagRuleRepository)
}

func (m *MockUnitOfWork) BankAccounts(ctx context.Context) persistence.BankAccountRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.BankAccountRepository)
}
