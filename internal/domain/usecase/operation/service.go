package operation

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
)

// Service implements the operation store, the collision detector and the
// triage workflow on top of a unit of work
type Service struct {
	uow     persistence.UnitOfWork
	tagging usecase.TaggingUseCase
	logger  coreport.Logger
	autoTag bool
}

// NewOperationService creates a new operation service.
// tagging may be nil, in which case Import never tags.
func NewOperationService(
	uow persistence.UnitOfWork,
	tagging usecase.TaggingUseCase,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:     uow,
		tagging: tagging,
		logger:  logger,
		autoTag: true,
	}
}

// WithAutoTag controls whether Import runs rule matching on untagged operations
func (s *Service) WithAutoTag(enabled bool) *Service {
	s.autoTag = enabled
	return s
}

// FindAll returns every operation, most recent date first
func (s *Service) FindAll(ctx context.Context) ([]*entity.Operation, error) {
	var operations []*entity.Operation
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		operations, err = s.uow.Operations(ctx).FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return operations, nil
}

// FindByID returns one operation
func (s *Service) FindByID(ctx context.Context, id uint64) (*entity.Operation, error) {
	var operation *entity.Operation
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		operation, err = s.uow.Operations(ctx).FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return operation, nil
}

// FindTriage returns the operations waiting for review, details descending
func (s *Service) FindTriage(ctx context.Context) ([]*entity.Operation, error) {
	var operations []*entity.Operation
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		operations, err = s.uow.Operations(ctx).FindByState(ctx, entity.StatePendingTriage)
		return err
	})
	if err != nil {
		return nil, err
	}
	return operations, nil
}

var _ usecase.OperationUseCase = (*Service)(nil)
