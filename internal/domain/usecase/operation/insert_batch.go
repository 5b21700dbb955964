package operation

import (
	"context"
	"fmt"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// InsertBatch stores operations in a single transaction.
// Every record is validated before anything is written; inserted operations
// always start in state Ok. IDs are assigned on the given records.
func (s *Service) InsertBatch(ctx context.Context, operations []*entity.Operation) (int, error) {
	if len(operations) == 0 {
		return 0, nil
	}

	var tagIDs []uint64
	for i, op := range operations {
		if op == nil {
			return 0, errs.NewOperationError(i, "operation", "is missing", errs.ErrInvalidOperation)
		}
		if err := op.Validate(i); err != nil {
			s.logger.Warn("Rejected operation batch", map[string]any{
				"size":  len(operations),
				"error": err.Error(),
			})
			return 0, err
		}
		op.ID = 0
		op.State = entity.StateOk
		op.TagIDs = entity.NormalizeTagIDs(op.TagIDs)
		tagIDs = append(tagIDs, op.TagIDs...)
	}

	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		if len(tagIDs) > 0 {
			missing, err := s.uow.Tags(ctx).MissingIDs(ctx, entity.NormalizeTagIDs(tagIDs))
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %v", errs.ErrTagNotFound, missing)
			}
		}
		return s.uow.Operations(ctx).CreateBatch(ctx, operations)
	})
	if err != nil {
		for _, op := range operations {
			op.ID = 0
		}
		return 0, err
	}

	s.logger.Info("Operations inserted", map[string]any{
		"count": len(operations),
	})
	return len(operations), nil
}
