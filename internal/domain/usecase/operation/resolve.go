package operation

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// ResolveViaEdit replaces the details of an operation and moves it to Ok.
// The transition is unconditional: the edit counts as the user's review even
// if the hash collision that flagged the operation still exists.
func (s *Service) ResolveViaEdit(ctx context.Context, id uint64, details string) (*entity.Operation, error) {
	var resolved *entity.Operation
	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		repo := s.uow.Operations(ctx)

		op, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		previous := op.State
		next := previous.Apply(entity.EventEditedByUser)
		if err := repo.UpdateDetails(ctx, id, details, next); err != nil {
			return err
		}

		op.Details = details
		op.State = next
		resolved = op

		s.logger.Debug("Operation state transition", map[string]any{
			"operation_id": id,
			"event":        entity.EventEditedByUser.String(),
			"from":         previous.String(),
			"to":           next.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
