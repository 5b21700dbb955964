package operation

import (
	"context"
)

// Delete removes an operation and its tag associations.
// Collision detection is not re-run, so a former partner may stay in PendingTriage.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		return s.uow.Operations(ctx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Operation deleted", map[string]any{
		"operation_id": id,
	})
	return nil
}
