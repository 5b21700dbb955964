package operation

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// DetectCollisions moves every operation whose hash is shared by another stored
// operation into PendingTriage, in one transaction.
// The transaction is rolled back with a Conflict error if any shared hash is
// still in a mixed state before commit. Returns the number of rows transitioned.
func (s *Service) DetectCollisions(ctx context.Context) (int, error) {
	target := entity.StateOk.Apply(entity.EventCollisionDetected)

	var flagged int64
	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		repo := s.uow.Operations(ctx)

		n, err := repo.TransitionSharedHashes(ctx, target)
		if err != nil {
			return err
		}

		groups, err := repo.FindMixedHashGroups(ctx)
		if err != nil {
			return err
		}
		if len(groups) > 0 {
			states := make([]string, 0, len(groups[0].States))
			for _, state := range groups[0].States {
				states = append(states, state.String())
			}
			return errs.NewCollisionGroupError(groups[0].Hash, states)
		}

		flagged = n
		return nil
	})
	if err != nil {
		s.logger.Error("Collision detection failed", map[string]any{
			"error": err.Error(),
		})
		return 0, err
	}

	s.logger.Info("Collision detection completed", map[string]any{
		"flagged": flagged,
	})
	return int(flagged), nil
}
