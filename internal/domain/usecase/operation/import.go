package operation

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
)

// Import inserts a batch, runs collision detection and tags the operations that
// have no tag yet. Each step is its own unit of work; when a later step fails the
// result still reports what earlier steps committed.
func (s *Service) Import(ctx context.Context, operations []*entity.Operation) (*usecase.ImportResult, error) {
	result := &usecase.ImportResult{}

	inserted, err := s.InsertBatch(ctx, operations)
	if err != nil {
		return result, err
	}
	result.Inserted = inserted

	flagged, err := s.DetectCollisions(ctx)
	if err != nil {
		return result, err
	}
	result.Flagged = flagged

	if s.autoTag && s.tagging != nil {
		tagged, err := s.tagging.TagUntagged(ctx)
		if err != nil {
			return result, err
		}
		result.Tagged = tagged
	}

	s.logger.Info("Import completed", map[string]any{
		"inserted": result.Inserted,
		"flagged":  result.Flagged,
		"tagged":   result.Tagged,
	})
	return result, nil
}
