package tagging

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
)

// ApplyRules attaches every matching tag to one operation.
// Existing tags are kept. Returns the number of new associations.
func (s *Service) ApplyRules(ctx context.Context, operationID uint64) (int, error) {
	return s.apply(ctx, "single", func(ctx context.Context, repo persistence.OperationRepository) ([]*entity.Operation, error) {
		op, err := repo.FindByID(ctx, operationID)
		if err != nil {
			return nil, err
		}
		return []*entity.Operation{op}, nil
	})
}

// TagUntagged attaches matching tags to every operation that has none
func (s *Service) TagUntagged(ctx context.Context) (int, error) {
	return s.apply(ctx, "untagged", func(ctx context.Context, repo persistence.OperationRepository) ([]*entity.Operation, error) {
		return repo.FindUntagged(ctx)
	})
}

// RetagAll re-evaluates every rule against every operation in one transaction
func (s *Service) RetagAll(ctx context.Context) (int, error) {
	return s.apply(ctx, "all", func(ctx context.Context, repo persistence.OperationRepository) ([]*entity.Operation, error) {
		return repo.FindAll(ctx)
	})
}

type operationSelector func(ctx context.Context, repo persistence.OperationRepository) ([]*entity.Operation, error)

func (s *Service) apply(ctx context.Context, scope string, selectOps operationSelector) (int, error) {
	var attached int64
	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		rules, err := s.uow.TagRules(ctx).List(ctx)
		if err != nil {
			return err
		}

		repo := s.uow.Operations(ctx)
		operations, err := selectOps(ctx, repo)
		if err != nil {
			return err
		}

		matcher := NewMatcher(rules)
		for _, rule := range matcher.Skipped() {
			s.logger.Warn("Skipping malformed tag rule", map[string]any{
				"rule_id": rule.ID,
				"kind":    string(rule.Kind),
			})
		}

		for _, op := range operations {
			added := matcher.Match(op).Without(op.TagIDs)
			if len(added) == 0 {
				continue
			}
			n, err := repo.AttachTags(ctx, op.ID, added.Sorted())
			if err != nil {
				return err
			}
			attached += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Tag rules applied", map[string]any{
		"scope":    scope,
		"attached": attached,
	})
	return int(attached), nil
}
