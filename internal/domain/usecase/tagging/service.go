package tagging

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/usecase"
)

// Service manages tags and tag rules and applies rules to stored operations
type Service struct {
	uow    persistence.UnitOfWork
	logger coreport.Logger
}

// NewTaggingService creates a new tagging service
func NewTaggingService(uow persistence.UnitOfWork, logger coreport.Logger) *Service {
	return &Service{
		uow:    uow,
		logger: logger,
	}
}

// ListTags returns every tag
func (s *Service) ListTags(ctx context.Context) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		tags, err = s.uow.Tags(ctx).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SaveTag creates a tag, or updates it when ID is set
func (s *Service) SaveTag(ctx context.Context, tag *entity.Tag) (*entity.Tag, error) {
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		return s.uow.Tags(ctx).Save(ctx, tag)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tag saved", map[string]any{
		"tag_id": tag.ID,
		"name":   tag.Name,
	})
	return tag, nil
}

// ListTagRules returns every tag rule
func (s *Service) ListTagRules(ctx context.Context) ([]*entity.TagRule, error) {
	var rules []*entity.TagRule
	err := s.uow.Exclusive(ctx, func(ctx context.Context) error {
		var err error
		rules, err = s.uow.TagRules(ctx).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveTagRule validates a rule, checks its tag exists, then creates or updates it
func (s *Service) SaveTagRule(ctx context.Context, rule *entity.TagRule) (*entity.TagRule, error) {
	if err := rule.Validate(); err != nil {
		s.logger.Warn("Rejected tag rule", map[string]any{
			"rule_id": rule.ID,
			"kind":    string(rule.Kind),
			"error":   err.Error(),
		})
		return nil, err
	}

	err := s.uow.Transactional(ctx, func(ctx context.Context) error {
		if _, err := s.uow.Tags(ctx).FindByID(ctx, rule.TagID); err != nil {
			return err
		}
		return s.uow.TagRules(ctx).Save(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tag rule saved", map[string]any{
		"rule_id": rule.ID,
		"tag_id":  rule.TagID,
		"kind":    string(rule.Kind),
	})
	return rule, nil
}

var _ usecase.TaggingUseCase = (*Service)(nil)
