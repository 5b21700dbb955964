package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TagRuleRepository implements persistence.TagRuleRepository using GORM
type TagRuleRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTagRuleRepository creates a new TagRuleRepository instance
func NewTagRuleRepository(db *gorm.DB, logger coreport.Logger) *TagRuleRepository {
	return &TagRuleRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TagRuleRepository) modelToEntity(m *model.TagRule) *entity.TagRule {
	return &entity.TagRule{
		ID:        m.ID,
		TagID:     m.TagID,
		Kind:      entity.RuleKind(m.Kind),
		Value:     m.Value,
		AmountMin: m.AmountMin,
		AmountMax: m.AmountMax,
	}
}

// List returns every tag rule, id ascending
func (r *TagRuleRepository) List(ctx context.Context) ([]*entity.TagRule, error) {
	var models []model.TagRule
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, r.errorClassifier.Wrap("list tag rules", err)
	}

	rules := make([]*entity.TagRule, len(models))
	for i := range models {
		rules[i] = r.modelToEntity(&models[i])
	}
	return rules, nil
}

// FindByID returns one tag rule
func (r *TagRuleRepository) FindByID(ctx context.Context, id uint64) (*entity.TagRule, error) {
	var m model.TagRule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", errs.ErrTagRuleNotFound, id)
		}
		return nil, r.errorClassifier.Wrap("get tag rule", err)
	}
	return r.modelToEntity(&m), nil
}

// Save creates the rule when ID is zero, otherwise updates it
func (r *TagRuleRepository) Save(ctx context.Context, rule *entity.TagRule) error {
	if rule.ID == 0 {
		m := model.TagRule{
			TagID:     rule.TagID,
			Kind:      string(rule.Kind),
			Value:     rule.Value,
			AmountMin: rule.AmountMin,
			AmountMax: rule.AmountMax,
		}
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			r.logger.Error("Failed to create tag rule", map[string]any{
				"tag_id": rule.TagID,
				"kind":   string(rule.Kind),
				"error":  err.Error(),
			})
			return r.errorClassifier.Wrap("create tag rule", err)
		}
		rule.ID = m.ID
		return nil
	}

	// Map updates so cleared bounds are written as NULL
	result := r.db.WithContext(ctx).Model(&model.TagRule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]any{
			"tag_id":     rule.TagID,
			"kind":       string(rule.Kind),
			"value":      rule.Value,
			"amount_min": rule.AmountMin,
			"amount_max": rule.AmountMax,
		})
	if result.Error != nil {
		return r.errorClassifier.Wrap("update tag rule", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", errs.ErrTagRuleNotFound, rule.ID)
	}
	return nil
}

var _ persistence.TagRuleRepository = (*TagRuleRepository)(nil)
