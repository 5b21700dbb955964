package dto

import (
	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// TagRequest creates a tag, or updates it when ID is set
type TagRequest struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// ToEntity converts the request to a domain tag
func (r *TagRequest) ToEntity() *entity.Tag {
	return &entity.Tag{ID: r.ID, Name: r.Name, Color: r.Color}
}

// TagResponse represents a stored tag
type TagResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewTagResponse converts a domain tag
func NewTagResponse(tag *entity.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color}
}

// TagRuleRequest creates a tag rule, or updates it when ID is set.
// Amount bounds are decimal strings in the account currency.
type TagRuleRequest struct {
	ID        uint64  `json:"id"`
	TagID     uint64  `json:"tag_id" binding:"required"`
	Kind      string  `json:"kind" binding:"required"`
	Value     string  `json:"value"`
	AmountMin *string `json:"amount_min"`
	AmountMax *string `json:"amount_max"`
}

// ToEntity converts the request to a domain tag rule
func (r *TagRuleRequest) ToEntity() (*entity.TagRule, error) {
	rule := &entity.TagRule{
		ID:    r.ID,
		TagID: r.TagID,
		Kind:  entity.RuleKind(r.Kind),
		Value: r.Value,
	}

	var err error
	if rule.AmountMin, err = parseBound(r.AmountMin); err != nil {
		return nil, err
	}
	if rule.AmountMax, err = parseBound(r.AmountMax); err != nil {
		return nil, err
	}
	return rule, nil
}

func parseBound(s *string) (*int64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	cents, err := entity.ParseAmountToCents(*s)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}

// TagRuleResponse represents a stored tag rule
type TagRuleResponse struct {
	ID        uint64  `json:"id"`
	TagID     uint64  `json:"tag_id"`
	Kind      string  `json:"kind"`
	Value     string  `json:"value,omitempty"`
	AmountMin *string `json:"amount_min,omitempty"`
	AmountMax *string `json:"amount_max,omitempty"`
}

// NewTagRuleResponse converts a domain tag rule
func NewTagRuleResponse(rule *entity.TagRule) TagRuleResponse {
	return TagRuleResponse{
		ID:        rule.ID,
		TagID:     rule.TagID,
		Kind:      string(rule.Kind),
		Value:     rule.Value,
		AmountMin: formatBound(rule.AmountMin),
		AmountMax: formatBound(rule.AmountMax),
	}
}

func formatBound(cents *int64) *string {
	if cents == nil {
		return nil
	}
	s := entity.FormatCents(*cents)
	return &s
}
