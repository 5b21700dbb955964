package persistence

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// TagRepository defines storage access for tags
type TagRepository interface {
	// List returns every tag ordered by name
	List(ctx context.Context) ([]*entity.Tag, error)

	// FindByID returns one tag
	//
	// Possible errors:
	// - ErrTagNotFound: If no tag has the id
	FindByID(ctx context.Context, id uint64) (*entity.Tag, error)

	// Save creates the tag when ID is zero, otherwise updates it
	//
	// Possible errors:
	// - ErrTagNotFound: If updating a tag that does not exist
	// - ErrConstraintViolation: If another tag already has the name
	Save(ctx context.Context, tag *entity.Tag) error

	// MissingIDs returns the ids among ids that have no stored tag
	MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error)
}

// TagRuleRepository defines storage access for tag rules
type TagRuleRepository interface {
	// List returns every tag rule, id ascending
	List(ctx context.Context) ([]*entity.TagRule, error)

	// FindByID returns one tag rule
	//
	// Possible errors:
	// - ErrTagRuleNotFound: If no rule has the id
	FindByID(ctx context.Context, id uint64) (*entity.TagRule, error)

	// Save creates the rule when ID is zero, otherwise updates it
	//
	// Possible errors:
	// - ErrTagRuleNotFound: If updating a rule that does not exist
	Save(ctx context.Context, rule *entity.TagRule) error
}
