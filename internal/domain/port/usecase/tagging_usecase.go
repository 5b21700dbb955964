package usecase

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// TaggingUseCase defines tag and tag rule management and rule application
type TaggingUseCase interface {
	// ListTags returns every tag
	ListTags(ctx context.Context) ([]*entity.Tag, error)

	// SaveTag creates or updates a tag
	SaveTag(ctx context.Context, tag *entity.Tag) (*entity.Tag, error)

	// ListTagRules returns every tag rule
	ListTagRules(ctx context.Context) ([]*entity.TagRule, error)

	// SaveTagRule validates then creates or updates a tag rule
	SaveTagRule(ctx context.Context, rule *entity.TagRule) (*entity.TagRule, error)

	// ApplyRules attaches the matching tags to one operation. Returns new associations.
	ApplyRules(ctx context.Context, operationID uint64) (int, error)

	// TagUntagged attaches the matching tags to every operation without tags
	TagUntagged(ctx context.Context) (int, error)

	// RetagAll attaches the matching tags to every operation in one transaction
	RetagAll(ctx context.Context) (int, error)
}
