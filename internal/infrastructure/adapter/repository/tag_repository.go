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

// TagRepository implements persistence.TagRepository using GORM
type TagRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTagRepository creates a new TagRepository instance
func NewTagRepository(db *gorm.DB, logger coreport.Logger) *TagRepository {
	return &TagRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *TagRepository) modelToEntity(m *model.Tag) *entity.Tag {
	return &entity.Tag{
		ID:    m.ID,
		Name:  m.Name,
		Color: m.Color,
	}
}

// List returns every tag ordered by name
func (r *TagRepository) List(ctx context.Context) ([]*entity.Tag, error) {
	var models []model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, r.errorClassifier.Wrap("list tags", err)
	}

	tags := make([]*entity.Tag, len(models))
	for i := range models {
		tags[i] = r.modelToEntity(&models[i])
	}
	return tags, nil
}

// FindByID returns one tag
func (r *TagRepository) FindByID(ctx context.Context, id uint64) (*entity.Tag, error) {
	var m model.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", errs.ErrTagNotFound, id)
		}
		return nil, r.errorClassifier.Wrap("get tag", err)
	}
	return r.modelToEntity(&m), nil
}

// Save creates the tag when ID is zero, otherwise updates it
func (r *TagRepository) Save(ctx context.Context, tag *entity.Tag) error {
	if tag.ID == 0 {
		m := model.Tag{Name: tag.Name, Color: tag.Color}
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			r.logger.Error("Failed to create tag", map[string]any{
				"name":  tag.Name,
				"error": err.Error(),
			})
			return r.errorClassifier.Wrap("create tag", err)
		}
		tag.ID = m.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ?", tag.ID).
		Updates(map[string]any{
			"name":  tag.Name,
			"color": tag.Color,
		})
	if result.Error != nil {
		return r.errorClassifier.Wrap("update tag", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", errs.ErrTagNotFound, tag.ID)
	}
	return nil
}

// MissingIDs returns the ids among ids that have no stored tag
func (r *TagRepository) MissingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	found := make(map[uint64]struct{}, len(ids))
	for _, chunk := range chunkIDs(ids, idChunkSize) {
		var existing []uint64
		if err := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id IN ?", chunk).Pluck("id", &existing).Error; err != nil {
			return nil, r.errorClassifier.Wrap("check tag ids", err)
		}
		for _, id := range existing {
			found[id] = struct{}{}
		}
	}

	var missing []uint64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

var _ persistence.TagRepository = (*TagRepository)(nil)
