package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/port/persistence"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OperationRepository implements persistence.OperationRepository using GORM
type OperationRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewOperationRepository creates a new OperationRepository instance
func NewOperationRepository(db *gorm.DB, logger coreport.Logger) *OperationRepository {
	return &OperationRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts an operation entity to a database model
func (r *OperationRepository) entityToModel(op *entity.Operation) model.Operation {
	return model.Operation{
		ID:                op.ID,
		OperationDate:     op.Date,
		Type:              op.Type,
		TypeDisplay:       op.TypeDisplay,
		Details:           op.Details,
		AmountInCents:     op.AmountInCents,
		Hash:              op.Hash,
		State:             op.State.String(),
		IgnoredFromCharts: op.IgnoredFromCharts,
		BankAccountID:     op.BankAccountID,
	}
}

// modelToEntity converts an operation model to an entity
func (r *OperationRepository) modelToEntity(m *model.Operation, tagIDs []uint64) (*entity.Operation, error) {
	state, err := entity.ParseOperationState(m.State)
	if err != nil {
		return nil, fmt.Errorf("%w: operation %d: %w", errs.ErrStorageFailure, m.ID, err)
	}
	if tagIDs == nil {
		tagIDs = []uint64{}
	}

	return &entity.Operation{
		ID:                m.ID,
		Date:              m.OperationDate,
		Type:              m.Type,
		TypeDisplay:       m.TypeDisplay,
		Details:           m.Details,
		AmountInCents:     m.AmountInCents,
		Hash:              m.Hash,
		State:             state,
		IgnoredFromCharts: m.IgnoredFromCharts,
		BankAccountID:     m.BankAccountID,
		TagIDs:            tagIDs,
	}, nil
}

// CreateBatch stores operations and their tag associations
func (r *OperationRepository) CreateBatch(ctx context.Context, operations []*entity.Operation) error {
	if len(operations) == 0 {
		return nil
	}

	models := make([]model.Operation, len(operations))
	for i, op := range operations {
		models[i] = r.entityToModel(op)
		models[i].ID = 0
	}

	if err := r.db.WithContext(ctx).CreateInBatches(&models, createBatchSize).Error; err != nil {
		r.logger.Error("Failed to create operations", map[string]any{
			"count": len(models),
			"error": err.Error(),
		})
		return r.errorClassifier.Wrap("create operations", err)
	}

	var links []model.OperationTag
	for i := range models {
		operations[i].ID = models[i].ID
		for _, tagID := range operations[i].TagIDs {
			links = append(links, model.OperationTag{OperationID: models[i].ID, TagID: tagID})
		}
	}

	if len(links) > 0 {
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&links, createBatchSize)
		if result.Error != nil {
			return r.errorClassifier.Wrap("attach operation tags", result.Error)
		}
	}

	r.logger.Debug("Operations created", map[string]any{
		"count": len(models),
		"tags":  len(links),
	})
	return nil
}

// FindAll returns every operation, date descending then id ascending
func (r *OperationRepository) FindAll(ctx context.Context) ([]*entity.Operation, error) {
	var models []model.Operation
	result := r.db.WithContext(ctx).
		Order("operation_date DESC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.errorClassifier.Wrap("list operations", result.Error)
	}
	return r.toEntities(ctx, models)
}

// FindByID returns one operation
func (r *OperationRepository) FindByID(ctx context.Context, id uint64) (*entity.Operation, error) {
	var m model.Operation
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", errs.ErrOperationNotFound, id)
		}
		return nil, r.errorClassifier.Wrap("get operation", result.Error)
	}

	tags, err := r.loadTagIDs(ctx, []uint64{m.ID})
	if err != nil {
		return nil, err
	}
	return r.modelToEntity(&m, tags[m.ID])
}

// FindByState returns operations in state, details descending then id ascending
func (r *OperationRepository) FindByState(ctx context.Context, state entity.OperationState) ([]*entity.Operation, error) {
	var models []model.Operation
	result := r.db.WithContext(ctx).
		Where("state = ?", state.String()).
		Order("details DESC").
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.errorClassifier.Wrap("list operations by state", result.Error)
	}
	return r.toEntities(ctx, models)
}

// FindUntagged returns operations without tag associations, id ascending
func (r *OperationRepository) FindUntagged(ctx context.Context) ([]*entity.Operation, error) {
	var models []model.Operation
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (?)", r.db.Model(&model.OperationTag{}).Select("1").Where("operation_tags.operation_id = operations.id")).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.errorClassifier.Wrap("list untagged operations", result.Error)
	}
	return r.toEntities(ctx, models)
}

// Delete removes an operation and its tag associations
func (r *OperationRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Where("operation_id = ?", id).Delete(&model.OperationTag{}).Error; err != nil {
		return r.errorClassifier.Wrap("delete operation tags", err)
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Operation{})
	if result.Error != nil {
		return r.errorClassifier.Wrap("delete operation", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", errs.ErrOperationNotFound, id)
	}
	return nil
}

// UpdateDetails rewrites details and state of one operation
func (r *OperationRepository) UpdateDetails(ctx context.Context, id uint64, details string, state entity.OperationState) error {
	result := r.db.WithContext(ctx).Model(&model.Operation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"details": details,
			"state":   state.String(),
		})
	if result.Error != nil {
		return r.errorClassifier.Wrap("update operation details", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", errs.ErrOperationNotFound, id)
	}
	return nil
}

// sharedHashes is the subquery of hashes carried by more than one operation
func (r *OperationRepository) sharedHashes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Operation{}).
		Select("hash").
		Group("hash").
		Having("COUNT(*) > 1")
}

// TransitionSharedHashes moves every operation of a shared hash that is not in to into to
func (r *OperationRepository) TransitionSharedHashes(ctx context.Context, to entity.OperationState) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Operation{}).
		Where("state <> ?", to.String()).
		Where("hash IN (?)", r.sharedHashes(ctx)).
		Update("state", to.String())
	if result.Error != nil {
		r.logger.Error("Failed to transition shared hashes", map[string]any{
			"to":    to.String(),
			"error": result.Error.Error(),
		})
		return 0, r.errorClassifier.Wrap("transition shared hashes", result.Error)
	}
	return result.RowsAffected, nil
}

// FindMixedHashGroups returns the shared-hash groups whose members disagree on state
func (r *OperationRepository) FindMixedHashGroups(ctx context.Context) ([]persistence.HashGroup, error) {
	var rows []struct {
		Hash  string
		State string
	}
	result := r.db.WithContext(ctx).Model(&model.Operation{}).
		Select("hash, state").
		Where("hash IN (?)", r.sharedHashes(ctx)).
		Group("hash, state").
		Order("hash ASC").
		Order("state ASC").
		Scan(&rows)
	if result.Error != nil {
		return nil, r.errorClassifier.Wrap("find mixed hash groups", result.Error)
	}

	var groups []persistence.HashGroup
	for _, row := range rows {
		state, err := entity.ParseOperationState(row.State)
		if err != nil {
			return nil, fmt.Errorf("%w: hash %q: %w", errs.ErrStorageFailure, row.Hash, err)
		}
		if n := len(groups); n > 0 && groups[n-1].Hash == row.Hash {
			groups[n-1].States = append(groups[n-1].States, state)
			continue
		}
		groups = append(groups, persistence.HashGroup{Hash: row.Hash, States: []entity.OperationState{state}})
	}

	mixed := groups[:0]
	for _, group := range groups {
		if len(group.States) > 1 {
			mixed = append(mixed, group)
		}
	}
	return mixed, nil
}

// AttachTags associates tags with an operation, ignoring existing associations
func (r *OperationRepository) AttachTags(ctx context.Context, operationID uint64, tagIDs []uint64) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	links := make([]model.OperationTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, model.OperationTag{OperationID: operationID, TagID: tagID})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links)
	if result.Error != nil {
		return 0, r.errorClassifier.Wrap("attach operation tags", result.Error)
	}
	return result.RowsAffected, nil
}

// toEntities converts models and loads their tag ids
func (r *OperationRepository) toEntities(ctx context.Context, models []model.Operation) ([]*entity.Operation, error) {
	ids := make([]uint64, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}

	tags, err := r.loadTagIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	operations := make([]*entity.Operation, 0, len(models))
	for i := range models {
		op, err := r.modelToEntity(&models[i], tags[models[i].ID])
		if err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}
	return operations, nil
}

// loadTagIDs returns the sorted tag ids of each operation
func (r *OperationRepository) loadTagIDs(ctx context.Context, operationIDs []uint64) (map[uint64][]uint64, error) {
	tags := make(map[uint64][]uint64, len(operationIDs))
	for _, chunk := range chunkIDs(operationIDs, idChunkSize) {
		var links []model.OperationTag
		result := r.db.WithContext(ctx).
			Where("operation_id IN ?", chunk).
			Find(&links)
		if result.Error != nil {
			return nil, r.errorClassifier.Wrap("load operation tags", result.Error)
		}
		for _, link := range links {
			tags[link.OperationID] = append(tags[link.OperationID], link.TagID)
		}
	}

	for id := range tags {
		sort.Slice(tags[id], func(i, j int) bool { return tags[id][i] < tags[id][j] })
	}
	return tags, nil
}

var _ persistence.OperationRepository = (*OperationRepository)(nil)
