package repository_test

import (
	"context"
	"testing"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/database"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOp(date, details, hash string, cents int64) *entity.Operation {
	return &entity.Operation{
		Date:          date,
		Type:          "CARD",
		TypeDisplay:   "Card payment",
		Details:       details,
		AmountInCents: cents,
		Hash:          hash,
		BankAccountID: 1,
	}
}

func setupOperations(t *testing.T) (*gorm.DB, *repository.OperationRepository) {
	t.Helper()
	manager := database.NewTestManager(t)
	return manager.DB(), repository.NewOperationRepository(manager.DB(), logger.NewNoopLogger())
}

func createTags(t *testing.T, db *gorm.DB, names ...string) []uint64 {
	t.Helper()
	repo := repository.NewTagRepository(db, logger.NewNoopLogger())
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		tag := &entity.Tag{Name: name}
		require.NoError(t, repo.Save(context.Background(), tag))
		ids = append(ids, tag.ID)
	}
	return ids
}

func TestOperationRepository_CreateBatchAssignsIDsAndTags(t *testing.T) {
	db, repo := setupOperations(t)
	ctx := context.Background()
	tagIDs := createTags(t, db, "food", "card")

	ops := []*entity.Operation{
		newOp("2024-01-02", "BAKERY", "h1", -450),
		newOp("2024-01-03", "SALARY", "h2", 250000),
	}
	ops[0].TagIDs = []uint64{tagIDs[1], tagIDs[0]}

	require.NoError(t, repo.CreateBatch(ctx, ops))
	assert.NotZero(t, ops[0].ID)
	assert.Greater(t, ops[1].ID, ops[0].ID)

	got, err := repo.FindByID(ctx, ops[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "BAKERY", got.Details)
	assert.Equal(t, int64(-450), got.AmountInCents)
	assert.Equal(t, entity.StateOk, got.State)
	assert.Equal(t, []uint64{tagIDs[0], tagIDs[1]}, got.TagIDs)

	other, err := repo.FindByID(ctx, ops[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{}, other.TagIDs)
}

func TestOperationRepository_FindByIDNotFound(t *testing.T) {
	_, repo := setupOperations(t)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, errs.ErrOperationNotFound)
	assert.True(t, errs.IsNotFoundError(err))
}

func TestOperationRepository_FindAllOrdering(t *testing.T) {
	_, repo := setupOperations(t)
	ctx := context.Background()

	ops := []*entity.Operation{
		newOp("2024-01-01", "a", "h1", 1),
		newOp("2024-03-01", "b", "h2", 2),
		newOp("2024-03-01", "c", "h3", 3),
		newOp("2024-02-01", "d", "h4", 4),
	}
	require.NoError(t, repo.CreateBatch(ctx, ops))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)

	var details []string
	for _, op := range all {
		details = append(details, op.Details)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, details)
}

func TestOperationRepository_FindByStateOrdering(t *testing.T) {
	_, repo := setupOperations(t)
	ctx := context.Background()

	ops := []*entity.Operation{
		newOp("2024-01-01", "alpha", "dup", 1),
		newOp("2024-01-02", "zulu", "dup", 1),
		newOp("2024-01-03", "mike", "dup", 1),
		newOp("2024-01-04", "mike", "dup", 1),
		newOp("2024-01-05", "unique", "solo", 1),
	}
	require.NoError(t, repo.CreateBatch(ctx, ops))

	moved, err := repo.TransitionSharedHashes(ctx, entity.StatePendingTriage)
	require.NoError(t, err)
	assert.Equal(t, int64(4), moved)

	triage, err := repo.FindByState(ctx, entity.StatePendingTriage)
	require.NoError(t, err)
	require.Len(t, triage, 4)
	assert.Equal(t, "zulu", triage[0].Details)
	assert.Equal(t, ops[2].ID, triage[1].ID)
	assert.Equal(t, ops[3].ID, triage[2].ID)
	assert.Equal(t, "alpha", triage[3].Details)

	ok, err := repo.FindByState(ctx, entity.StateOk)
	require.NoError(t, err)
	require.Len(t, ok, 1)
	assert.Equal(t, "unique", ok[0].Details)
}

func TestOperationRepository_TransitionSharedHashesIsIdempotent(t *testing.T) {
	_, repo := setupOperations(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, []*entity.Operation{
		newOp("2024-01-01", "x", "h1", 1),
		newOp("2024-01-01", "x", "h1", 1),
		newOp("2024-01-01", "y", "h2", 1),
	}))

	moved, err := repo.TransitionSharedHashes(ctx, entity.StatePendingTriage)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	moved, err = repo.TransitionSharedHashes(ctx, entity.StatePendingTriage)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestOperationRepository_FindMixedHashGroups(t *testing.T) {
	_, repo := setupOperations(t)
	ctx := context.Background()

	ops := []*entity.Operation{
		newOp("2024-01-01", "x", "h1", 1),
		newOp("2024-01-01", "x", "h1", 1),
		newOp("2024-01-01", "y", "h2", 1),
		newOp("2024-01-01", "y", "h2", 1),
		newOp("2024-01-01", "z", "h3", 1),
	}
	require.NoError(t, repo.CreateBatch(ctx, ops))

	groups, err := repo.FindMixedHashGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = repo.TransitionSharedHashes(ctx, entity.StatePendingTriage)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateDetails(ctx, ops[0].ID, "x edited", entity.StateOk))

	groups, err = repo.FindMixedHashGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "h1", groups[0].Hash)
	assert.ElementsMatch(t, []entity.OperationState{entity.StateOk, entity.StatePendingTriage}, groups[0].States)
}

func TestOperationRepository_FindUntaggedAndAttachTags(t *testing.T) {
	db, repo := setupOperations(t)
	ctx := context.Background()
	tagIDs := createTags(t, db, "rent")

	ops := []*entity.Operation{
		newOp("2024-01-01", "RENT", "h1", -90000),
		newOp("2024-01-02", "COFFEE", "h2", -300),
	}
	require.NoError(t, repo.CreateBatch(ctx, ops))

	untagged, err := repo.FindUntagged(ctx)
	require.NoError(t, err)
	assert.Len(t, untagged, 2)

	added, err := repo.AttachTags(ctx, ops[0].ID, tagIDs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	added, err = repo.AttachTags(ctx, ops[0].ID, tagIDs)
	require.NoError(t, err)
	assert.Zero(t, added, "attaching an existing tag is a no-op")

	untagged, err = repo.FindUntagged(ctx)
	require.NoError(t, err)
	require.Len(t, untagged, 1)
	assert.Equal(t, ops[1].ID, untagged[0].ID)
}

func TestOperationRepository_UpdateDetails(t *testing.T) {
	_, repo := setupOperations(t)
	ctx := context.Background()

	ops := []*entity.Operation{newOp("2024-01-01", "old", "h1", -100)}
	require.NoError(t, repo.CreateBatch(ctx, ops))

	require.NoError(t, repo.UpdateDetails(ctx, ops[0].ID, "new", entity.StateOk))

	got, err := repo.FindByID(ctx, ops[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Details)
	assert.Equal(t, "h1", got.Hash)
	assert.Equal(t, int64(-100), got.AmountInCents)

	err = repo.UpdateDetails(ctx, 999, "nope", entity.StateOk)
	assert.ErrorIs(t, err, errs.ErrOperationNotFound)
}

func TestOperationRepository_Delete(t *testing.T) {
	db, repo := setupOperations(t)
	ctx := context.Background()
	tagIDs := createTags(t, db, "misc")

	ops := []*entity.Operation{newOp("2024-01-01", "gone", "h1", 1)}
	ops[0].TagIDs = tagIDs
	require.NoError(t, repo.CreateBatch(ctx, ops))

	require.NoError(t, repo.Delete(ctx, ops[0].ID))

	_, err := repo.FindByID(ctx, ops[0].ID)
	assert.ErrorIs(t, err, errs.ErrOperationNotFound)

	var links int64
	require.NoError(t, db.Table("operation_tags").Count(&links).Error)
	assert.Zero(t, links)

	assert.ErrorIs(t, repo.Delete(ctx, ops[0].ID), errs.ErrOperationNotFound)
}

func TestOperationRepository_UnknownStoredStateIsStorageFailure(t *testing.T) {
	db, repo := setupOperations(t)
	ctx := context.Background()

	ops := []*entity.Operation{newOp("2024-01-01", "x", "h1", 1)}
	require.NoError(t, repo.CreateBatch(ctx, ops))
	require.NoError(t, db.Exec("UPDATE operations SET state = 'Archived'").Error)

	_, err := repo.FindByID(ctx, ops[0].ID)
	assert.ErrorIs(t, err, errs.ErrStorageFailure)
}
