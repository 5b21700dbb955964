package operation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
	"github.com/ledgertriage/ledgertriage/internal/domain/usecase/operation"
	"github.com/ledgertriage/ledgertriage/internal/domain/usecase/tagging"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/database"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
)

type stack struct {
	operations *operation.Service
	tagging    *tagging.Service
}

func newStack(t *testing.T) *stack {
	t.Helper()

	manager := database.NewTestManager(t)
	uow := manager.CreateUnitOfWork()
	log := logger.NewNoopLogger()
	tagger := tagging.NewTaggingService(uow, log)

	return &stack{
		operations: operation.NewOperationService(uow, tagger, log),
		tagging:    tagger,
	}
}

func stored(date, details, hash string, cents int64) *entity.Operation {
	return &entity.Operation{
		Date:          date,
		Type:          "CB",
		TypeDisplay:   "Card",
		Details:       details,
		AmountInCents: cents,
		Hash:          hash,
		BankAccountID: 1,
	}
}

func statesByID(t *testing.T, s *stack) map[uint64]entity.OperationState {
	t.Helper()

	all, err := s.operations.FindAll(context.Background())
	require.NoError(t, err)

	states := make(map[uint64]entity.OperationState, len(all))
	for _, op := range all {
		states[op.ID] = op.State
	}
	return states
}

func TestCollisionThenEdit(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	first := stored("2024-03-02", "CARD 1234 BAKERY", "h1", -420)
	second := stored("2024-03-02", "CARD 1234 BAKERY", "h1", -420)
	unique := stored("2024-03-01", "SALARY", "h2", 250000)

	inserted, err := s.operations.InsertBatch(ctx, []*entity.Operation{first, second, unique})
	require.NoError(t, err)
	require.Equal(t, 3, inserted)

	flagged, err := s.operations.DetectCollisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, flagged)

	states := statesByID(t, s)
	assert.Equal(t, entity.StatePendingTriage, states[first.ID])
	assert.Equal(t, entity.StatePendingTriage, states[second.ID])
	assert.Equal(t, entity.StateOk, states[unique.ID])

	triage, err := s.operations.FindTriage(ctx)
	require.NoError(t, err)
	assert.Len(t, triage, 2)

	// A second run with no writes in between changes nothing
	flagged, err = s.operations.DetectCollisions(ctx)
	require.NoError(t, err)
	assert.Zero(t, flagged)

	resolved, err := s.operations.ResolveViaEdit(ctx, first.ID, "CARD 1234 BAKERY (croissants)")
	require.NoError(t, err)
	assert.Equal(t, entity.StateOk, resolved.State)
	assert.Equal(t, "h1", resolved.Hash)
	assert.Equal(t, int64(-420), resolved.AmountInCents)

	states = statesByID(t, s)
	assert.Equal(t, entity.StateOk, states[first.ID])
	assert.Equal(t, entity.StatePendingTriage, states[second.ID])

	triage, err = s.operations.FindTriage(ctx)
	require.NoError(t, err)
	require.Len(t, triage, 1)
	assert.Equal(t, second.ID, triage[0].ID)
}

func TestUniqueHashStaysOk(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	op := stored("2024-03-01", "SALARY", "h2", 250000)
	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{op})
	require.NoError(t, err)

	flagged, err := s.operations.DetectCollisions(ctx)
	require.NoError(t, err)
	assert.Zero(t, flagged)

	got, err := s.operations.FindByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateOk, got.State)
}

func TestCollisionAcrossBatches(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	older := stored("2024-02-01", "TRANSFER", "dup", -1000)
	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{older})
	require.NoError(t, err)

	_, err = s.operations.DetectCollisions(ctx)
	require.NoError(t, err)

	result, err := s.operations.Import(ctx, []*entity.Operation{stored("2024-02-01", "TRANSFER", "dup", -1000)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 2, result.Flagged)

	got, err := s.operations.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePendingTriage, got.State)
}

func TestDeleteKeepsPartnerInTriage(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	first := stored("2024-03-02", "BAKERY", "h1", -420)
	second := stored("2024-03-02", "BAKERY", "h1", -420)
	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{first, second})
	require.NoError(t, err)
	_, err = s.operations.DetectCollisions(ctx)
	require.NoError(t, err)

	require.NoError(t, s.operations.Delete(ctx, first.ID))

	_, err = s.operations.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, errs.ErrOperationNotFound)

	got, err := s.operations.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePendingTriage, got.State)
}

func TestInvalidBatchCommitsNothing(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	bad := stored("2024-03-01", "NO HASH", "", -1)
	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{stored("2024-03-01", "OK", "h", -1), bad})
	require.ErrorIs(t, err, errs.ErrInvalidOperation)
	assert.Contains(t, err.Error(), "#1")

	all, err := s.operations.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUnknownTagRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	op := stored("2024-03-01", "RENT", "h", -90000)
	op.TagIDs = []uint64{42}

	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{op})
	require.ErrorIs(t, err, errs.ErrTagNotFound)
	assert.Zero(t, op.ID)

	all, err := s.operations.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRentRule(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	tag, err := s.tagging.SaveTag(ctx, &entity.Tag{Name: "Housing", Color: "#aa3300"})
	require.NoError(t, err)

	_, err = s.tagging.SaveTagRule(ctx, &entity.TagRule{
		TagID: tag.ID,
		Kind:  entity.RuleDetailsContains,
		Value: "rent",
	})
	require.NoError(t, err)

	rent := stored("2024-03-05", "MONTHLY RENT PAYMENT", "rent-1", -90000)
	groceries := stored("2024-03-04", "GROCERIES", "groc-1", -5630)

	result, err := s.operations.Import(ctx, []*entity.Operation{rent, groceries})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Zero(t, result.Flagged)
	assert.Equal(t, 1, result.Tagged)

	got, err := s.operations.FindByID(ctx, rent.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{tag.ID}, got.TagIDs)

	got, err = s.operations.FindByID(ctx, groceries.ID)
	require.NoError(t, err)
	assert.Empty(t, got.TagIDs)

	// Retagging is additive and does not duplicate associations
	attached, err := s.tagging.RetagAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, attached)
}

func TestFindAllOrdering(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	a := stored("2024-01-01", "A", "a", 1)
	b := stored("2024-03-01", "B", "b", 2)
	c := stored("2024-03-01", "C", "c", 3)
	_, err := s.operations.InsertBatch(ctx, []*entity.Operation{a, b, c})
	require.NoError(t, err)

	all, err := s.operations.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint64{b.ID, c.ID, a.ID}, []uint64{all[0].ID, all[1].ID, all[2].ID})
}
