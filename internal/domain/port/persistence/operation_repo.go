package persistence

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// HashGroup is the set of triage states found among operations sharing a hash
type HashGroup struct {
	Hash   string
	States []entity.OperationState
}

// OperationRepository defines storage access for operations
type OperationRepository interface {
	// CreateBatch stores the operations and their tag associations, assigning IDs in place
	//
	// Possible errors:
	// - ErrStorageFailure: If the database rejects the write
	CreateBatch(ctx context.Context, operations []*entity.Operation) error

	// FindAll returns every operation, date descending then id ascending
	FindAll(ctx context.Context) ([]*entity.Operation, error)

	// FindByID returns one operation
	//
	// Possible errors:
	// - ErrOperationNotFound: If no operation has the id
	// - ErrStorageFailure: If the database read fails
	FindByID(ctx context.Context, id uint64) (*entity.Operation, error)

	// FindByState returns operations in state, details descending then id ascending
	FindByState(ctx context.Context, state entity.OperationState) ([]*entity.Operation, error)

	// FindUntagged returns operations without any tag association, id ascending
	FindUntagged(ctx context.Context) ([]*entity.Operation, error)

	// Delete removes an operation and its tag associations
	//
	// Possible errors:
	// - ErrOperationNotFound: If no operation has the id
	// - ErrStorageFailure: If the database write fails
	Delete(ctx context.Context, id uint64) error

	// UpdateDetails rewrites details and state of one operation
	//
	// Possible errors:
	// - ErrOperationNotFound: If no operation has the id
	// - ErrStorageFailure: If the database write fails
	UpdateDetails(ctx context.Context, id uint64, details string, state entity.OperationState) error

	// TransitionSharedHashes moves every operation whose hash is shared by more
	// than one stored operation, and whose state is not already to, into to.
	// Returns the number of rows changed.
	TransitionSharedHashes(ctx context.Context, to entity.OperationState) (int64, error)

	// FindMixedHashGroups returns the shared-hash groups whose members disagree on state
	FindMixedHashGroups(ctx context.Context) ([]HashGroup, error)

	// AttachTags associates tags with an operation, ignoring existing associations.
	// Returns the number of new associations.
	AttachTags(ctx context.Context, operationID uint64, tagIDs []uint64) (int64, error)
}
