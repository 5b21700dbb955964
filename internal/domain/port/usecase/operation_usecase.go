package usecase

import (
	"context"

	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

// ImportResult summarizes one import run
type ImportResult struct {
	Inserted int // Operations stored
	Flagged  int // Operations moved to PendingTriage by collision detection
	Tagged   int // New tag associations created by rule matching
}

// OperationUseCase defines the operation store, collision detection and triage workflow
type OperationUseCase interface {
	// InsertBatch stores operations atomically, all in state Ok. Returns the count inserted.
	InsertBatch(ctx context.Context, operations []*entity.Operation) (int, error)

	// FindAll returns every operation, most recent date first
	FindAll(ctx context.Context) ([]*entity.Operation, error)

	// FindByID returns one operation
	FindByID(ctx context.Context, id uint64) (*entity.Operation, error)

	// FindTriage returns the operations waiting for review, details descending
	FindTriage(ctx context.Context) ([]*entity.Operation, error)

	// Delete removes an operation. Collision detection is not re-run.
	Delete(ctx context.Context, id uint64) error

	// ResolveViaEdit replaces the details of an operation and marks it reviewed
	ResolveViaEdit(ctx context.Context, id uint64, details string) (*entity.Operation, error)

	// DetectCollisions flags every operation sharing its hash. Returns the count transitioned.
	DetectCollisions(ctx context.Context) (int, error)

	// Import inserts, detects collisions and tags untagged operations
	Import(ctx context.Context, operations []*entity.Operation) (*ImportResult, error)
}
