package entity

import (
	"sort"
	"strings"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// Operation is one imported bank transaction
type Operation struct {
	ID                uint64         // Store-assigned identifier, zero until inserted
	Date              string         // Operation date as supplied by the importer
	Type              string         // Machine code of the operation type
	TypeDisplay       string         // Human readable type
	Details           string         // Free-text description, editable by the user
	AmountInCents     int64          // Signed amount in cents
	Hash              string         // Content hash computed upstream, never changed by the core
	State             OperationState // Triage state
	IgnoredFromCharts bool           // Excluded from charting
	BankAccountID     uint64         // Owning bank account
	TagIDs            []uint64       // Attached tags, sorted ascending
}

// Validate checks the fields required for an operation to be stored.
// index is the position of the record in its batch and appears in the error.
func (o *Operation) Validate(index int) error {
	switch {
	case strings.TrimSpace(o.Date) == "":
		return errs.NewOperationError(index, "date", "is required", errs.ErrInvalidOperation)
	case strings.TrimSpace(o.Type) == "":
		return errs.NewOperationError(index, "type", "is required", errs.ErrInvalidOperation)
	case strings.TrimSpace(o.Hash) == "":
		return errs.NewOperationError(index, "hash", "is required", errs.ErrInvalidOperation)
	case o.BankAccountID == 0:
		return errs.NewOperationError(index, "bank_account_id", "is required", errs.ErrInvalidOperation)
	}
	return nil
}

// IsPendingTriage reports whether the operation waits for user review
func (o *Operation) IsPendingTriage() bool {
	return o.State == StatePendingTriage
}

// FormattedAmount returns the amount with two decimal places
func (o *Operation) FormattedAmount() string {
	return FormatCents(o.AmountInCents)
}

// HasTag reports whether tagID is attached to the operation
func (o *Operation) HasTag(tagID uint64) bool {
	for _, id := range o.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// NormalizeTagIDs removes duplicates from ids and sorts them ascending
func NormalizeTagIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return []uint64{}
	}

	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
