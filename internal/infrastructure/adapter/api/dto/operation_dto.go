package dto

import (
	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// OperationRequest is one imported operation. The amount is given either in
// cents or as a decimal string; cents win when both are present.
type OperationRequest struct {
	Date              string   `json:"date"`
	Type              string   `json:"type"`
	TypeDisplay       string   `json:"type_display"`
	Details           string   `json:"details"`
	AmountInCents     *int64   `json:"amount_in_cents"`
	Amount            string   `json:"amount"`
	Hash              string   `json:"hash"`
	IgnoredFromCharts bool     `json:"ignored_from_charts"`
	BankAccountID     uint64   `json:"bank_account_id"`
	TagsIDs           []uint64 `json:"tags_ids"`
}

// OperationBatchRequest is the body of the batch insert and import endpoints
type OperationBatchRequest struct {
	Operations []OperationRequest `json:"operations" binding:"required"`
}

// ToEntities converts the batch to domain operations
func (r *OperationBatchRequest) ToEntities() ([]*entity.Operation, error) {
	ops := make([]*entity.Operation, 0, len(r.Operations))
	for i := range r.Operations {
		req := &r.Operations[i]

		var cents int64
		switch {
		case req.AmountInCents != nil:
			cents = *req.AmountInCents
		case req.Amount != "":
			parsed, err := entity.ParseAmountToCents(req.Amount)
			if err != nil {
				return nil, errs.NewOperationError(i, "amount", "is not a valid decimal", err)
			}
			cents = parsed
		default:
			return nil, errs.NewOperationError(i, "amount", "is required", errs.ErrInvalidAmount)
		}

		ops = append(ops, &entity.Operation{
			Date:              req.Date,
			Type:              req.Type,
			TypeDisplay:       req.TypeDisplay,
			Details:           req.Details,
			AmountInCents:     cents,
			Hash:              req.Hash,
			IgnoredFromCharts: req.IgnoredFromCharts,
			BankAccountID:     req.BankAccountID,
			TagIDs:            req.TagsIDs,
		})
	}
	return ops, nil
}

// UpdateDetailsRequest is the body of the resolve-via-edit endpoint
type UpdateDetailsRequest struct {
	Details *string `json:"details" binding:"required"`
}

// OperationResponse represents a stored operation
type OperationResponse struct {
	ID                uint64   `json:"id"`
	Date              string   `json:"date"`
	Type              string   `json:"type"`
	TypeDisplay       string   `json:"type_display"`
	Details           string   `json:"details"`
	AmountInCents     int64    `json:"amount_in_cents"`
	Amount            string   `json:"amount"`
	Hash              string   `json:"hash"`
	State             string   `json:"state"`
	IgnoredFromCharts bool     `json:"ignored_from_charts"`
	BankAccountID     uint64   `json:"bank_account_id"`
	TagsIDs           []uint64 `json:"tags_ids"`
}

// NewOperationResponse converts a domain operation
func NewOperationResponse(op *entity.Operation) OperationResponse {
	tags := op.TagIDs
	if tags == nil {
		tags = []uint64{}
	}
	return OperationResponse{
		ID:                op.ID,
		Date:              op.Date,
		Type:              op.Type,
		TypeDisplay:       op.TypeDisplay,
		Details:           op.Details,
		AmountInCents:     op.AmountInCents,
		Amount:            op.FormattedAmount(),
		Hash:              op.Hash,
		State:             op.State.String(),
		IgnoredFromCharts: op.IgnoredFromCharts,
		BankAccountID:     op.BankAccountID,
		TagsIDs:           tags,
	}
}

// NewOperationListResponse converts a list of domain operations
func NewOperationListResponse(ops []*entity.Operation) []OperationResponse {
	out := make([]OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, NewOperationResponse(op))
	}
	return out
}

// InsertResponse reports a batch insert
type InsertResponse struct {
	Inserted int `json:"inserted"`
}

// ImportResponse reports an import run
type ImportResponse struct {
	Inserted int `json:"inserted"`
	Flagged  int `json:"flagged"`
	Tagged   int `json:"tagged"`
}

// CollisionResponse reports a collision detection run
type CollisionResponse struct {
	Flagged int `json:"flagged"`
}

// TaggedResponse reports a rule application run
type TaggedResponse struct {
	Tagged int `json:"tagged"`
}
