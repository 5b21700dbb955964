package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidOperation    = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidTag          = 4003
	CodeInvalidBankAccount  = 4004
	CodeConstraintViolation = 4005
	CodeInvalidRequest      = 4006
	CodeOperationNotFound   = 4040
	CodeTagNotFound         = 4041
	CodeTagRuleNotFound     = 4042
	CodeBankAccountNotFound = 4043
	CodeNotFound            = 4049
	CodeConflict            = 4090
	CodeMalformedRule       = 4220

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeStorageFailure = 5030
)

// Base error types
var (
	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrOperationNotFound is returned when no operation has the requested id
	ErrOperationNotFound = fmt.Errorf("operation %w", ErrNotFound)

	// ErrTagNotFound is returned when a tag id does not exist
	ErrTagNotFound = fmt.Errorf("tag %w", ErrNotFound)

	// ErrTagRuleNotFound is returned when a tag rule id does not exist
	ErrTagRuleNotFound = fmt.Errorf("tag rule %w", ErrNotFound)

	// ErrBankAccountNotFound is returned when a bank account id does not exist
	ErrBankAccountNotFound = fmt.Errorf("bank account %w", ErrNotFound)

	// ErrInvalidOperation is returned when an operation misses a required field
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidAmount is returned when an amount cannot be read as an exact decimal
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrInvalidTag is returned when tag data is invalid
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidBankAccount is returned when bank account data is invalid
	ErrInvalidBankAccount = errors.New("invalid bank account")

	// ErrInvalidState is returned when a stored state discriminant is unknown
	ErrInvalidState = errors.New("invalid operation state")

	// ErrMalformedRule is returned when a tag rule predicate cannot be evaluated
	ErrMalformedRule = errors.New("malformed tag rule")

	// ErrConflict is returned when a hash group would be left in a mixed triage state
	ErrConflict = errors.New("triage invariant violation")

	// ErrStorageFailure is returned when the persistence layer could not complete a unit of work
	ErrStorageFailure = errors.New("storage failure")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrOperationNotFound):
		return CodeOperationNotFound
	case errors.Is(err, ErrTagNotFound):
		return CodeTagNotFound
	case errors.Is(err, ErrTagRuleNotFound):
		return CodeTagRuleNotFound
	case errors.Is(err, ErrBankAccountNotFound):
		return CodeBankAccountNotFound
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidOperation):
		return CodeInvalidOperation
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidTag):
		return CodeInvalidTag
	case errors.Is(err, ErrInvalidBankAccount):
		return CodeInvalidBankAccount
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrMalformedRule):
		return CodeMalformedRule
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrStorageFailure):
		return CodeStorageFailure
	default:
		return CodeInternalServer
	}
}

// MalformedRuleError describes why a tag rule predicate was rejected
type MalformedRuleError struct {
	RuleID uint64
	Kind   string
	Reason string
}

// Error implements the error interface
func (e *MalformedRuleError) Error() string {
	if e.RuleID == 0 {
		return fmt.Sprintf("malformed tag rule (kind %q): %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("malformed tag rule %d (kind %q): %s", e.RuleID, e.Kind, e.Reason)
}

// Is checks if the target error is an ErrMalformedRule
func (e *MalformedRuleError) Is(target error) bool {
	return target == ErrMalformedRule
}

// LogFields returns a map of fields for structured logging
func (e *MalformedRuleError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "malformed_rule",
		"rule_id":    e.RuleID,
		"kind":       e.Kind,
		"reason":     e.Reason,
		"error_code": CodeMalformedRule,
	}
}

// NewMalformedRuleError creates a new detailed malformed rule error
func NewMalformedRuleError(ruleID uint64, kind, reason string) error {
	return &MalformedRuleError{
		RuleID: ruleID,
		Kind:   kind,
		Reason: reason,
	}
}

// CollisionGroupError reports a hash group whose members disagree on triage state
type CollisionGroupError struct {
	Hash   string
	States []string
}

// Error implements the error interface
func (e *CollisionGroupError) Error() string {
	return fmt.Sprintf("hash group %q left in mixed state [%s]", e.Hash, strings.Join(e.States, ", "))
}

// Is checks if the target error is an ErrConflict
func (e *CollisionGroupError) Is(target error) bool {
	return target == ErrConflict
}

// LogFields returns a map of fields for structured logging
func (e *CollisionGroupError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "collision_group",
		"hash":       e.Hash,
		"states":     e.States,
		"error_code": CodeConflict,
	}
}

// NewCollisionGroupError creates a new mixed hash group error
func NewCollisionGroupError(hash string, states []string) error {
	return &CollisionGroupError{
		Hash:   hash,
		States: states,
	}
}

// OperationError wraps a validation failure of one record inside a batch
type OperationError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return fmt.Sprintf("operation #%d: %s %s: %v", e.Index, e.Field, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *OperationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "operation_error",
		"index":      e.Index,
		"field":      e.Field,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewOperationError creates a new detailed batch record error
func NewOperationError(index int, field, reason string, err error) error {
	return &OperationError{
		Index:  index,
		Field:  field,
		Reason: reason,
		Err:    err,
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformedRuleError checks if the error is a rejected tag rule
func IsMalformedRuleError(err error) bool {
	return errors.Is(err, ErrMalformedRule)
}

// IsConflictError checks if the error is a triage invariant violation
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsStorageFailure checks if the error came from the persistence layer
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// IsValidationError checks if the error was caused by invalid client input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrInvalidBankAccount) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrConstraintViolation)
}
