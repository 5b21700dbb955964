package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"OperationNotFound", ErrOperationNotFound, CodeOperationNotFound},
		{"TagNotFound", ErrTagNotFound, CodeTagNotFound},
		{"TagRuleNotFound", ErrTagRuleNotFound, CodeTagRuleNotFound},
		{"BankAccountNotFound", ErrBankAccountNotFound, CodeBankAccountNotFound},
		{"NotFound", ErrNotFound, CodeNotFound},
		{"InvalidOperation", ErrInvalidOperation, CodeInvalidOperation},
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"InvalidTag", ErrInvalidTag, CodeInvalidTag},
		{"InvalidBankAccount", ErrInvalidBankAccount, CodeInvalidBankAccount},
		{"MalformedRule", ErrMalformedRule, CodeMalformedRule},
		{"Conflict", ErrConflict, CodeConflict},
		{"StorageFailure", ErrStorageFailure, CodeStorageFailure},
		{"WrappedStorageFailure", fmt.Errorf("%w: disk I/O error", ErrStorageFailure), CodeStorageFailure},
		{"TypedMalformedRule", NewMalformedRuleError(3, "nope", "unsupported kind"), CodeMalformedRule},
		{"TypedCollisionGroup", NewCollisionGroupError("h1", []string{"Ok", "PendingTriage"}), CodeConflict},
		{"Unknown", errors.New("boom"), CodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := ErrorCode(tt.err); code != tt.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestNotFoundFamily(t *testing.T) {
	for _, err := range []error{ErrOperationNotFound, ErrTagNotFound, ErrTagRuleNotFound, ErrBankAccountNotFound} {
		if !IsNotFoundError(err) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}

	if IsNotFoundError(ErrConflict) {
		t.Errorf("IsNotFoundError(ErrConflict) = true, want false")
	}

	wrapped := fmt.Errorf("load operation 7: %w", ErrOperationNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Errorf("errors.Is(wrapped, ErrNotFound) = false, want true")
	}
}

func TestMalformedRuleError(t *testing.T) {
	err := NewMalformedRuleError(12, "details_regex", "regex does not compile")
	if err == nil {
		t.Fatal("NewMalformedRuleError returned nil")
	}

	expectedErrMsg := `malformed tag rule 12 (kind "details_regex"): regex does not compile`
	if err.Error() != expectedErrMsg {
		t.Errorf("MalformedRuleError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !IsMalformedRuleError(err) {
		t.Errorf("IsMalformedRuleError(err) = false, want true")
	}

	var ruleErr *MalformedRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("errors.As failed: not a *MalformedRuleError")
	}
	if ruleErr.LogFields()["rule_id"] != uint64(12) {
		t.Errorf("LogFields()[rule_id] = %v, want 12", ruleErr.LogFields()["rule_id"])
	}

	unsaved := NewMalformedRuleError(0, "weird", "unsupported predicate kind")
	expectedUnsaved := `malformed tag rule (kind "weird"): unsupported predicate kind`
	if unsaved.Error() != expectedUnsaved {
		t.Errorf("MalformedRuleError.Error() = %s, want %s", unsaved.Error(), expectedUnsaved)
	}
}

func TestCollisionGroupError(t *testing.T) {
	err := NewCollisionGroupError("abc", []string{"Ok", "PendingTriage"})

	expectedErrMsg := `hash group "abc" left in mixed state [Ok, PendingTriage]`
	if err.Error() != expectedErrMsg {
		t.Errorf("CollisionGroupError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !IsConflictError(err) {
		t.Errorf("IsConflictError(err) = false, want true")
	}

	if IsConflictError(ErrStorageFailure) {
		t.Errorf("IsConflictError(ErrStorageFailure) = true, want false")
	}
}

func TestOperationError(t *testing.T) {
	err := NewOperationError(2, "hash", "is required", ErrInvalidOperation)

	expectedErrMsg := "operation #2: hash is required: invalid operation"
	if err.Error() != expectedErrMsg {
		t.Errorf("OperationError.Error() = %s, want %s", err.Error(), expectedErrMsg)
	}

	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("errors.Is(err, ErrInvalidOperation) = false, want true")
	}

	if !IsValidationError(err) {
		t.Errorf("IsValidationError(err) = false, want true")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("errors.As failed: not a *OperationError")
	}
	if opErr.LogFields()["error_code"] != CodeInvalidOperation {
		t.Errorf("LogFields()[error_code] = %v, want %d", opErr.LogFields()["error_code"], CodeInvalidOperation)
	}
}

func TestErrorHelperFunctions(t *testing.T) {
	if IsStorageFailure(ErrInvalidTag) {
		t.Errorf("IsStorageFailure(ErrInvalidTag) = true, want false")
	}

	wrappedStorage := fmt.Errorf("%w: database is locked", ErrStorageFailure)
	if !IsStorageFailure(wrappedStorage) {
		t.Errorf("IsStorageFailure(wrappedStorage) = false, want true")
	}

	if IsValidationError(ErrStorageFailure) {
		t.Errorf("IsValidationError(ErrStorageFailure) = true, want false")
	}

	if !IsValidationError(fmt.Errorf("%w: name is required", ErrInvalidTag)) {
		t.Errorf("IsValidationError(wrapped ErrInvalidTag) = false, want true")
	}
}
