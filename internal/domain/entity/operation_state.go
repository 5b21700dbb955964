package entity

import (
	"fmt"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// OperationState is the triage state of an operation.
// The set is closed: unknown values can not be constructed from storage.
type OperationState uint8

// Operation states
const (
	StateOk OperationState = iota
	StatePendingTriage
)

// StateEncodingVersion identifies the textual form written to storage.
// Version 1 uses the literals "Ok" and "PendingTriage".
const StateEncodingVersion = 1

var stateNames = map[OperationState]string{
	StateOk:            "Ok",
	StatePendingTriage: "PendingTriage",
}

// String returns the v1 textual encoding of the state
func (s OperationState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OperationState(%d)", uint8(s))
}

// IsValid reports whether s is one of the known states
func (s OperationState) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}

// ParseOperationState decodes a v1 textual state
func ParseOperationState(text string) (OperationState, error) {
	for state, name := range stateNames {
		if name == text {
			return state, nil
		}
	}
	return StateOk, fmt.Errorf("%w: %q", errs.ErrInvalidState, text)
}

// MarshalText implements encoding.TextMarshaler
func (s OperationState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidState, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *OperationState) UnmarshalText(text []byte) error {
	state, err := ParseOperationState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// TriageEvent is something that happened to an operation and may move its state
type TriageEvent uint8

// Triage events
const (
	// EventCollisionDetected fires when the operation's hash is shared with another stored operation
	EventCollisionDetected TriageEvent = iota + 1
	// EventEditedByUser fires when the user edits the operation's details
	EventEditedByUser
)

// String returns a readable name for logs
func (e TriageEvent) String() string {
	switch e {
	case EventCollisionDetected:
		return "collision_detected"
	case EventEditedByUser:
		return "edited_by_user"
	default:
		return fmt.Sprintf("TriageEvent(%d)", uint8(e))
	}
}

// Apply returns the state reached from s after event e.
//
//	Ok            + CollisionDetected -> PendingTriage
//	PendingTriage + CollisionDetected -> PendingTriage
//	any           + EditedByUser      -> Ok
//
// Unknown events leave the state unchanged.
func (s OperationState) Apply(e TriageEvent) OperationState {
	switch e {
	case EventCollisionDetected:
		return StatePendingTriage
	case EventEditedByUser:
		return StateOk
	default:
		return s
	}
}
