package entity

import (
	"fmt"
	"regexp"
	"strings"

	errs "github.com/ledgertriage/ledgertriage/internal/domain/error"
)

// RuleKind names the predicate a tag rule evaluates
type RuleKind string

// Supported predicate kinds
const (
	RuleDetailsContains RuleKind = "details_contains"
	RuleDetailsRegex    RuleKind = "details_regex"
	RuleTypeEquals      RuleKind = "type_equals"
	RuleAmountRange     RuleKind = "amount_range"
)

// TagRule attaches TagID to every operation its predicate matches
type TagRule struct {
	ID        uint64
	TagID     uint64
	Kind      RuleKind
	Value     string // Pattern for the details and type kinds
	AmountMin *int64 // Inclusive lower bound in cents, amount_range only
	AmountMax *int64 // Inclusive upper bound in cents, amount_range only
}

// Predicate is a compiled rule
type Predicate func(op *Operation) bool

// Compile turns the rule into a predicate, or reports why it can not be evaluated
func (r *TagRule) Compile() (Predicate, error) {
	malformed := func(reason string) error {
		return errs.NewMalformedRuleError(r.ID, string(r.Kind), reason)
	}

	switch r.Kind {
	case RuleDetailsContains:
		if r.Value == "" {
			return nil, malformed("value is required")
		}
		needle := strings.ToLower(r.Value)
		return func(op *Operation) bool {
			return strings.Contains(strings.ToLower(op.Details), needle)
		}, nil

	case RuleDetailsRegex:
		if r.Value == "" {
			return nil, malformed("value is required")
		}
		re, err := regexp.Compile(r.Value)
		if err != nil {
			return nil, malformed(fmt.Sprintf("invalid pattern: %s", err.Error()))
		}
		return func(op *Operation) bool {
			return re.MatchString(op.Details)
		}, nil

	case RuleTypeEquals:
		if r.Value == "" {
			return nil, malformed("value is required")
		}
		want := r.Value
		return func(op *Operation) bool {
			return op.Type == want
		}, nil

	case RuleAmountRange:
		if r.AmountMin == nil && r.AmountMax == nil {
			return nil, malformed("at least one of amount_min or amount_max is required")
		}
		if r.AmountMin != nil && r.AmountMax != nil && *r.AmountMin > *r.AmountMax {
			return nil, malformed("amount_min is greater than amount_max")
		}
		lo, hi := r.AmountMin, r.AmountMax
		return func(op *Operation) bool {
			if lo != nil && op.AmountInCents < *lo {
				return false
			}
			if hi != nil && op.AmountInCents > *hi {
				return false
			}
			return true
		}, nil

	default:
		return nil, malformed("unsupported predicate kind")
	}
}

// Validate reports a MalformedRule error when the rule can not be evaluated
func (r *TagRule) Validate() error {
	if r.TagID == 0 {
		return errs.NewMalformedRuleError(r.ID, string(r.Kind), "tag_id is required")
	}
	_, err := r.Compile()
	return err
}

// Matches evaluates the rule against op. Malformed rules never match.
func (r *TagRule) Matches(op *Operation) bool {
	pred, err := r.Compile()
	if err != nil {
		return false
	}
	return pred(op)
}
