package tagging

import (
	"github.com/ledgertriage/ledgertriage/internal/domain/entity"
)

type compiledRule struct {
	tagID     uint64
	predicate entity.Predicate
}

// Matcher evaluates a fixed set of tag rules against operations.
// Rules that fail to compile are kept aside and never match.
type Matcher struct {
	rules   []compiledRule
	skipped []*entity.TagRule
}

// NewMatcher compiles rules once for repeated matching
func NewMatcher(rules []*entity.TagRule) *Matcher {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		predicate, err := rule.Compile()
		if err != nil {
			m.skipped = append(m.skipped, rule)
			continue
		}
		m.rules = append(m.rules, compiledRule{tagID: rule.TagID, predicate: predicate})
	}
	return m
}

// Match returns the tag ids of every rule whose predicate holds for op
func (m *Matcher) Match(op *entity.Operation) entity.TagSet {
	set := entity.TagSet{}
	if op == nil {
		return set
	}
	for _, rule := range m.rules {
		if rule.predicate(op) {
			set.Add(rule.tagID)
		}
	}
	return set
}

// Skipped returns the rules that could not be compiled
func (m *Matcher) Skipped() []*entity.TagRule {
	return m.skipped
}

// Match is the stateless form of Matcher.Match. It reads op and rules without
// modifying them and its result does not depend on the order of rules.
func Match(op *entity.Operation, rules []*entity.TagRule) entity.TagSet {
	return NewMatcher(rules).Match(op)
}
