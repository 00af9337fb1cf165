// Package search evaluates ordered positive/negative regex rule lists
// against lines. A line matches when some positive rule matches and no
// negative rule does. Shared by the search verb, template-line matching, and
// routine-start detection (which checks negatives first).
package search

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/domain/rex"
)

// Rule prefixes in config parameters marking an expression as positive or
// negative. Expressions with no prefix are positive.
const (
	PositivePrefix = "POSITIVE__"
	NegativePrefix = "NEGATIVE__"
)

// Rule is one compiled search expression. Hits is mutated in place as lines
// match, an observable side effect that feeds rule-usage reporting.
type Rule struct {
	Key  string // the raw expression, whitespace collapsed
	Re   *regexp2.Regexp
	Hits int
}

// RuleSet holds positive and negative rules in declaration order. Positive
// order matters (first match wins); negative order does not.
type RuleSet struct {
	Positive []*Rule
	Negative []*Rule
}

// Parse compiles raw parameter expressions into a rule set, honoring the
// positive/negative prefixes. Bad expressions fail here, at configuration
// time.
func Parse(params []string, caseSensitive bool) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, raw := range params {
		expr := strings.TrimSpace(raw)
		positive := true
		if strings.HasPrefix(expr, NegativePrefix) {
			positive = false
			expr = expr[len(NegativePrefix):]
		} else if strings.HasPrefix(expr, PositivePrefix) {
			expr = expr[len(PositivePrefix):]
		}
		re, err := rex.Compile(expr, caseSensitive)
		if err != nil {
			return nil, err
		}
		rule := &Rule{Key: strings.Join(strings.Fields(raw), " "), Re: re}
		if positive {
			rs.Positive = append(rs.Positive, rule)
		} else {
			rs.Negative = append(rs.Negative, rule)
		}
	}
	return rs, nil
}

// Empty reports whether no positive rules exist.
func (rs *RuleSet) Empty() bool {
	return rs == nil || len(rs.Positive) == 0
}

// Match is a qualifying hit: the rule that fired and its match.
type Match struct {
	Rule  *Rule
	Found *regexp2.Match
}

// FirstMatch returns the first positive rule matching target with no
// negative rule matching, or nil. With negativeFirst, negatives short-circuit
// before any positive is evaluated (for many rule sets this is faster, and
// it is the mode routine-start detection uses).
func (rs *RuleSet) FirstMatch(target string, negativeFirst bool) (*Match, error) {
	if negativeFirst {
		neg, err := rs.negativeMatch(target)
		if err != nil || neg {
			return nil, err
		}
		return rs.positiveMatch(target)
	}
	m, err := rs.positiveMatch(target)
	if err != nil || m == nil {
		return nil, err
	}
	neg, err := rs.negativeMatch(target)
	if err != nil || neg {
		return nil, err
	}
	return m, nil
}

func (rs *RuleSet) positiveMatch(target string) (*Match, error) {
	for _, rule := range rs.Positive {
		found, err := rex.Search(rule.Re, target)
		if err != nil {
			return nil, err
		}
		if found != nil {
			rule.Hits++
			return &Match{Rule: rule, Found: found}, nil
		}
	}
	return nil, nil
}

func (rs *RuleSet) negativeMatch(target string) (bool, error) {
	for _, rule := range rs.Negative {
		found, err := rex.Search(rule.Re, target)
		if err != nil {
			return false, err
		}
		if found != nil {
			rule.Hits++
			return true, nil
		}
	}
	return false, nil
}
