// Package rex wraps regexp2 compilation and matching for the engine. The
// default pattern tables rely on negative lookahead (for example the
// single-line comment detector excluding preprocessor forms of '#'), which
// the standard library regexp cannot express.
//
// Every compiled pattern carries a match timeout. Backtracking engines can
// degenerate on pathological lines; together with the per-line length cap in
// the survey loop this bounds worst-case cost, and a timeout surfaces as a
// per-line error instead of a hang.
package rex

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single regex evaluation.
const MatchTimeout = 250 * time.Millisecond

// Compile builds a pattern with the engine's default flags. Patterns are
// case-insensitive unless caseSensitive is set, matching the original
// measurement semantics.
func Compile(pattern string, caseSensitive bool) (*regexp2.Regexp, error) {
	opts := regexp2.None
	if !caseSensitive {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}

// MustCompile is Compile for default tables known to be valid.
func MustCompile(pattern string, caseSensitive bool) *regexp2.Regexp {
	re, err := Compile(pattern, caseSensitive)
	if err != nil {
		panic(err)
	}
	return re
}

// Search returns the first match of re anywhere in s, or nil.
func Search(re *regexp2.Regexp, s string) (*regexp2.Match, error) {
	m, err := re.FindStringMatch(s)
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", re.String(), err)
	}
	return m, nil
}

// Matches reports whether re matches anywhere in s.
func Matches(re *regexp2.Regexp, s string) (bool, error) {
	ok, err := re.MatchString(s)
	if err != nil {
		return false, fmt.Errorf("match %q: %w", re.String(), err)
	}
	return ok, nil
}

// ReplaceAll removes or rewrites every match of re in s.
func ReplaceAll(re *regexp2.Regexp, s, replacement string) (string, error) {
	out, err := re.Replace(s, replacement, -1, -1)
	if err != nil {
		return "", fmt.Errorf("replace %q: %w", re.String(), err)
	}
	return out, nil
}

// Group returns the text of a named capture from a match, or "" when the
// group did not participate.
func Group(m *regexp2.Match, name string) string {
	if m == nil {
		return ""
	}
	g := m.GroupByName(name)
	if g == nil {
		return ""
	}
	return g.String()
}
