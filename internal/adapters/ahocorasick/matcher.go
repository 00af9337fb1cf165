// Package ahocorasick implements the inline comment marker matcher with an
// Aho-Corasick automaton. One pass over a line finds every marker at once,
// which matters because this runs on every measured code line.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/calipr/calipr/internal/ports"
)

// Matcher is an immutable compiled marker set. A changed marker list means
// building a new matcher.
type Matcher struct {
	automaton aho.AhoCorasick
	patterns  []string
}

var _ ports.PhraseMatcher = (*Matcher)(nil)

// New compiles an automaton over the given marker substrings. Returns nil
// for an empty list; callers treat a nil matcher as "no markers".
func New(patterns []string) *Matcher {
	if len(patterns) == 0 {
		return nil
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		MatchKind: aho.LeftMostFirstMatch,
		DFA:       true,
	})
	p := make([]string, len(patterns))
	copy(p, patterns)
	return &Matcher{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Contains reports whether any marker occurs in line.
func (m *Matcher) Contains(line string) bool {
	iter := m.automaton.Iter(line)
	return iter.Next() != nil
}

// First returns the byte offset and pattern index of the leftmost marker in
// line, or (-1, -1) when none match.
func (m *Matcher) First(line string) (offset, pattern int) {
	iter := m.automaton.Iter(line)
	hit := iter.Next()
	if hit == nil {
		return -1, -1
	}
	return (*hit).Start(), (*hit).Pattern()
}

// Pattern returns the marker string at the given index.
func (m *Matcher) Pattern(idx int) string {
	if idx < 0 || idx >= len(m.patterns) {
		return ""
	}
	return m.patterns[idx]
}
