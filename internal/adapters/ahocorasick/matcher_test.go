package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Aho-Corasick Marker Matcher — inline comment marker detection
// Expectation: one pass over a line finds all configured marker substrings;
// First returns the leftmost occurrence for inline comment stripping
// =============================================================================

func TestMatcher_Contains(t *testing.T) {
	m := New([]string{"//", "/*"})

	assert.True(t, m.Contains(`x := 1 // counter`))
	assert.True(t, m.Contains(`x := 1 /* counter */`))
	assert.False(t, m.Contains(`x := 1`))
	assert.False(t, m.Contains(``))
}

func TestMatcher_First_LeftmostWins(t *testing.T) {
	m := New([]string{"//", "/*"})

	off, pat := m.First(`a /* b */ // c`)
	assert.Equal(t, 2, off)
	assert.Equal(t, "/*", m.Pattern(pat))

	off, pat = m.First(`a // b /* c */`)
	assert.Equal(t, 2, off)
	assert.Equal(t, "//", m.Pattern(pat))
}

func TestMatcher_First_NoMatch(t *testing.T) {
	m := New([]string{"//", "/*"})

	off, pat := m.First("plain code line")
	assert.Equal(t, -1, off)
	assert.Equal(t, -1, pat)
}

func TestMatcher_SingleQuoteMarker(t *testing.T) {
	// The INLINE_INCL_QUOTE option adds a bare quote as a marker.
	m := New([]string{"//", "/*", "'"})

	off, pat := m.First(`Dim x ' VB comment`)
	assert.Equal(t, 6, off)
	assert.Equal(t, "'", m.Pattern(pat))
}

func TestMatcher_EmptyPatternList(t *testing.T) {
	assert.Nil(t, New(nil))
	assert.Nil(t, New([]string{}))
}

func TestMatcher_PatternIndexBounds(t *testing.T) {
	m := New([]string{"//"})

	assert.Equal(t, "//", m.Pattern(0))
	assert.Equal(t, "", m.Pattern(-1))
	assert.Equal(t, "", m.Pattern(5))
}
