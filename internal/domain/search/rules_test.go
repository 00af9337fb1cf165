package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Search Rules — positive/negative rule sets
// Expectation: expressions parse with their prefix, positive order decides
// which rule reports a line, and any negative match vetoes the line
// =============================================================================

func TestParse_Prefixes(t *testing.T) {
	rs, err := Parse([]string{
		"plain",
		"POSITIVE__explicit",
		"NEGATIVE__vetoed",
	}, false)
	require.NoError(t, err)

	require.Len(t, rs.Positive, 2)
	require.Len(t, rs.Negative, 1)
	assert.Equal(t, "plain", rs.Positive[0].Key)
	assert.Equal(t, "POSITIVE__explicit", rs.Positive[1].Key)
	assert.Equal(t, "NEGATIVE__vetoed", rs.Negative[0].Key)
	assert.False(t, rs.Empty())
}

func TestParse_BadExpression(t *testing.T) {
	_, err := Parse([]string{"(unclosed"}, false)
	assert.Error(t, err)
}

func TestParse_KeyCollapsesWhitespace(t *testing.T) {
	rs, err := Parse([]string{"a  b\tc"}, false)
	require.NoError(t, err)
	assert.Equal(t, "a b c", rs.Positive[0].Key)
}

func TestEmpty(t *testing.T) {
	assert.True(t, (*RuleSet)(nil).Empty())

	rs, err := Parse(nil, false)
	require.NoError(t, err)
	assert.True(t, rs.Empty())

	rs, err = Parse([]string{"NEGATIVE__only"}, false)
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}

func TestFirstMatch_PositiveOrder(t *testing.T) {
	rs, err := Parse([]string{"ab?", "abc"}, false)
	require.NoError(t, err)

	m, err := rs.FirstMatch("xx abc xx", false)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "ab?", m.Rule.Key)
	assert.Equal(t, "ab", m.Found.String())
	assert.Equal(t, 1, rs.Positive[0].Hits)
	assert.Equal(t, 0, rs.Positive[1].Hits)
}

func TestFirstMatch_NegativeVeto(t *testing.T) {
	rs, err := Parse([]string{"open", "NEGATIVE__reopen"}, false)
	require.NoError(t, err)

	m, err := rs.FirstMatch("please reopen the ticket", false)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = rs.FirstMatch("open the ticket", false)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestFirstMatch_NegativeFirstSameAnswer(t *testing.T) {
	rs, err := Parse([]string{"open", "NEGATIVE__reopen"}, false)
	require.NoError(t, err)

	m, err := rs.FirstMatch("please reopen the ticket", true)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = rs.FirstMatch("open the ticket", true)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestFirstMatch_CaseSensitivity(t *testing.T) {
	rs, err := Parse([]string{"Error"}, false)
	require.NoError(t, err)
	m, err := rs.FirstMatch("an ERROR happened", false)
	require.NoError(t, err)
	assert.NotNil(t, m)

	rs, err = Parse([]string{"Error"}, true)
	require.NoError(t, err)
	m, err = rs.FirstMatch("an ERROR happened", false)
	require.NoError(t, err)
	assert.Nil(t, m)
}
