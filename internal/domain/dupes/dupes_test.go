package dupes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calipr/calipr/internal/ports"
)

// =============================================================================
// Duplicate Line Analysis — checksum grouping
// Expectation: lines group by whitespace-collapsed content, and output rows
// sort by content for repeatable diffs
// =============================================================================

func TestDupes_GroupsByCollapsedContent(t *testing.T) {
	a := New()
	require.NoError(t, a.AnalyzeLine("x = compute(a, b);", 1, false))
	require.NoError(t, a.AnalyzeLine("y = 2;", 2, false))
	require.NoError(t, a.AnalyzeLine("  x  =  compute(a, b);", 7, false))

	rows := a.Finish(ports.FileMeta{})
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "x = compute(a, b);", first[ports.DupeContent])
	assert.Equal(t, "2", first[ports.DupeCount])
	assert.Equal(t, "1,7", first[ports.DupeFileLines])
	assert.NotEmpty(t, first[ports.DupeCRC])

	assert.Equal(t, "y = 2;", rows[1][ports.DupeContent])
	assert.Equal(t, "1", rows[1][ports.DupeCount])
}

func TestDupes_SortIgnoresCase(t *testing.T) {
	a := New()
	require.NoError(t, a.AnalyzeLine("Zebra();", 1, false))
	require.NoError(t, a.AnalyzeLine("apple();", 2, false))

	rows := a.Finish(ports.FileMeta{})
	require.Len(t, rows, 2)
	assert.Equal(t, "apple();", rows[0][ports.DupeContent])
	assert.Equal(t, "Zebra();", rows[1][ports.DupeContent])
}

func TestDupes_EmptyFile(t *testing.T) {
	assert.Empty(t, New().Finish(ports.FileMeta{}))
}
