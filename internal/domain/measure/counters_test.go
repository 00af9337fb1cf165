package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Per-Block Counters — tallies behind every file measure
// Expectation: counters track each block independently and the sums roll up
// across blocks
// =============================================================================

func TestCounters_PerBlockAndSums(t *testing.T) {
	c := NewCounters(3)
	assert.Equal(t, 3, c.Blocks())

	c.RawLines[0] = 5
	c.RawLines[1] = 2
	c.RawLines[2] = 1
	assert.Equal(t, 8, c.SumRaw())

	c.TotalLines[0] = 5
	c.TotalLines[2] = 3
	assert.Equal(t, 8, c.SumTotal())

	c.FauxBlankLines[1] = 2
	c.TrueBlankLines[0] = 1
	assert.Equal(t, 2, c.SumFauxBlank())
	assert.Equal(t, 1, c.SumTrueBlank())
	assert.Equal(t, 0, c.SumSkipped())
}
