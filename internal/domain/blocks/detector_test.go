package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calipr/calipr/internal/config"
)

// =============================================================================
// Block Detector — machine/content region state machine
// Expectation: start patterns open a block, end patterns (or EOF) close it,
// blocks never nest, and a block opening and closing on one line reverts on
// the next
// =============================================================================

func defaultDetector(t *testing.T) *Detector {
	t.Helper()
	table, err := BuildTable(config.Defaults())
	require.NoError(t, err)
	return NewDetector(table, "", "")
}

func TestDetect_GeneratedRegion(t *testing.T) {
	d := defaultDetector(t)

	changed, old, err := d.Detect("int x;", 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, config.BlockHumanCode, d.Active())

	changed, old, err = d.Detect("#region Designer generated code", 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, config.BlockHumanCode, old)
	assert.Equal(t, config.BlockMachine, d.Active())

	changed, _, err = d.Detect("this.Size = new Size(0, 0);", 3)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, config.BlockMachine, d.Active())

	changed, old, err = d.Detect("#endregion", 4)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, config.BlockMachine, old)
	assert.Equal(t, config.BlockHumanCode, d.Active())

	events := d.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Old: 0, New: 1, Line: 2}, events[0])
	assert.Equal(t, Event{Old: 1, New: 0, Line: 4}, events[1])
}

func TestDetect_BlockWithoutEndRunsToEOF(t *testing.T) {
	d := defaultDetector(t)

	changed, _, err := d.Detect("// do not edit this file", 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, config.BlockMachine, d.Active())

	// Nothing closes it.
	for i, line := range []string{"#endregion", "int x;", "}"} {
		_, _, err := d.Detect(line, i+2)
		require.NoError(t, err)
		assert.Equal(t, config.BlockMachine, d.Active())
	}
}

func TestDetect_SingleLineBlockReverts(t *testing.T) {
	d := defaultDetector(t)

	changed, _, err := d.Detect("#region generated endregion", 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, config.BlockMachine, d.Active())

	changed, old, err := d.Detect("int x;", 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, config.BlockMachine, old)
	assert.Equal(t, config.BlockHumanCode, d.Active())
}

func TestDetect_IgnoreAndStopPhrases(t *testing.T) {
	table, err := BuildTable(config.Defaults())
	require.NoError(t, err)

	d := NewDetector(table, "KEEP", "")
	_, _, err = d.Detect("// do not edit (KEEP surveying)", 1)
	require.NoError(t, err)
	assert.Equal(t, config.BlockHumanCode, d.Active())

	d = NewDetector(table, "", "NO-BLOCKS")
	_, _, err = d.Detect("// NO-BLOCKS in this file", 1)
	require.NoError(t, err)
	_, _, err = d.Detect("// do not edit this file", 2)
	require.NoError(t, err)
	assert.Equal(t, config.BlockHumanCode, d.Active())
}
