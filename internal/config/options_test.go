package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Option Registry — named tunable application
// Expectation: every OPT name maps to a typed setter, bad values fail at
// application time, and names are case-insensitive
// =============================================================================

func TestApply_UnknownOption(t *testing.T) {
	o := Defaults()
	err := o.Apply("NO_SUCH_OPTION", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_SUCH_OPTION")
}

func TestApply_IntOption(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply("MAX_LINE_LENGTH", "100"))
	assert.Equal(t, 100, o.MaxLineLength)

	assert.Error(t, o.Apply("MAX_LINE_LENGTH", "not-a-number"))
}

func TestApply_RegexOptionValidatesEagerly(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply("COMMENT_LINE", `^\s*%`))
	assert.Equal(t, `^\s*%`, o.SingleComment)

	assert.Error(t, o.Apply("COMMENT_LINE", "(unclosed"))
	// The failed application must not clobber the previous value.
	assert.Equal(t, `^\s*%`, o.SingleComment)
}

func TestApply_FlagOptions(t *testing.T) {
	o := Defaults()
	require.True(t, o.IncludeDeadCode)
	require.NoError(t, o.Apply("DEADCODE_NONE", ""))
	assert.False(t, o.IncludeDeadCode)

	require.NoError(t, o.Apply("MACHINE_MEASURE", ""))
	assert.Equal(t, o.MachineBlock, o.MeasureBlock)
}

func TestApply_NameCaseInsensitive(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply("  max_line_length ", "80"))
	assert.Equal(t, 80, o.MaxLineLength)
}

func TestApply_DetectorPairs(t *testing.T) {
	o := Defaults()
	base := len(o.Detectors[o.MachineBlock])

	require.NoError(t, o.Apply("MACHINE_ADD_DETECT", `begin-gen :: end-gen`))
	require.Len(t, o.Detectors[o.MachineBlock], base+1)
	added := o.Detectors[o.MachineBlock][base]
	assert.Equal(t, "begin-gen", added.Start)
	assert.Equal(t, "end-gen", added.End)

	// No end: the block runs to EOF.
	require.NoError(t, o.Apply("MACHINE_DETECTORS", `generated-file`))
	require.Len(t, o.Detectors[o.MachineBlock], 1)
	assert.Equal(t, "", o.Detectors[o.MachineBlock][0].End)

	assert.Error(t, o.Apply("MACHINE_ADD_DETECT", " :: end-only"))
	assert.Error(t, o.Apply("MACHINE_ADD_DETECT", "(bad :: fine"))
}

func TestApply_InlineMarkers(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply("INLINE", "--, ;"))
	assert.Equal(t, []string{"--", ";"}, o.InlineMarkers)

	require.NoError(t, o.Apply("INLINE_INCL_QUOTE", ""))
	assert.Equal(t, []string{"--", ";", "'"}, o.InlineMarkers)
}

func TestApply_PythonTripleComments(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply("PYTHON_TRIPLE_COMMENTS", ""))
	assert.False(t, o.StripBeforeComments)
	assert.Equal(t, `^\s*#`, o.SingleComment)
	assert.Equal(t, `("""|''')`, o.MultiOpen)
}

func TestClone_IsDeep(t *testing.T) {
	o := Defaults()
	c := o.Clone()

	c.InlineMarkers[0] = "??"
	c.Detectors[BlockMachine] = append(c.Detectors[BlockMachine], DetectorPair{Start: "x"})

	assert.Equal(t, "//", o.InlineMarkers[0])
	assert.Len(t, o.Detectors[BlockMachine], len(DefaultMachineDetectors()))
}

func TestOptionHelp_CoversRegistry(t *testing.T) {
	help := OptionHelp()
	assert.Len(t, help, len(optionRegistry))
	for name, text := range help {
		assert.NotEmpty(t, text, "option %s has no help", name)
	}
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "1 to 200", RankLabel(FileSizeRanks, 0))
	assert.Equal(t, "1 to 200", RankLabel(FileSizeRanks, 200))
	assert.Equal(t, "201 to 600", RankLabel(FileSizeRanks, 201))
	assert.Equal(t, "1800+", RankLabel(FileSizeRanks, 1e9))
	assert.Equal(t, "", RankLabel(nil, 1))
}
