package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/ports"
)

// =============================================================================
// File Measurer — conditional measure writing
// Expectation: headline measures always write, volume measures write when
// positive (or empty under the write-empty option), and detector counts only
// write when found
// =============================================================================

func newMeasurer(t *testing.T, cfg Config) (*Measurer, *Counters) {
	t.Helper()
	if cfg.Patterns == (Patterns{}) {
		p, err := BuildPatterns(config.Defaults())
		require.NoError(t, err)
		cfg.Patterns = p
	}
	if cfg.Strip == nil {
		cfg.Strip = func(s string) (string, error) { return s, nil }
	}
	cfg.MachineBlock = config.BlockMachine
	cfg.ContentBlock = config.BlockContent
	counts := NewCounters(3)
	return NewMeasurer(cfg, counts), counts
}

func TestResults_EmptyFileStillWritesHeadlineSet(t *testing.T) {
	m, _ := newMeasurer(t, Config{})
	out := m.Results(ports.FileMeta{})

	assert.Equal(t, "0", out[ports.FileTotal])
	assert.Equal(t, "0", out[ports.FileNBNC])
	assert.Equal(t, "0", out[ports.FileComment])
	assert.Equal(t, "0", out[ports.FileBlank])
	assert.NotContains(t, out, ports.FileCRC)
	assert.NotContains(t, out, ports.FileMachine)
	assert.NotContains(t, out, ports.NBNCImports)
}

func TestResults_WriteEmptyKeepsColumnsAligned(t *testing.T) {
	m, _ := newMeasurer(t, Config{WriteEmpty: true})
	out := m.Results(ports.FileMeta{})

	// Present but empty, so every file emits the same column set.
	assert.Contains(t, out, ports.FileMachine)
	assert.Equal(t, "", out[ports.FileMachine])
	assert.Contains(t, out, ports.FileContent)
	assert.Contains(t, out, ports.FileDead)
	assert.Contains(t, out, ports.NBNCInlineComments)

	// Detector counts never write empty.
	assert.NotContains(t, out, ports.NBNCImports)
	assert.NotContains(t, out, ports.NBNCSemicolons)
}

func TestResults_MachineAndContentVolumes(t *testing.T) {
	m, counts := newMeasurer(t, Config{})
	counts.TotalLines[0] = 4
	counts.RawLines[0] = 4
	require.NoError(t, m.MeasureLine("x = 1;", 0, false))
	require.NoError(t, m.MeasureLine("gen1();", config.BlockMachine, false))
	require.NoError(t, m.MeasureLine("gen2();", config.BlockMachine, false))
	require.NoError(t, m.MeasureLine("<p>hello</p>", config.BlockContent, false))

	out := m.Results(ports.FileMeta{})
	assert.Equal(t, "1", out[ports.FileNBNC])
	assert.Equal(t, "2", out[ports.FileMachine])
	assert.Equal(t, "1", out[ports.FileContent])
	assert.Equal(t, "2", out[ports.FileCodeContent])
}

func TestResults_ByteRatioOnlyForCodeHeavyFiles(t *testing.T) {
	m, _ := newMeasurer(t, Config{})
	require.NoError(t, m.MeasureLine("a = 1;", 0, false))
	require.NoError(t, m.MeasureLine("b = 2;", 0, false))

	out := m.Results(ports.FileMeta{SizeBytes: 14})
	assert.Equal(t, "7", out[ports.NBNCByteRatio])

	// Mostly machine output: no ratio.
	m, _ = newMeasurer(t, Config{})
	require.NoError(t, m.MeasureLine("a = 1;", 0, false))
	require.NoError(t, m.MeasureLine("gen1();", config.BlockMachine, false))
	require.NoError(t, m.MeasureLine("gen2();", config.BlockMachine, false))
	out = m.Results(ports.FileMeta{SizeBytes: 21})
	assert.NotContains(t, out, ports.NBNCByteRatio)
}

func TestStripInlines_HashLinesUntouched(t *testing.T) {
	// Matcher-free config: stripping is a no-op.
	m, _ := newMeasurer(t, Config{})
	assert.Equal(t, "x // y", m.StripInlines("x // y"))
	assert.False(t, m.HasInline("x // y"))
}
