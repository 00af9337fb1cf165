package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calipr/calipr/presets"
)

// =============================================================================
// Language Presets — embedded preset loading and extension resolution
// Expectation: the built-in preset table loads, claims extensions uniquely,
// and falls back to the default preset for unknown file types
// =============================================================================

func loadBuiltin(t *testing.T) *Presets {
	t.Helper()
	ps, err := LoadPresets(presets.FS, "v1")
	require.NoError(t, err)
	return ps
}

func TestLoadPresets_Builtin(t *testing.T) {
	ps := loadBuiltin(t)
	assert.Equal(t, []string{"default", "delphi", "python", "web"}, ps.Names())
	require.NotNil(t, ps.ByName("default"))
	assert.Nil(t, ps.ByName("cobol"))
}

func TestForExtension(t *testing.T) {
	ps := loadBuiltin(t)

	p, claimed := ps.ForExtension(".py")
	assert.True(t, claimed)
	assert.Equal(t, "python", p.Name)

	// Extension matching ignores case.
	p, claimed = ps.ForExtension(".PY")
	assert.True(t, claimed)
	assert.Equal(t, "python", p.Name)

	p, claimed = ps.ForExtension(".xyz")
	assert.False(t, claimed)
	assert.Equal(t, "default", p.Name)
}

func TestBuildOptions_AppliesPreset(t *testing.T) {
	ps := loadBuiltin(t)

	opts, err := ps.BuildOptions("python")
	require.NoError(t, err)
	assert.Equal(t, `^\s*#`, opts.SingleComment)
	assert.False(t, opts.StripBeforeComments)

	opts, err = ps.BuildOptions("web")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.MeasureBlock)
	assert.Equal(t, 0, opts.ContentBlock)
	assert.NotEmpty(t, opts.Detectors[2])

	_, err = ps.BuildOptions("cobol")
	assert.Error(t, err)
}

func TestBuildOptions_DoesNotShareState(t *testing.T) {
	ps := loadBuiltin(t)

	a, err := ps.BuildOptions("default")
	require.NoError(t, err)
	b, err := ps.BuildOptions("default")
	require.NoError(t, err)

	a.InlineMarkers[0] = "??"
	assert.Equal(t, "//", b.InlineMarkers[0])
}

func TestLoadPresets_DuplicateExtension(t *testing.T) {
	fsys := fstest.MapFS{
		"v1/a.yaml": {Data: []byte("name: default\nextensions: ['.x']\n")},
		"v1/b.yaml": {Data: []byte("name: other\nextensions: ['.x']\n")},
	}
	_, err := LoadPresets(fsys, "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `".x"`)
}

func TestLoadPresets_RequiresDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"v1/a.yaml": {Data: []byte("name: solo\nextensions: ['.x']\n")},
	}
	_, err := LoadPresets(fsys, "v1")
	assert.Error(t, err)
}

func TestLoadPresets_BadOptionRejectedAtLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"v1/a.yaml": {Data: []byte(
			"name: default\noptions:\n  - name: COMMENT_LINE\n    value: '(unclosed'\n")},
	}
	_, err := LoadPresets(fsys, "v1")
	assert.Error(t, err)
}

func TestLoadPresets_UnnamedPreset(t *testing.T) {
	fsys := fstest.MapFS{
		"v1/a.yaml": {Data: []byte("extensions: ['.x']\n")},
	}
	_, err := LoadPresets(fsys, "v1")
	assert.Error(t, err)
}
