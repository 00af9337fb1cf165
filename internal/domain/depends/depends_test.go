package depends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/ports"
)

// =============================================================================
// Dependency Analysis — import statement extraction
// Expectation: lines matching the import detector group by collapsed
// statement text; everything else is ignored
// =============================================================================

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(rex.MustCompile(config.DefaultImports, false))
}

func TestDepends_CollectsImports(t *testing.T) {
	a := newAnalyzer(t)
	require.NoError(t, a.AnalyzeLine("#include <stdio.h>", 1, false))
	require.NoError(t, a.AnalyzeLine("x = 1;", 2, false))
	require.NoError(t, a.AnalyzeLine("import os", 3, false))
	require.NoError(t, a.AnalyzeLine("  #include   <stdio.h>", 9, false))

	rows := a.Finish(ports.FileMeta{})
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "#include <stdio.h>", first[ports.DependUsing])
	assert.Equal(t, "2", first[ports.DependCount])
	assert.Equal(t, "1,9", first[ports.DependFileLines])

	assert.Equal(t, "import os", rows[1][ports.DependUsing])
	assert.Equal(t, "1", rows[1][ports.DependCount])
}

func TestDepends_NoImports(t *testing.T) {
	a := newAnalyzer(t)
	require.NoError(t, a.AnalyzeLine("x = 1;", 1, false))
	assert.Empty(t, a.Finish(ports.FileMeta{}))
}
