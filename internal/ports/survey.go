// Package ports defines the interfaces (contracts) between the measurement
// engine, its adapters, and the scheduler. Domain logic depends only on these
// interfaces, never on concrete implementations.
package ports

// Row is one ordered output record: a routine, a search hit, or an
// analyze-module result. Keys are the dotted names from names.go.
type Row map[string]string

// SurveyResult carries everything one file survey produced. Measures is the
// flat scalar mapping (file.*, nbnc.*); Rows are the ordered per-routine or
// per-hit records. Values are already formatted for output: counts as
// decimal strings, ranks as bucket labels, CRCs as unsigned decimal strings.
// An absent key means the measure did not apply to this file.
type SurveyResult struct {
	Measures map[string]string
	Rows     []Row

	// LineErrors collects per-line failures skipped under CONTINUE_ON_ERROR.
	LineErrors []error
}

// FileMeta describes the file a survey is running over. Lines are fed
// separately; SizeBytes feeds the nbnc.byteRatio measure.
type FileMeta struct {
	Path      string
	SizeBytes int64
}
