package ports

// LineAnalyzer is a pluggable per-line analysis module for the analyze verb
// (duplicate line detection, dependency extraction). One instance serves one
// file survey; implementations carry per-file state.
type LineAnalyzer interface {
	// Name identifies the module in logs and reports.
	Name() string

	// AnalyzeLine receives each measured, non-blank line of the measure
	// block that passes the comment scope filters. lineNum is 1-based over
	// raw file lines.
	AnalyzeLine(line string, lineNum int, onComment bool) error

	// Finish returns the module's output rows, sorted for repeatability.
	Finish(meta FileMeta) []Row
}
