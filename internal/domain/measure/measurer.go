package measure

import (
	"hash"
	"hash/adler32"
	"strconv"
	"strings"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/domain/search"
	"github.com/calipr/calipr/internal/ports"
)

// Config wires a Measurer. Strip removes string literal bodies (the
// classifier provides it) so keyword detectors are not fooled by string
// content. Inline may be nil when no inline markers are configured.
type Config struct {
	Patterns Patterns
	Strip    func(string) (string, error)
	Inline   ports.PhraseMatcher

	MeasureBlock int
	MachineBlock int
	ContentBlock int

	IncludeDeadCode    bool
	CommentsInclInline bool
	IncludeStrings     bool
	WriteEmpty         bool

	// MeasuringRoutines suppresses the per-file routine and decision
	// estimates; a routine analysis pass captures them more accurately.
	MeasuringRoutines bool

	// TemplateRules, when set, classifies comment lines matching the rules
	// as template lines instead of comments.
	TemplateRules *search.RuleSet
}

// Measurer accumulates the per-line measurements of one file into Counters.
// Only lines in the measure block are measured in detail; machine and
// content block lines are tallied by count alone. Not safe for concurrent
// use; create one per survey.
type Measurer struct {
	cfg    Config
	counts *Counters

	// Rolling CRCs: one over every raw line of the file, and one per block
	// over whitespace-collapsed measured lines. The per-block CRC is a
	// cheap near-duplicate signal that survives reformatting.
	fileCRC  hash.Hash32
	nbncCRC  []hash.Hash32
	sawBytes bool
}

// NewMeasurer builds a measurer writing into counts.
func NewMeasurer(cfg Config, counts *Counters) *Measurer {
	m := &Measurer{
		cfg:     cfg,
		counts:  counts,
		fileCRC: adler32.New(),
		nbncCRC: make([]hash.Hash32, counts.Blocks()),
	}
	for i := range m.nbncCRC {
		m.nbncCRC[i] = adler32.New()
	}
	return m
}

// RawLine feeds one raw buffer line into the file CRC. Runs for every line,
// including ones later skipped or split.
func (m *Measurer) RawLine(raw string) {
	if len(raw) > 0 {
		m.sawBytes = true
	}
	m.fileCRC.Write([]byte(raw))
}

// HasInline reports whether the stripped line carries an inline comment
// marker.
func (m *Measurer) HasInline(strippedLine string) bool {
	return m.cfg.Inline != nil && m.cfg.Inline.Contains(strippedLine)
}

// StripInlines chops the line at the leftmost inline comment marker. Lines
// already starting with '#' are left alone so shell-style comment lines are
// not mangled.
func (m *Measurer) StripInlines(line string) string {
	if m.cfg.Inline == nil || line == "" || line[0] == '#' {
		return line
	}
	if off, _ := m.cfg.Inline.First(line); off >= 0 {
		return line[:off]
	}
	return line
}

// MeasureLine captures the measurements for one classified, non-blank line.
func (m *Measurer) MeasureLine(line string, block int, onComment bool) error {
	if block != m.cfg.MeasureBlock {
		// Not the measured block; just track machine and content volume.
		switch block {
		case m.cfg.MachineBlock:
			m.counts.MeasureLines[m.cfg.MachineBlock]++
		case m.cfg.ContentBlock:
			m.counts.MeasureLines[m.cfg.ContentBlock]++
		}
		return nil
	}

	if onComment {
		return m.measureComment(line, block)
	}
	return m.measureCode(line, block)
}

// measureComment classifies a comment line further: template signature,
// commented-out code, or a plain comment.
func (m *Measurer) measureComment(line string, block int) error {
	if m.cfg.TemplateRules != nil {
		hit, err := m.cfg.TemplateRules.FirstMatch(line, false)
		if err != nil {
			return err
		}
		if hit != nil {
			m.counts.TemplateLines[block]++
			return nil
		}
	}
	if m.cfg.IncludeDeadCode {
		dead, err := rex.Matches(m.cfg.Patterns.DeadCode, line)
		if err != nil {
			return err
		}
		if dead {
			m.counts.DeadCode[block]++
			return nil
		}
	}
	m.counts.CommentLines[block]++
	return nil
}

func (m *Measurer) measureCode(line string, block int) error {
	strippedLine, err := m.cfg.Strip(line)
	if err != nil {
		return err
	}

	if m.HasInline(strippedLine) {
		m.counts.InlineComments[block]++
		strippedLine = m.StripInlines(strippedLine)
	}

	m.counts.MeasureLines[block]++
	m.nbncCRC[block].Write([]byte(collapseSpace(line)))

	m.counts.Semicolons[block] += strings.Count(strippedLine, ";")
	if ok, err := rex.Matches(m.cfg.Patterns.Imports, strippedLine); err != nil {
		return err
	} else if ok {
		m.counts.Imports[block]++
	}
	if ok, err := rex.Matches(m.cfg.Patterns.Classes, strippedLine); err != nil {
		return err
	} else if ok {
		m.counts.Classes[block]++
	}
	if ok, err := rex.Matches(m.cfg.Patterns.Preprocessor, strippedLine); err != nil {
		return err
	} else if ok {
		m.counts.Preprocessor[block]++
	}

	// Per-file routine and decision estimates are skipped while routines are
	// measured directly; the per-routine pass is more accurate.
	if !m.cfg.MeasuringRoutines {
		if ok, err := rex.Matches(m.cfg.Patterns.Routine, strippedLine); err != nil {
			return err
		} else if ok {
			m.counts.Routines[block]++
		}
		decisionLine := strippedLine
		if m.cfg.IncludeStrings {
			decisionLine = line
		}
		if ok, err := rex.Matches(m.cfg.Patterns.Decisions, decisionLine); err != nil {
			return err
		} else if ok {
			m.counts.Decisions[block]++
		}
	}
	return nil
}

// Results packages the file-level measures. Writing rules differ per
// measure: some always write, some write empty strings under the
// write-empty option so pivot-style column sets stay aligned, and some only
// ever write when positive.
func (m *Measurer) Results(meta ports.FileMeta) map[string]string {
	mb := m.cfg.MeasureBlock
	out := make(map[string]string, 24)

	totalLines := m.counts.SumTotal()
	out[ports.FileTotal] = strconv.Itoa(totalLines)

	rawLines := m.counts.SumRaw()
	if rawLines != totalLines {
		out[ports.FileRawTotal] = strconv.Itoa(rawLines)
	}
	if ignored := m.counts.SumSkipped(); ignored > 0 {
		out[ports.FileIgnored] = strconv.Itoa(ignored)
	}

	out[ports.FileBlankFaux] = strconv.Itoa(m.counts.SumFauxBlank())
	out[ports.FileBlankTrue] = strconv.Itoa(m.counts.SumTrueBlank())

	nbncLines := m.counts.MeasureLines[mb]
	out[ports.FileNBNC] = strconv.Itoa(nbncLines)
	out[ports.FileNBNCRank] = config.RankLabel(config.FileSizeRanks, float64(nbncLines))

	machineLines := m.counts.MeasureLines[m.cfg.MachineBlock]
	if mb == m.cfg.MachineBlock {
		machineLines = 0
	}
	if machineLines > 0 || m.cfg.WriteEmpty {
		out[ports.FileMachine] = emptyZero(machineLines)
	}
	contentLines := m.counts.MeasureLines[m.cfg.ContentBlock]
	if mb == m.cfg.ContentBlock {
		contentLines = 0
	}
	if contentLines > 0 || m.cfg.WriteEmpty {
		out[ports.FileContent] = emptyZero(contentLines)
		out[ports.FileCodeContent] = strconv.Itoa(contentLines + nbncLines)
	}

	out[ports.FileBlank] = strconv.Itoa(
		m.counts.FauxBlankLines[mb] + m.counts.TrueBlankLines[mb])

	commentLines := m.counts.CommentLines[mb]
	inline := m.counts.InlineComments[mb]
	if m.cfg.CommentsInclInline {
		commentLines += inline
	}
	out[ports.FileComment] = strconv.Itoa(commentLines)
	if inline > 0 || m.cfg.WriteEmpty {
		out[ports.NBNCInlineComments] = emptyZero(inline)
	}

	// Comment density ranks on the code-to-comment ratio, so a LOWER ratio
	// means denser commenting.
	commentRatio := 0.0
	if commentLines > 0 {
		commentRatio = float64(nbncLines) / float64(commentLines)
	}
	out[ports.FileCommentRank] = config.RankLabel(config.CommentDensityRanks, commentRatio)

	if dead := m.counts.DeadCode[mb]; dead > 0 || m.cfg.WriteEmpty {
		out[ports.FileDead] = emptyZero(dead)
	}

	// Bytes per NBNC line, only for files that are mostly measured code.
	if meta.SizeBytes > 0 && nbncLines > 0 &&
		nbncLines > machineLines && nbncLines > contentLines {
		ratio := float64(meta.SizeBytes) / float64(nbncLines)
		out[ports.NBNCByteRatio] = strconv.FormatFloat(ratio, 'g', -1, 64)
	}

	// The rest only write when found, regardless of the write-empty option.
	if n := m.counts.Semicolons[mb]; n > 0 {
		out[ports.NBNCSemicolons] = strconv.Itoa(n)
	}
	if n := m.counts.Preprocessor[mb]; n > 0 {
		out[ports.NBNCPreprocessor] = strconv.Itoa(n)
	}
	if n := m.counts.TemplateLines[mb]; n > 0 {
		out[ports.FileTemplate] = strconv.Itoa(n)
	}
	if nbncLines > 0 {
		out[ports.NBNCCRC] = strconv.FormatUint(uint64(m.nbncCRC[mb].Sum32()), 10)
	}
	if m.sawBytes {
		out[ports.FileCRC] = strconv.FormatUint(uint64(m.fileCRC.Sum32()), 10)
	}
	if n := m.counts.Imports[mb]; n > 0 {
		out[ports.NBNCImports] = strconv.Itoa(n)
		out[ports.NBNCImportRank] = config.RankLabel(config.ImportRanks, float64(n))
	}
	if n := m.counts.Decisions[mb]; n > 0 {
		out[ports.NBNCDecisions] = strconv.Itoa(n)
	}
	if n := m.counts.Routines[mb]; n > 0 {
		out[ports.NBNCRoutines] = strconv.Itoa(n)
	}
	if n := m.counts.Classes[mb]; n > 0 {
		out[ports.NBNCClasses] = strconv.Itoa(n)
	}
	return out
}

func emptyZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// collapseSpace reduces whitespace runs to single spaces so the per-block
// CRC is stable across indentation-only edits.
func collapseSpace(line string) string {
	return strings.Join(strings.Fields(line), " ")
}
