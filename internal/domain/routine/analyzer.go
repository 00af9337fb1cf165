// Package routine implements per-routine measurement. Routine starts are
// found with configured rule sets (or a default signature regex); a routine
// is assumed to run until the next start or a block transition, and
// complexity is approximated by counting decision, case, escape, and boolean
// keywords on its lines.
package routine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/measure"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/domain/search"
	"github.com/calipr/calipr/internal/ports"
)

// Names used when a line group has no detected routine start.
const (
	ungroupedName = "(ungrouped file lines)"
	noMeasureName = "(no measure)"
)

// record tracks the routine currently being scanned.
type record struct {
	Name       string
	ConfigRe   string
	FullRe     string
	Line       string
	LineNum    int
	LineCol    int
	LineIndent int

	Decisions int
	Booleans  int
	Cases     int
	Escapes   int
	MaxIndent int
}

// Config wires an Analyzer. Strip and StripInlines come from the classifier
// and measurer so keyword counting ignores string and inline-comment
// content.
type Config struct {
	Patterns     measure.Patterns
	Rules        *search.RuleSet // empty: fall back to the default signature
	Strip        func(string) (string, error)
	StripInlines func(string) string

	MeasureBlock int

	AvgIndent int // spaces per nesting level
	IgnoreCol int // ignore indent-based starts past this column, 0 disables

	InclFileLines bool
	SpanBlocks    bool
	SingleLine    bool
	OutputSingle  bool
	WriteEmpty    bool

	IncludeStrings bool

	InclCases    bool
	InclEscapes  bool
	InclBooleans bool
}

// Analyzer accumulates routine rows for one file survey. Not safe for
// concurrent use.
type Analyzer struct {
	cfg    Config
	counts *measure.Counters

	current       record
	prevLineStart bool
	foundFirst    bool

	nbncAtLast     []int
	commentsAtLast []int

	rows []ports.Row
}

// NewAnalyzer builds an analyzer writing routine tallies into counts.
func NewAnalyzer(cfg Config, counts *measure.Counters) *Analyzer {
	a := &Analyzer{
		cfg:            cfg,
		counts:         counts,
		nbncAtLast:     make([]int, counts.Blocks()),
		commentsAtLast: make([]int, counts.Blocks()),
	}
	a.reset()
	return a
}

func (a *Analyzer) reset() {
	a.current = record{Name: ungroupedName}
}

// Rows returns the routine records saved so far, in file order.
func (a *Analyzer) Rows() []ports.Row { return a.rows }

// detectStart looks for a routine start on the raw line. Negative rules are
// checked first; for most rule sets that is the faster order.
func (a *Analyzer) detectStart(line string) (name, configRe, fullRe string, ok bool, err error) {
	if !a.cfg.Rules.Empty() {
		m, err := a.cfg.Rules.FirstMatch(line, true)
		if err != nil || m == nil {
			return "", "", "", false, err
		}
		return m.Found.String(), m.Rule.Key, m.Rule.Re.String(), true, nil
	}
	m, err := rex.Search(a.cfg.Patterns.Routine, line)
	if err != nil || m == nil {
		return "", "", "", false, err
	}
	p := a.cfg.Patterns.Routine.String()
	return m.String(), p, p, true, nil
}

// detectIndentStart reports a routine boundary inferred from the line
// returning to (or above) the indent column of the current routine's start.
func (a *Analyzer) detectIndentStart(indentDepth int) bool {
	return indentDepth != 0 &&
		a.cfg.IgnoreCol != 0 && indentDepth <= a.cfg.IgnoreCol &&
		indentDepth <= a.current.LineCol
}

// routineEnded decides whether this line closes the current routine.
// Consecutive start lines coalesce into one signature unless each start line
// counts as its own routine.
func (a *Analyzer) routineEnded(line string, started bool, indentDepth int) bool {
	ended := started || a.detectIndentStart(indentDepth)
	if ended && !a.cfg.SingleLine && a.prevLineStart {
		a.current.Line += line
		ended = false
	}
	a.prevLineStart = ended
	return ended
}

// AnalyzeLine processes one non-comment code line of the measured block.
func (a *Analyzer) AnalyzeLine(line string, block int) error {
	expanded := strings.ReplaceAll(line, "\t", strings.Repeat(" ", a.cfg.AvgIndent))
	indentDepth := len(expanded) - len(strings.TrimLeft(expanded, " "))
	nestingApprox := indentDepth / a.cfg.AvgIndent
	routineNest := nestingApprox - a.current.LineIndent

	strippedLine, err := a.cfg.Strip(line)
	if err != nil {
		return err
	}
	strippedLine = a.cfg.StripInlines(strippedLine)

	name, configRe, fullRe, started, err := a.detectStart(line)
	if err != nil {
		return err
	}
	if a.routineEnded(line, started, indentDepth) {
		if err := a.save(block); err != nil {
			return err
		}
		a.foundFirst = true
		a.reset()

		a.current.Line = line
		a.current.LineNum = a.counts.SumRaw()
		a.current.LineCol = indentDepth
		a.current.LineIndent = nestingApprox
		if started {
			a.current.Name = name
			a.current.ConfigRe = configRe
			a.current.FullRe = fullRe
			a.counts.Routines[block]++
		}
	}

	complexLine := strippedLine
	if a.cfg.IncludeStrings {
		complexLine = line
	}
	if ok, err := rex.Matches(a.cfg.Patterns.Decisions, complexLine); err != nil {
		return err
	} else if ok {
		a.counts.Decisions[block]++
		a.current.Decisions++
		if routineNest > a.current.MaxIndent {
			a.current.MaxIndent = routineNest
		}
	}
	if ok, err := rex.Matches(a.cfg.Patterns.Escapes, complexLine); err != nil {
		return err
	} else if ok {
		a.current.Escapes++
	}
	if ok, err := rex.Matches(a.cfg.Patterns.Cases, complexLine); err != nil {
		return err
	} else if ok {
		a.current.Cases++
	}
	if ok, err := rex.Matches(a.cfg.Patterns.Booleans, complexLine); err != nil {
		return err
	} else if ok {
		a.current.Booleans++
	}
	return nil
}

// BlockChange closes the current routine at a block boundary. Routines are
// assumed not to straddle machine or content blocks; embedded generated
// regions inside a routine are rare enough to accept the simplification.
func (a *Analyzer) BlockChange(oldBlock int) error {
	if a.cfg.SpanBlocks {
		return nil
	}
	if err := a.save(oldBlock); err != nil {
		return err
	}
	a.foundFirst = false
	a.reset()
	return nil
}

// Finish saves the trailing routine (or the whole-file group when no
// routines were found) at end of survey.
func (a *Analyzer) Finish(activeBlock int) error {
	return a.save(activeBlock)
}

// save packages the routine scanned so far into an output row.
func (a *Analyzer) save(activeBlock int) error {
	if activeBlock != a.cfg.MeasureBlock && !a.cfg.SpanBlocks {
		return nil
	}

	compute := a.foundFirst || a.cfg.InclFileLines

	// The routine's NBNC span runs from the previous routine's start to the
	// start just found.
	routineNbnc := a.counts.MeasureLines[activeBlock] - a.nbncAtLast[activeBlock]
	if routineNbnc < 0 {
		return fmt.Errorf("routine nbnc span went negative at line %d", a.counts.SumRaw())
	}

	// Single-line groups are usually declarations or near-empty files; keep
	// them out of the output unless asked for.
	if routineNbnc <= 1 && !a.cfg.OutputSingle && !a.cfg.WriteEmpty {
		return nil
	}

	row := ports.Row{}
	complexity := 0

	if compute {
		a.nbncAtLast[activeBlock] = a.counts.MeasureLines[activeBlock]

		// Assume at least one return path.
		escapes := a.current.Escapes
		if escapes < 1 {
			escapes = 1
		}
		row[ports.RoutineEscapes] = strconv.Itoa(escapes)
		row[ports.RoutineDecisions] = strconv.Itoa(a.current.Decisions)
		row[ports.RoutineCases] = strconv.Itoa(a.current.Cases)
		row[ports.RoutineBooleans] = strconv.Itoa(a.current.Booleans)

		complexity = a.current.Decisions
		if a.cfg.InclEscapes {
			complexity += escapes
		}
		if a.cfg.InclCases {
			complexity += a.current.Cases
		}
		if a.cfg.InclBooleans {
			complexity += a.current.Booleans
		}
	}

	// Some values write even when nothing was measured, so the first file of
	// a run without routines still produces the full column set.
	if compute || a.cfg.WriteEmpty {
		name := a.current.Name
		if !compute {
			name = noMeasureName
			routineNbnc = 0
			complexity = 0
		}

		row[ports.RoutineNBNC] = strconv.Itoa(routineNbnc)
		row[ports.RoutineNBNCRank] = config.RankLabel(
			config.RoutineSizeRanks, float64(routineNbnc))

		row[ports.RoutineMaxNesting] = strconv.Itoa(a.current.MaxIndent)
		row[ports.RoutineMaxNestingRank] = config.RankLabel(
			config.MaxNestingRanks, float64(a.current.MaxIndent))

		row[ports.RoutineComplexity] = strconv.Itoa(complexity)
		row[ports.RoutineComplexityRank] = config.RankLabel(
			config.RoutineComplexityRanks, float64(complexity))

		row[ports.RoutineName] = strings.TrimSpace(name)
		row[ports.RoutineLine] = strings.TrimSpace(a.current.Line)
		row[ports.RoutineLineNum] = strconv.Itoa(a.current.LineNum)
		row[ports.RoutineLineCol] = strconv.Itoa(a.current.LineCol)
		row[ports.RoutineLineNesting] = strconv.Itoa(a.current.LineIndent)
		row[ports.RoutineFullRegex] = clip(a.current.FullRe)
		row[ports.RoutineConfigRe] = clip(a.current.ConfigRe)
	}

	if compute {
		// Comment spans lean on the previous routine: leading doc comments
		// land in the routine above. Fine for aggregates, rough for
		// per-routine density.
		routineComments := a.counts.CommentLines[activeBlock] - a.commentsAtLast[activeBlock]
		if routineComments < 0 {
			return fmt.Errorf("routine comment span went negative at line %d", a.counts.SumRaw())
		}
		a.commentsAtLast[activeBlock] = a.counts.CommentLines[activeBlock]
		ratio := 0.0
		if routineComments > 0 {
			ratio = float64(routineNbnc) / float64(routineComments)
		}
		row[ports.RoutineComments] = strconv.Itoa(routineComments)
		row[ports.RoutineCommentsRank] = config.RankLabel(
			config.CommentDensityRanks, ratio)
	}

	if len(row) > 0 {
		a.rows = append(a.rows, row)
	}
	return nil
}

func clip(s string) string {
	if len(s) > config.MaxOutputStr {
		return s[:config.MaxOutputStr]
	}
	return s
}
