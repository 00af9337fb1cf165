package survey

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/blocks"
	"github.com/calipr/calipr/internal/domain/measure"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/domain/routine"
	"github.com/calipr/calipr/internal/domain/search"
	"github.com/calipr/calipr/internal/ports"
)

// Request describes one file survey. Params carry the rule expressions for
// the search, routines, and tempmeasure verbs; Analyzer plugs in the module
// for the analyze verb.
type Request struct {
	Verb     Verb
	Params   []string
	Analyzer ports.LineAnalyzer
}

// run is the per-file state of one survey in flight.
type run struct {
	engine   *Engine
	req      Request
	rules    *search.RuleSet
	counts   *measure.Counters
	measurer *measure.Measurer
	detector *blocks.Detector
	routines *routine.Analyzer

	scanning bool // inside a multi-line comment
	trace    bool
	result   *ports.SurveyResult
}

// traceLine emits the per-line classification trace at debug level. Tags:
// I skipped, T true blank, B block change, C comment, D faux blank,
// M measured.
func (r *run) traceLine(tag, line string) {
	if r.trace {
		common.Logger().Debug(tag, "n", r.counts.SumRaw(), "line", clipOutput(line))
	}
}

// Run surveys one file's lines.
//
// The order of work per line is fixed: preprocess, true-blank check, block
// detection, comment classification, faux-blank check, measurement, then
// verb analysis. Comment classification runs before blank detection so a
// multi-line delimiter alone on a line counts as comment, not blank.
func (e *Engine) Run(lines iter.Seq[string], meta ports.FileMeta, req Request) (*ports.SurveyResult, error) {
	rules, err := search.Parse(req.Params, e.opts.CaseSensitive)
	if err != nil {
		return nil, err
	}
	if req.Verb == VerbAnalyze && req.Analyzer == nil {
		return nil, fmt.Errorf("analyze verb requires an analysis module")
	}

	counts := measure.NewCounters(len(e.opts.Detectors))
	mcfg := measure.Config{
		Patterns:           e.patterns,
		Strip:              e.classifier.StripStrings,
		Inline:             e.inline,
		MeasureBlock:       e.opts.MeasureBlock,
		MachineBlock:       e.opts.MachineBlock,
		ContentBlock:       e.opts.ContentBlock,
		IncludeDeadCode:    e.opts.IncludeDeadCode,
		CommentsInclInline: e.opts.CommentsInclInline,
		IncludeStrings:     e.opts.IncludeStrings,
		WriteEmpty:         e.opts.WriteEmptyMeasures,
		MeasuringRoutines:  req.Verb == VerbRoutines,
	}
	if req.Verb == VerbTempMeasure {
		mcfg.TemplateRules = rules
	}

	r := &run{
		engine:   e,
		req:      req,
		rules:    rules,
		counts:   counts,
		measurer: measure.NewMeasurer(mcfg, counts),
		detector: blocks.NewDetector(e.table, e.opts.BlockIgnore, e.opts.BlockIgnoreFile),
		trace:    common.Debug(),
		result:   &ports.SurveyResult{},
	}
	if req.Verb == VerbRoutines {
		r.routines = routine.NewAnalyzer(routine.Config{
			Patterns:       e.patterns,
			Rules:          rules,
			Strip:          e.classifier.StripStrings,
			StripInlines:   r.measurer.StripInlines,
			MeasureBlock:   e.opts.MeasureBlock,
			AvgIndent:      e.opts.RoutineAvgIndent,
			IgnoreCol:      e.opts.RoutineIgnoreCol,
			InclFileLines:  e.opts.RoutineFileLines,
			SpanBlocks:     e.opts.RoutineSpanBlocks,
			SingleLine:     e.opts.RoutineSingleLine,
			OutputSingle:   e.opts.RoutineOutputSingle,
			WriteEmpty:     e.opts.WriteEmptyMeasures,
			IncludeStrings: e.opts.IncludeStrings,
			InclCases:      e.opts.ComplexityInclCases,
			InclEscapes:    e.opts.ComplexityInclEscapes,
			InclBooleans:   e.opts.ComplexityInclBooleans,
		}, counts)
	}

	for raw := range lines {
		counts.RawLines[r.detector.Active()]++
		r.measurer.RawLine(raw)

		if err := r.bufferLine(raw); err != nil {
			err = fmt.Errorf("line %d: %w", counts.SumRaw(), err)
			if e.opts.StopOnError {
				return nil, err
			}
			r.result.LineErrors = append(r.result.LineErrors, err)
		}
	}

	return r.finish(meta)
}

// bufferLine handles one raw buffer line: skip rules, the optional extra
// line separator, then per-line processing.
func (r *run) bufferLine(raw string) error {
	if r.engine.skipRe != nil {
		skip, err := rex.Matches(r.engine.skipRe, raw)
		if err != nil {
			return err
		}
		if skip {
			r.counts.SkippedLines[r.detector.Active()]++
			r.traceLine("I", raw)
			return nil
		}
	}

	split := []string{raw}
	if sep := r.engine.opts.AddLineSep; sep != "" {
		split = strings.Split(raw, sep)
	}
	for _, rawLine := range split {
		if err := r.processLine(rawLine); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) processLine(rawLine string) error {
	r.counts.TotalLines[r.detector.Active()]++
	line := r.engine.preprocess(rawLine)

	if r.engine.classifier.IsTrueBlank(line) {
		r.counts.TrueBlankLines[r.detector.Active()]++
		r.traceLine("T", line)
		return nil
	}

	if len(r.engine.table) > 1 {
		changed, old, err := r.detector.Detect(line, r.counts.SumRaw())
		if err != nil {
			return err
		}
		if changed {
			r.traceLine("B", line)
			// Multi-line comments do not span blocks.
			r.scanning = false
			if r.routines != nil {
				if err := r.routines.BlockChange(old); err != nil {
					return err
				}
			}
		}
	}
	block := r.detector.Active()

	onComment, scanning, err := r.engine.classifier.DetectComment(line, r.scanning)
	if err != nil {
		return err
	}
	r.scanning = scanning

	// A comment line is never demoted to faux blank, so a multi-line
	// delimiter alone on a line stays a comment.
	if !onComment {
		if blank, err := r.engine.classifier.IsBlank(line); err != nil {
			return err
		} else if blank {
			r.counts.FauxBlankLines[block]++
			r.traceLine("D", line)
			return nil
		}
	}

	if onComment {
		r.traceLine("C", line)
	} else {
		r.traceLine("M", line)
	}
	if err := r.measurer.MeasureLine(line, block, onComment); err != nil {
		return err
	}
	return r.analyzeLine(line, block, onComment)
}

// analyzeLine applies the verb-specific per-line work. Only the measured
// block is analyzed, and only one kind of analysis runs per line.
func (r *run) analyzeLine(line string, block int, onComment bool) error {
	if block != r.engine.opts.MeasureBlock {
		return nil
	}

	if r.routines != nil && !onComment {
		return r.routines.AnalyzeLine(line, block)
	}

	// Scope filter: code only, code and comments, or comments only.
	opts := r.engine.opts
	inScope := (onComment && (opts.OnlyComments || opts.IncludeComments)) ||
		(!onComment && !opts.OnlyComments)
	if !inScope {
		return nil
	}

	switch r.req.Verb {
	case VerbSearch:
		return r.searchLine(line)
	case VerbAnalyze:
		return r.req.Analyzer.AnalyzeLine(line, r.counts.SumRaw(), onComment)
	}
	return nil
}

// searchLine records a search hit row if the rules match the line after
// scope-based stripping.
func (r *run) searchLine(line string) error {
	target := line
	var err error
	if !r.engine.opts.IncludeStrings {
		if target, err = r.engine.classifier.StripStrings(target); err != nil {
			return err
		}
	}
	if !r.engine.opts.IncludeComments {
		target = r.measurer.StripInlines(target)
	}

	m, err := r.rules.FirstMatch(target, false)
	if err != nil || m == nil {
		return err
	}
	r.result.Rows = append(r.result.Rows, ports.Row{
		ports.SearchLine:      clipOutput(strings.TrimSpace(line)),
		ports.SearchLineNum:   strconv.Itoa(r.counts.SumRaw()),
		ports.SearchMatch:     clipOutput(strings.TrimSpace(m.Found.String())),
		ports.SearchFullRegex: clipOutput(strings.TrimSpace(m.Rule.Re.String())),
		ports.SearchConfigRe:  m.Rule.Key,
	})
	return nil
}

// finish packages the survey output per verb.
func (r *run) finish(meta ports.FileMeta) (*ports.SurveyResult, error) {
	switch r.req.Verb {
	case VerbAnalyze:
		r.result.Rows = r.req.Analyzer.Finish(meta)
	case VerbRoutines:
		if err := r.routines.Finish(r.detector.Active()); err != nil {
			return nil, err
		}
		r.result.Rows = r.routines.Rows()
		r.result.Measures = r.measurer.Results(meta)
	default:
		r.result.Measures = r.measurer.Results(meta)
	}
	return r.result, nil
}

func clipOutput(s string) string {
	if len(s) > config.MaxOutputStr {
		return s[:config.MaxOutputStr]
	}
	return s
}
