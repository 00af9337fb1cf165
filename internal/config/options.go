// Package config holds the typed option registry and language presets that
// drive the measurement engine. Every tunable is a strongly typed field on
// Options; the OPT-name registry maps external option names onto typed
// setters through Apply. There is no dynamic code execution: a bad option
// name, bad regex, or bad integer fails at application time, before any file
// is processed.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calipr/calipr/internal/domain/rex"
)

// DetectorPair is one block boundary rule. An empty End means the block runs
// to end of file once entered.
type DetectorPair struct {
	Start string `yaml:"start"`
	End   string `yaml:"end,omitempty"`
}

// Options carries every engine tunable as raw (uncompiled) configuration.
// Defaults() gives the cross-language defaults; Apply mutates the struct,
// and the survey engine compiles an immutable instance from it. Reconfiguring
// after compilation means building a new engine.
type Options struct {
	// Line preprocessing.
	AddLineSep    string
	MaxLineLength int
	SkipLine      string // regex; lines matching are ignored entirely
	StopOnError   bool

	// Blank detection.
	BlankLine    string
	BlankLineAdd string
	BlankXML     bool

	// Comment detection.
	SingleComment          string
	MultiOpen              string // without the remaining-line capture
	MultiClose             string
	StringLiteral          string
	StripBeforeComments    bool
	SameLineCloseAsComment bool

	// Block detection. Detectors[0] is the default block and stays empty.
	Detectors       [][]DetectorPair
	BlockIgnore     string // substring: skip block evaluation for the line
	BlockIgnoreFile string // substring: stop block detection for the file
	MeasureBlock    int
	MachineBlock    int
	ContentBlock    int

	// Measurement patterns.
	Decisions    string
	Cases        string
	Escapes      string
	Booleans     string
	DeadCode     string
	Preprocessor string
	Imports      string
	Classes      string
	RoutineStart string

	IncludeDeadCode    bool
	InlineMarkers      []string
	CommentsInclInline bool

	// Complexity aggregate composition.
	ComplexityInclCases    bool
	ComplexityInclEscapes  bool
	ComplexityInclBooleans bool

	// Search scope.
	IncludeStrings  bool
	IncludeComments bool
	OnlyComments    bool
	CaseSensitive   bool

	// Routine analysis.
	RoutineFileLines    bool
	RoutineSpanBlocks   bool
	RoutineSingleLine   bool
	RoutineOutputSingle bool
	RoutineAvgIndent    int
	RoutineIgnoreCol    int

	// Write zero-valued measures as empty strings instead of omitting them,
	// so columns line up across files in pivot-style analysis.
	WriteEmptyMeasures bool
}

// Defaults returns the baseline cross-language configuration.
func Defaults() *Options {
	o := &Options{
		MaxLineLength:          DefaultMaxLineLength,
		StopOnError:            true,
		BlankLine:              DefaultBlank,
		SingleComment:          DefaultSingleComment,
		MultiOpen:              DefaultMultiOpen,
		MultiClose:             DefaultMultiClose,
		StringLiteral:          DefaultStringLiteral,
		StripBeforeComments:    true,
		SameLineCloseAsComment: true,
		MeasureBlock:           BlockHumanCode,
		MachineBlock:           BlockMachine,
		ContentBlock:           BlockContent,
		Decisions:              DefaultDecisions,
		Cases:                  DefaultCases,
		Escapes:                DefaultEscapes,
		Booleans:               DefaultBooleans,
		DeadCode:               DefaultDeadCode,
		Preprocessor:           DefaultPreprocessor,
		Imports:                DefaultImports,
		Classes:                DefaultClasses,
		RoutineStart:           DefaultRoutineStart,
		IncludeDeadCode:        true,
		CommentsInclInline:     true,
		ComplexityInclCases:    true,
		ComplexityInclEscapes:  true,
		RoutineAvgIndent:       DefaultNestingIndent,
		RoutineIgnoreCol:       DefaultIgnoreColumn,
	}
	o.InlineMarkers = append(o.InlineMarkers, DefaultInlineMarkers...)
	o.Detectors = [][]DetectorPair{
		{}, // block 0: human code, no start pattern
		DefaultMachineDetectors(),
		{}, // block 2: content, presets and options add detectors
	}
	return o
}

// Clone deep-copies the options so per-worker engines can diverge safely.
func (o *Options) Clone() *Options {
	c := *o
	c.InlineMarkers = append([]string(nil), o.InlineMarkers...)
	c.Detectors = make([][]DetectorPair, len(o.Detectors))
	for i, d := range o.Detectors {
		c.Detectors[i] = append([]DetectorPair(nil), d...)
	}
	return &c
}

// applyFn mutates Options from an option value string, validating eagerly.
type applyFn func(o *Options, value string) error

type optionEntry struct {
	apply applyFn
	help  string
}

// checkRegex validates a pattern at application time so configuration errors
// surface before any file is processed.
func checkRegex(pattern string, o *Options) error {
	_, err := rex.Compile(pattern, o.CaseSensitive)
	return err
}

func regexSetter(set func(o *Options, pattern string)) applyFn {
	return func(o *Options, value string) error {
		if err := checkRegex(value, o); err != nil {
			return err
		}
		set(o, value)
		return nil
	}
}

func intSetter(set func(o *Options, n int)) applyFn {
	return func(o *Options, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("integer value required: %w", err)
		}
		set(o, n)
		return nil
	}
}

func flagSetter(set func(o *Options)) applyFn {
	return func(o *Options, _ string) error {
		set(o)
		return nil
	}
}

// parseDetectorPair reads "startRegex :: endRegex"; a missing or empty end
// means the block runs to EOF.
func parseDetectorPair(o *Options, value string) (DetectorPair, error) {
	parts := strings.SplitN(value, " :: ", 2)
	p := DetectorPair{Start: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		p.End = strings.TrimSpace(parts[1])
	}
	if p.Start == "" {
		return p, fmt.Errorf("detector start pattern is empty")
	}
	if err := checkRegex(p.Start, o); err != nil {
		return p, err
	}
	if p.End != "" {
		if err := checkRegex(p.End, o); err != nil {
			return p, err
		}
	}
	return p, nil
}

var optionRegistry = map[string]optionEntry{
	"ADD_LINE_SEP": {func(o *Options, v string) error {
		o.AddLineSep = v
		return nil
	}, "Split file lines on the given separator (e.g. ';')"},
	"BLANK_LINE": {regexSetter(func(o *Options, p string) { o.BlankLine = p }),
		"Replace the blank line detector"},
	"BLANK_LINE_ADD": {regexSetter(func(o *Options, p string) { o.BlankLineAdd = p }),
		"Add a regex counting as blank lines"},
	"BLANK_LINE_XML": {flagSetter(func(o *Options) { o.BlankXML = true }),
		"Count lines holding only an XML tag as blank"},
	"COMMENT_LINE": {regexSetter(func(o *Options, p string) { o.SingleComment = p }),
		"Replace the single-line comment detector"},
	"COMMENT_OPEN": {regexSetter(func(o *Options, p string) { o.MultiOpen = p }),
		"Replace the multi-line comment open detector"},
	"COMMENT_CLOSE": {regexSetter(func(o *Options, p string) { o.MultiClose = p }),
		"Replace the multi-line comment close detector"},
	"COMMENT_CLOSE_CODE": {flagSetter(func(o *Options) { o.SameLineCloseAsComment = false }),
		"Treat a line as code when a multi-line comment closes on it with trailing code"},
	"COMMENT_NO_STRIP": {flagSetter(func(o *Options) { o.StripBeforeComments = false }),
		"Do not strip blanks and string literals before comment detection"},
	"CONTINUE_ON_ERROR": {flagSetter(func(o *Options) { o.StopOnError = false }),
		"Keep processing remaining lines after a per-line failure"},
	"MAX_LINE_LENGTH": {intSetter(func(o *Options, n int) { o.MaxLineLength = n }),
		"Max chars of a line to process"},
	"SKIP_LINES": {regexSetter(func(o *Options, p string) { o.SkipLine = p }),
		"Regex for lines to ignore completely"},
	"STRINGS": {regexSetter(func(o *Options, p string) { o.StringLiteral = p }),
		"Replace the string literal detector"},
	"PYTHON_TRIPLE_COMMENTS": {flagSetter(func(o *Options) {
		o.StripBeforeComments = false
		o.SingleComment = `^\s*#`
		o.MultiOpen = `("""|''')`
		o.MultiClose = `("""|''')`
		o.StringLiteral = `("(?!").+?")|('(?!').+?')`
	}), "Python comment handling, including triple quotes"},

	"BLOCK_IGNORE": {func(o *Options, v string) error {
		o.BlockIgnore = v
		return nil
	}, "Skip block change detection on lines containing this string"},
	"BLOCK_IGNORE_FILE": {func(o *Options, v string) error {
		o.BlockIgnoreFile = v
		return nil
	}, "Stop block change detection once a line contains this string"},
	"MACHINE_NONE": {flagSetter(func(o *Options) { o.Detectors[o.MachineBlock] = nil }),
		"Turn off machine block detection"},
	"MACHINE_ALL": {flagSetter(func(o *Options) {
		o.Detectors[o.MachineBlock] = []DetectorPair{{Start: `.*`}}
	}), "Treat the entire file as machine code"},
	"MACHINE_MEASURE": {flagSetter(func(o *Options) { o.MeasureBlock = o.MachineBlock }),
		"Measure the machine block instead of human-written code"},
	"MACHINE_ADD_DETECT": {func(o *Options, v string) error {
		p, err := parseDetectorPair(o, v)
		if err != nil {
			return err
		}
		o.Detectors[o.MachineBlock] = append(o.Detectors[o.MachineBlock], p)
		return nil
	}, "Add a machine block detector: 'startRegex :: endRegex'"},
	"MACHINE_DETECTORS": {func(o *Options, v string) error {
		p, err := parseDetectorPair(o, v)
		if err != nil {
			return err
		}
		o.Detectors[o.MachineBlock] = []DetectorPair{p}
		return nil
	}, "Replace machine block detectors with 'startRegex :: endRegex'"},
	"CONTENT_ADD_DETECTOR": {func(o *Options, v string) error {
		p, err := parseDetectorPair(o, v)
		if err != nil {
			return err
		}
		o.Detectors[o.ContentBlock] = append(o.Detectors[o.ContentBlock], p)
		return nil
	}, "Add a content block detector: 'startRegex :: endRegex'"},

	"BOOLEANS": {regexSetter(func(o *Options, p string) { o.Booleans = p }),
		"Replace the boolean decision detector"},
	"SEARCH_STRINGS": {flagSetter(func(o *Options) { o.IncludeStrings = true }),
		"Include string content in searches and analysis"},
	"SEARCH_COMMENTS": {flagSetter(func(o *Options) { o.IncludeComments = true }),
		"Include comment lines in searches and analysis"},
	"ONLY_COMMENTS": {flagSetter(func(o *Options) { o.OnlyComments = true }),
		"Only consider comment lines in searches and analysis"},
	"SEARCH_CASE_SENSITIVE": {flagSetter(func(o *Options) { o.CaseSensitive = true }),
		"Make search expressions case sensitive"},
	"INLINE_EXCLUDE": {flagSetter(func(o *Options) { o.CommentsInclInline = false }),
		"Exclude inline comments from file.comment"},
	"INLINE_INCL_QUOTE": {flagSetter(func(o *Options) {
		o.InlineMarkers = append(o.InlineMarkers, "'")
	}), "A single quote counts as an inline comment marker"},
	"INLINE": {func(o *Options, v string) error {
		markers := strings.Split(v, ",")
		o.InlineMarkers = o.InlineMarkers[:0]
		for _, m := range markers {
			if m = strings.TrimSpace(m); m != "" {
				o.InlineMarkers = append(o.InlineMarkers, m)
			}
		}
		return nil
	}, "Replace inline comment markers (comma separated substrings)"},

	"COMP_INCL_BOOLEAN": {flagSetter(func(o *Options) { o.ComplexityInclBooleans = true }),
		"routine.complexity includes boolean decisions"},
	"COMP_EXCL_ESCAPES": {flagSetter(func(o *Options) { o.ComplexityInclEscapes = false }),
		"routine.complexity excludes return/break/continue/goto/catch"},
	"COMP_EXCL_CASES": {flagSetter(func(o *Options) { o.ComplexityInclCases = false }),
		"routine.complexity excludes case statements"},
	"DECISIONS": {regexSetter(func(o *Options, p string) { o.Decisions = p }),
		"Replace the decision detector"},
	"DEADCODE_NONE": {flagSetter(func(o *Options) { o.IncludeDeadCode = false }),
		"Turn off dead code detection"},
	"DEADCODE": {regexSetter(func(o *Options, p string) { o.DeadCode = p }),
		"Replace the commented-out code detector"},
	"IMPORTS": {regexSetter(func(o *Options, p string) { o.Imports = p }),
		"Replace the import detector"},
	"PREPROCESSOR": {regexSetter(func(o *Options, p string) { o.Preprocessor = p }),
		"Replace the preprocessor line detector"},
	"ROUTINES": {regexSetter(func(o *Options, p string) { o.RoutineStart = p }),
		"Replace the default routine start detector"},
	"CLASSES": {regexSetter(func(o *Options, p string) { o.Classes = p }),
		"Replace the class detector"},
	"ESCAPES": {regexSetter(func(o *Options, p string) { o.Escapes = p }),
		"Replace the escape keyword detector"},
	"CASES": {regexSetter(func(o *Options, p string) { o.Cases = p }),
		"Replace the case statement detector"},

	"ROUTINE_FILE_LINES": {flagSetter(func(o *Options) { o.RoutineFileLines = true }),
		"Report line groups outside routines as routines"},
	"ROUTINE_SPAN_BLOCKS": {flagSetter(func(o *Options) { o.RoutineSpanBlocks = true }),
		"Allow routines to span block boundaries (use with caution)"},
	"ROUTINE_SINGLE_LINE": {flagSetter(func(o *Options) { o.RoutineSingleLine = true }),
		"Count each routine start line as its own routine"},
	"ROUTINE_OUTPUT_SINGLE": {flagSetter(func(o *Options) { o.RoutineOutputSingle = true }),
		"Include single-line routine hits in output"},
	"ROUTINE_NESTING_INDENT": {intSetter(func(o *Options, n int) { o.RoutineAvgIndent = n }),
		"Spaces per indent level for nesting estimates"},
	"ROUTINE_IGNORE_COLUMN": {intSetter(func(o *Options, n int) { o.RoutineIgnoreCol = n }),
		"Ignore indentation-based routine starts past this column (0 disables)"},

	"EMPTY_MEASURES": {flagSetter(func(o *Options) { o.WriteEmptyMeasures = true }),
		"Write zero measures as empty values instead of omitting them"},
}

// Apply sets one named option. Unknown names, invalid regexes, and bad
// integers are reported immediately; nothing is deferred to measurement time.
func (o *Options) Apply(name, value string) error {
	entry, ok := optionRegistry[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown option %q", name)
	}
	if err := entry.apply(o, value); err != nil {
		return fmt.Errorf("option %s: %w", strings.ToUpper(name), err)
	}
	return nil
}

// OptionHelp returns name -> description for every registered option.
func OptionHelp() map[string]string {
	help := make(map[string]string, len(optionRegistry))
	for name, entry := range optionRegistry {
		help[name] = entry.help
	}
	return help
}
