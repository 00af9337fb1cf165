package config

// Default pattern tables. These are deliberately approximate, tuned defaults
// covering the common comment and keyword syntax across many languages;
// presets and OPT overrides replace them per language. They are heuristics,
// not ground truth.

// RemainingLineGroup names the capture appended to the multi-line comment
// open and close patterns. The captured tail is what the classifier re-tests
// for a close on the same line.
const RemainingLineGroup = "remainingLine"

// RemainingLineAppend is glued onto COMMENT_OPEN / COMMENT_CLOSE overrides.
const RemainingLineAppend = "(?<" + RemainingLineGroup + ">.*)"

const (
	// Line-classification defaults.
	// Braces stay out of the blank symbol set: a lone '}' closing a C-style
	// body counts as a code line.
	DefaultTrueBlank = `^\s*$`
	DefaultBlank     = `^[\s\\+.,;=\-/*'` + "`" + `"#!%()\[\]<>|]*$`
	DefaultBlankXML  = `^\s*(<[\w/\\]*>)+\s*$`

	// Single-line comments: C family, scripting '#' (excluding Lisp '#|'
	// and common preprocessor words), Lisp/assembly ';', SQL family '--'
	// (excluding Lua long brackets), BASIC 'rem', FORTRAN '!'.
	DefaultSingleComment = `^\s*(//|#(?!\||def|inc|if|els|end)|;|--(?!\[)|rem|!)`

	// Multi-line comment delimiters: C family, Lua, Perl/Ruby POD,
	// Lisp, Haskell, HTML/XML, server-side templates. Opens are not paired
	// with particular closes.
	DefaultMultiOpen  = `((^|[^/])/\*|--\[\[|=(begin|head|item)|#\||\{-|<!--|<%--)`
	DefaultMultiClose = `(\*/|\]\]|=(cut|end)|\|#|-\}|-->|--%>)`

	// String literal bodies, stripped before most pattern checks.
	DefaultStringLiteral = `(".+?")|('.+?')`
)

const (
	// Complexity-related keyword detectors.
	DefaultDecisions = `\b(if|elseif|elif|else|unless|for|foreach|while|until|when|from|where|join|find)\b`
	DefaultCases     = `\b(case)\b`
	DefaultEscapes   = `\b(return|continue|break|goto|except|catch|finally)\b`
	DefaultBooleans  = `(\s+and\s+|\s+or\s+|\|\||&&)`

	// Commented-out code heuristic: trailing statement punctuation, dotted
	// identifiers, operator clusters, '=' not followed by '>'.
	DefaultDeadCode = `[;{}_\[\]\(]+\s*$|[A-Za-z]\.[A-Za-z]|[&\+\[\]\|]+|[=]+(?![^>])`

	DefaultPreprocessor = `^\s*#(def|if|else|end)`
	DefaultImports      = `\b(using|import|[#]*include)\b`
	DefaultClasses      = `\b(class|type|interface)\b`

	// Rough cross-language routine-start estimate; per-language routine
	// rules passed to the routines verb usually work better.
	DefaultRoutineStart = `\b(def|public|private|protected|static|void|sub|func|function|prop|property|proc|procedure)\s*[(\[{]+`
)

// Block roles. Counters are kept per block; these indexes name the roles the
// default configuration assigns them. Presets may remap (the web preset
// measures block 2 and treats block 0 as content).
const (
	BlockHumanCode = 0
	BlockMachine   = 1
	BlockContent   = 2
)

// Nesting and line-cap tuning.
const (
	DefaultNestingIndent = 4
	DefaultIgnoreColumn  = 20

	// Lines are truncated to this many bytes before processing. A goofy
	// long line and the wrong pattern can make the regex engine crawl;
	// nothing above this length matters for counting or searching.
	DefaultMaxLineLength = 255

	// Output strings (matched lines, routine signatures) are clipped here.
	MaxOutputStr = 255
)

// DefaultInlineMarkers are substrings whose presence on a code line marks an
// inline (assembly style) comment.
var DefaultInlineMarkers = []string{"//", "/*"}

// DefaultMachineDetectors mark generated-code blocks: .NET generated regions
// plus phrases tools use to stamp whole generated files.
func DefaultMachineDetectors() []DetectorPair {
	return []DetectorPair{
		{Start: `region\b.*?\bgenerated`, End: `end\s*region`},
		{Start: `\bdo\s+not\s+(edit|modify)\b`},
		{Start: `(generated|compiled)\b[^.]*?\b(with|by|from|date|time|auto|code|file|class|script|source).*$`},
		{Start: `\b(auto\S*?|code|file|class|script|source|designer)\b[^.]*?\b(generated|created)\b`},
		{Start: `\bcreated\b.*?\b(tool|auto|code|script)\b.*$`},
	}
}

// Ranking tables: ordered (upper bound inclusive, label) buckets, first
// satisfied bound wins. MaxRank is the catch-all bound.
const MaxRank = float64(1<<63 - 1)

type RankBucket struct {
	Max   float64
	Label string
}

var (
	FileSizeRanks = []RankBucket{
		{200, "1 to 200"},
		{600, "201 to 600"},
		{1800, "601 to 1800"},
		{MaxRank, "1800+"},
	}
	CommentDensityRanks = []RankBucket{
		{0, "0%"},
		{4, "> 25%"},
		{10, "> 10%"},
		{20, "> 5%"},
		{MaxRank, "< 5%"},
	}
	ImportRanks = []RankBucket{
		{4, "0 to 4"},
		{10, "5 to 10"},
		{20, "10 to 20"},
		{MaxRank, "21+"},
	}
	RoutineSizeRanks = []RankBucket{
		{50, "1 to 50"},
		{100, "51 to 100"},
		{200, "101 to 200"},
		{MaxRank, "200+"},
	}
	RoutineComplexityRanks = []RankBucket{
		{6, "1 to 6"},
		{14, "7 to 14"},
		{30, "15 to 30"},
		{MaxRank, "31+"},
	}
	MaxNestingRanks = []RankBucket{
		{2, "0 to 2"},
		{5, "3 to 4"},
		{MaxRank, "5+"},
	}
)

// RankLabel returns the label of the first bucket whose bound holds, or ""
// when the table is empty.
func RankLabel(table []RankBucket, value float64) string {
	for _, b := range table {
		if value <= b.Max {
			return b.Label
		}
	}
	return ""
}
