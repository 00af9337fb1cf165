package ports

// Dotted measure names written into survey output. Downstream writers key
// their columns on these strings verbatim, so they are part of the public
// contract and must never be renamed.
const (
	FileTotal       = "file.total"
	FileNBNC        = "file.nbnc"
	FileComment     = "file.comment"
	FileRawTotal    = "file.rawTotal"
	FileIgnored     = "file.ignored"
	FileBlank       = "file.blank"
	FileBlankFaux   = "file.blankFaux"
	FileBlankTrue   = "file.blankTrue"
	FileMachine     = "file.machine"
	FileContent     = "file.content"
	FileCodeContent = "file.code+content"
	FileTemplate    = "file.template"
	FileDead        = "file.dead"
	FileNBNCRank    = "file.nbncRank"
	FileCommentRank = "file.commentRank"
	FileCRC         = "file.crc"
)

const (
	NBNCImports        = "nbnc.imports"
	NBNCImportRank     = "nbnc.importRank"
	NBNCDecisions      = "nbnc.decisions"
	NBNCInlineComments = "nbnc.inlineComments"
	NBNCClasses        = "nbnc.classes"
	NBNCRoutines       = "nbnc.routines"
	NBNCSemicolons     = "nbnc.semicolons"
	NBNCPreprocessor   = "nbnc.preprocessor"
	NBNCByteRatio      = "nbnc.byteRatio"
	NBNCCRC            = "nbnc.crc"
)

const (
	SearchMatch     = "search.match"
	SearchLine      = "search.line"
	SearchLineNum   = "search.linenum"
	SearchConfigRe  = "search.regex"
	SearchFullRegex = "search.regex-full"
)

const (
	RoutineName           = "routine.name"
	RoutineLine           = "routine.line"
	RoutineLineNum        = "routine.lineNum"
	RoutineLineCol        = "routine.lineCol"
	RoutineLineNesting    = "routine.lineNesting"
	RoutineConfigRe       = "routine.regex"
	RoutineFullRegex      = "routine.regex-full"
	RoutineNBNC           = "routine.nbnc"
	RoutineNBNCRank       = "routine.nbncRank"
	RoutineComments       = "routine.comments"
	RoutineCommentsRank   = "routine.commentsRank"
	RoutineComplexity     = "routine.complexity"
	RoutineComplexityRank = "routine.complexityRank"
	RoutineMaxNesting     = "routine.maxNesting"
	RoutineMaxNestingRank = "routine.maxNestingRank"
	RoutineDecisions      = "routine.c-decisions"
	RoutineCases          = "routine.c-cases"
	RoutineBooleans       = "routine.c-booleans"
	RoutineEscapes        = "routine.c-escapes"
)

// Names emitted by the analyze-verb modules (duplicate line and dependency
// analysis). Same contract rules apply.
const (
	DupeCRC       = "DupeLine.CRC"
	DupeCount     = "DupeLine.Count"
	DupeContent   = "DupeLine.Content"
	DupeFileLines = "DupeLine.FileLines"

	DependUsing     = "Depend.Using"
	DependCount     = "Depend.Count"
	DependFileLines = "Depend.FileLines"
)
