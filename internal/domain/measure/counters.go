// Package measure accumulates per-block file counters and packages the
// scalar per-file measurements. Counters are arrays indexed by block, never
// scalars: every possible block gets its own slot even when a file never
// enters it.
package measure

// Counters holds the per-block tallies for one file survey. Created fresh at
// survey start and read out at survey end.
type Counters struct {
	RawLines       []int
	SkippedLines   []int
	TotalLines     []int
	MeasureLines   []int
	CommentLines   []int
	FauxBlankLines []int
	TrueBlankLines []int

	Imports        []int
	Classes        []int
	Routines       []int
	Decisions      []int
	DeadCode       []int
	TemplateLines  []int
	InlineComments []int
	Semicolons     []int
	Preprocessor   []int
}

// NewCounters allocates counters for the given number of blocks.
func NewCounters(blocks int) *Counters {
	n := func() []int { return make([]int, blocks) }
	return &Counters{
		RawLines:       n(),
		SkippedLines:   n(),
		TotalLines:     n(),
		MeasureLines:   n(),
		CommentLines:   n(),
		FauxBlankLines: n(),
		TrueBlankLines: n(),
		Imports:        n(),
		Classes:        n(),
		Routines:       n(),
		Decisions:      n(),
		DeadCode:       n(),
		TemplateLines:  n(),
		InlineComments: n(),
		Semicolons:     n(),
		Preprocessor:   n(),
	}
}

// Blocks returns the number of block slots.
func (c *Counters) Blocks() int { return len(c.RawLines) }

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// SumRaw is the raw line count across all blocks; it doubles as the current
// 1-based line number during a survey.
func (c *Counters) SumRaw() int { return sum(c.RawLines) }

// SumTotal is the processed line count across all blocks (differs from raw
// when a secondary line separator or skip rule is active).
func (c *Counters) SumTotal() int { return sum(c.TotalLines) }

func (c *Counters) SumSkipped() int   { return sum(c.SkippedLines) }
func (c *Counters) SumFauxBlank() int { return sum(c.FauxBlankLines) }
func (c *Counters) SumTrueBlank() int { return sum(c.TrueBlankLines) }
