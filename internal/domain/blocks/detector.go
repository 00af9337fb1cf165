// Package blocks implements the block detection state machine. A block is a
// contiguous region of a file under one classification (human code, machine
// generated, content) delimited by start/end regex pairs. Blocks do not
// nest: once inside a block, the file stays there until that block's end
// pattern matches or EOF. Exactly one block is active on any line.
package blocks

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
)

// Pair is one compiled boundary rule. A nil End means the block runs to EOF
// once entered.
type Pair struct {
	Start *regexp2.Regexp
	End   *regexp2.Regexp
}

// Table holds the per-block detector lists. Index 0 is the default block and
// carries no start patterns.
type Table [][]Pair

// BuildTable compiles the options' detector pairs.
func BuildTable(opts *config.Options) (Table, error) {
	table := make(Table, len(opts.Detectors))
	for i, pairs := range opts.Detectors {
		for _, p := range pairs {
			start, err := rex.Compile(p.Start, opts.CaseSensitive)
			if err != nil {
				return nil, err
			}
			var end *regexp2.Regexp
			if p.End != "" {
				if end, err = rex.Compile(p.End, opts.CaseSensitive); err != nil {
					return nil, err
				}
			}
			table[i] = append(table[i], Pair{Start: start, End: end})
		}
	}
	return table, nil
}

// Event records one block transition. Transitions are monotonic forward
// events within a file; there is no undo.
type Event struct {
	Old, New int
	Line     int
}

// Detector tracks the active block across the lines of one file. Not safe
// for concurrent use; create one per survey.
type Detector struct {
	table Table

	active     int
	activeEnd  *regexp2.Regexp
	singleLine bool
	enabled    bool

	ignorePhrase string // skip block evaluation for a line containing this
	stopPhrase   string // disable detection for the rest of the file

	events []Event
}

// NewDetector builds a detector over the compiled table.
func NewDetector(table Table, ignorePhrase, stopPhrase string) *Detector {
	return &Detector{
		table:        table,
		enabled:      true,
		ignorePhrase: ignorePhrase,
		stopPhrase:   stopPhrase,
	}
}

// Active returns the current block index.
func (d *Detector) Active() int { return d.active }

// Events returns the transitions recorded so far, in order.
func (d *Detector) Events() []Event { return d.events }

// Detect evaluates one line for a block transition and returns whether the
// active block changed, along with the previous block.
func (d *Detector) Detect(line string, lineNum int) (changed bool, old int, err error) {
	old = d.active
	if !d.enabled {
		return false, old, nil
	}
	if d.stopPhrase != "" && strings.Contains(line, d.stopPhrase) {
		d.enabled = false
		return false, old, nil
	}
	if d.ignorePhrase != "" && strings.Contains(line, d.ignorePhrase) {
		return false, old, nil
	}

	if err = d.step(line); err != nil {
		return false, old, err
	}
	if d.active != old {
		d.events = append(d.events, Event{Old: old, New: d.active, Line: lineNum})
		return true, old, nil
	}
	return false, old, nil
}

func (d *Detector) step(line string) error {
	if d.active > 0 {
		// A block that opened and closed on the same line reverts before
		// this line is evaluated; run the start scan once more (a single
		// re-entrant check, not recursion).
		if d.singleLine {
			d.singleLine = false
			d.active = 0
			d.activeEnd = nil
			return d.step(line)
		}
		if d.activeEnd != nil {
			ok, err := rex.Matches(d.activeEnd, line)
			if err != nil {
				return err
			}
			if ok {
				d.active = 0
				d.activeEnd = nil
			}
		}
		return nil
	}

	// In the default block: scan the other blocks' start patterns in table
	// order, first match wins.
	for blockNum := 1; blockNum < len(d.table); blockNum++ {
		for _, pair := range d.table[blockNum] {
			ok, err := rex.Matches(pair.Start, line)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			d.active = blockNum
			d.activeEnd = pair.End

			// The block may close on its own start line.
			if pair.End != nil {
				closed, err := rex.Matches(pair.End, line)
				if err != nil {
					return err
				}
				if closed {
					d.singleLine = true
				}
			}
			return nil
		}
	}
	return nil
}
