// Package report renders run results as CSV (for spreadsheets and pivot
// analysis) or as a styled terminal table. Column order is canonical and
// stable across runs; columns absent from every file are dropped.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/calipr/calipr/internal/ports"
	"github.com/calipr/calipr/internal/scheduler"
)

// Canonical column orders. Output rows key on the dotted measure names; the
// order here fixes how they appear left to right.
var measureOrder = []string{
	ports.FileTotal,
	ports.FileRawTotal,
	ports.FileIgnored,
	ports.FileNBNC,
	ports.FileNBNCRank,
	ports.FileComment,
	ports.FileCommentRank,
	ports.FileBlank,
	ports.FileBlankFaux,
	ports.FileBlankTrue,
	ports.FileMachine,
	ports.FileContent,
	ports.FileCodeContent,
	ports.FileTemplate,
	ports.FileDead,
	ports.FileCRC,
	ports.NBNCImports,
	ports.NBNCImportRank,
	ports.NBNCDecisions,
	ports.NBNCInlineComments,
	ports.NBNCClasses,
	ports.NBNCRoutines,
	ports.NBNCSemicolons,
	ports.NBNCPreprocessor,
	ports.NBNCByteRatio,
	ports.NBNCCRC,
}

var rowOrder = []string{
	ports.RoutineName,
	ports.RoutineLineNum,
	ports.RoutineLineCol,
	ports.RoutineLineNesting,
	ports.RoutineNBNC,
	ports.RoutineNBNCRank,
	ports.RoutineComments,
	ports.RoutineCommentsRank,
	ports.RoutineComplexity,
	ports.RoutineComplexityRank,
	ports.RoutineMaxNesting,
	ports.RoutineMaxNestingRank,
	ports.RoutineDecisions,
	ports.RoutineCases,
	ports.RoutineBooleans,
	ports.RoutineEscapes,
	ports.RoutineLine,
	ports.RoutineConfigRe,
	ports.RoutineFullRegex,

	ports.SearchMatch,
	ports.SearchLineNum,
	ports.SearchLine,
	ports.SearchConfigRe,
	ports.SearchFullRegex,

	ports.DupeCRC,
	ports.DupeCount,
	ports.DupeContent,
	ports.DupeFileLines,

	ports.DependUsing,
	ports.DependCount,
	ports.DependFileLines,
}

// columns selects the canonical columns that at least one file produced.
func columns(res *scheduler.RunResult) []string {
	present := make(map[string]bool)
	for _, f := range res.Files {
		for name := range f.Measures {
			present[name] = true
		}
		for _, row := range f.Rows {
			for name := range row {
				present[name] = true
			}
		}
	}

	var cols []string
	for _, name := range measureOrder {
		if present[name] {
			cols = append(cols, name)
			delete(present, name)
		}
	}
	for _, name := range rowOrder {
		if present[name] {
			cols = append(cols, name)
			delete(present, name)
		}
	}
	// Names outside the canonical set (custom analysis modules) go last.
	var extra []string
	for name := range present {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

// records flattens a run into output records: one per file for measure
// verbs, one per row for routine/search/analyze verbs.
func records(res *scheduler.RunResult, cols []string) [][]string {
	var out [][]string
	for _, f := range res.Files {
		if len(f.Rows) == 0 && f.Measures == nil {
			continue
		}
		if len(f.Rows) == 0 {
			out = append(out, record(f.Path, f.Measures, cols))
			continue
		}
		for _, row := range f.Rows {
			out = append(out, record(f.Path, row, cols))
		}
	}
	return out
}

func record(path string, values map[string]string, cols []string) []string {
	rec := make([]string, 0, len(cols)+1)
	rec = append(rec, path)
	for _, name := range cols {
		rec = append(rec, values[name])
	}
	return rec
}

// WriteCSV streams the run as CSV with a header record.
func WriteCSV(w io.Writer, res *scheduler.RunResult) error {
	cols := columns(res)
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"path"}, cols...)); err != nil {
		return err
	}
	for _, rec := range records(res, cols) {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// RenderTable renders the run as a bordered terminal table, with a summary
// line for totals and any per-file errors appended.
func RenderTable(res *scheduler.RunResult) string {
	cols := columns(res)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(append([]string{"path"}, cols...)...)

	for _, rec := range records(res, cols) {
		t.Row(rec...)
	}

	out := t.Render() + "\n" + summaryLine(res)
	for _, fe := range res.Errors {
		out += "\n" + errorStyle.Render(fmt.Sprintf("error: %s: %v", fe.Path, fe.Err))
	}
	return out
}

// summaryLine totals the headline size measures across files.
func summaryLine(res *scheduler.RunResult) string {
	var files, total, nbnc, comment int
	for _, f := range res.Files {
		if f.Measures == nil {
			continue
		}
		files++
		total += atoi(f.Measures[ports.FileTotal])
		nbnc += atoi(f.Measures[ports.FileNBNC])
		comment += atoi(f.Measures[ports.FileComment])
	}
	if files == 0 {
		return fmt.Sprintf("%d rows from %d files", countRows(res), len(res.Files))
	}
	return fmt.Sprintf("%d files: %d total lines, %d nbnc, %d comment",
		files, total, nbnc, comment)
}

func countRows(res *scheduler.RunResult) int {
	n := 0
	for _, f := range res.Files {
		n += len(f.Rows)
	}
	return n
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
