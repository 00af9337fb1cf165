// Package depends implements the dependency extraction analysis module. It
// records every line matching the import detector, grouped by the collapsed
// statement text. Aggregating rows across files builds a dependency picture
// of a codebase.
package depends

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/ports"
)

// Analyzer collects import statements for one file. Not safe for concurrent
// use; create one per survey.
type Analyzer struct {
	imports *regexp2.Regexp
	seen    map[string][]int
}

// New returns a dependency analyzer using the given import detector.
func New(imports *regexp2.Regexp) *Analyzer {
	return &Analyzer{imports: imports, seen: make(map[string][]int)}
}

func (a *Analyzer) Name() string { return "depends" }

// AnalyzeLine records the line when it holds an import statement.
func (a *Analyzer) AnalyzeLine(line string, lineNum int, _ bool) error {
	collapsed := strings.Join(strings.Fields(line), " ")
	ok, err := rex.Matches(a.imports, collapsed)
	if err != nil {
		return err
	}
	if ok {
		a.seen[collapsed] = append(a.seen[collapsed], lineNum)
	}
	return nil
}

// Finish emits one row per distinct import statement, sorted by statement
// text for repeatable output.
func (a *Analyzer) Finish(_ ports.FileMeta) []ports.Row {
	statements := make([]string, 0, len(a.seen))
	for s := range a.seen {
		statements = append(statements, s)
	}
	sort.Slice(statements, func(i, j int) bool {
		return strings.ToLower(statements[i]) < strings.ToLower(statements[j])
	})

	rows := make([]ports.Row, 0, len(statements))
	for _, s := range statements {
		nums := a.seen[s]
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = strconv.Itoa(n)
		}
		rows = append(rows, ports.Row{
			ports.DependUsing:     clip(s),
			ports.DependCount:     strconv.Itoa(len(nums)),
			ports.DependFileLines: strings.Join(parts, ","),
		})
	}
	return rows
}

func clip(s string) string {
	if len(s) > config.MaxOutputStr {
		return s[:config.MaxOutputStr]
	}
	return s
}
