// Package dupes implements the duplicate line analysis module. Lines are
// fingerprinted with CRC32 after collapsing whitespace, so indentation-only
// differences still count as duplicates. Output is per file; aggregating
// rows across files finds cross-file duplication.
package dupes

import (
	"hash/crc32"
	"sort"
	"strconv"
	"strings"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/ports"
)

type lineGroup struct {
	content  string
	lineNums []int
}

// Analyzer collects line fingerprints for one file. Not safe for concurrent
// use; create one per survey.
type Analyzer struct {
	seen map[uint32]*lineGroup
}

// New returns a duplicate line analyzer for one file.
func New() *Analyzer {
	return &Analyzer{seen: make(map[uint32]*lineGroup)}
}

func (a *Analyzer) Name() string { return "dupes" }

// AnalyzeLine fingerprints one measured line.
//
// CRC32 is used over the faster adler32 because adler collides too often on
// short strings.
func (a *Analyzer) AnalyzeLine(line string, lineNum int, _ bool) error {
	collapsed := strings.Join(strings.Fields(line), " ")
	crc := crc32.ChecksumIEEE([]byte(collapsed))
	g, ok := a.seen[crc]
	if !ok {
		g = &lineGroup{content: collapsed}
		a.seen[crc] = g
	}
	g.lineNums = append(g.lineNums, lineNum)
	return nil
}

// Finish emits one row per distinct line, sorted by content for repeatable
// output.
func (a *Analyzer) Finish(_ ports.FileMeta) []ports.Row {
	groups := make([]*lineGroup, 0, len(a.seen))
	crcs := make(map[*lineGroup]uint32, len(a.seen))
	for crc, g := range a.seen {
		groups = append(groups, g)
		crcs[g] = crc
	}
	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].content) < strings.ToLower(groups[j].content)
	})

	rows := make([]ports.Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, ports.Row{
			ports.DupeCRC:       strconv.FormatUint(uint64(crcs[g]), 10),
			ports.DupeCount:     strconv.Itoa(len(g.lineNums)),
			ports.DupeContent:   clip(g.content),
			ports.DupeFileLines: joinLineNums(g.lineNums),
		})
	}
	return rows
}

func joinLineNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func clip(s string) string {
	if len(s) > config.MaxOutputStr {
		return s[:config.MaxOutputStr]
	}
	return s
}
