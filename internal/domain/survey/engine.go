// Package survey orchestrates the per-file measurement pipeline: line
// preprocessing, block detection, blank and comment classification, line
// measurement, and verb-specific analysis (routines, search, analyze
// modules).
package survey

import (
	"fmt"

	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/blocks"
	"github.com/calipr/calipr/internal/domain/classify"
	"github.com/calipr/calipr/internal/domain/measure"
	"github.com/calipr/calipr/internal/domain/rex"
	"github.com/calipr/calipr/internal/ports"
)

// Verb selects what a survey does with each file.
type Verb string

const (
	VerbMeasure     Verb = "measure"
	VerbTempMeasure Verb = "tempmeasure"
	VerbRoutines    Verb = "routines"
	VerbSearch      Verb = "search"
	VerbAnalyze     Verb = "analyze"
)

// Verbs lists every supported verb.
func Verbs() []Verb {
	return []Verb{VerbMeasure, VerbTempMeasure, VerbRoutines, VerbSearch, VerbAnalyze}
}

// ParseVerb validates a verb string.
func ParseVerb(s string) (Verb, error) {
	for _, v := range Verbs() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown verb %q", s)
}

// Engine holds the compiled form of one Options set. Engines are immutable
// and reusable across files, but a single engine must not run two surveys
// concurrently through shared rule hit counters; create one engine per
// worker.
type Engine struct {
	opts       *config.Options
	classifier *classify.Classifier
	table      blocks.Table
	patterns   measure.Patterns
	inline     ports.PhraseMatcher
	skipRe     *regexp2.Regexp
}

// NewEngine compiles opts. The inline matcher covers the configured inline
// comment markers and may be nil when there are none.
func NewEngine(opts *config.Options, inline ports.PhraseMatcher) (*Engine, error) {
	cfg, err := classify.Build(opts)
	if err != nil {
		return nil, err
	}
	table, err := blocks.BuildTable(opts)
	if err != nil {
		return nil, err
	}
	patterns, err := measure.BuildPatterns(opts)
	if err != nil {
		return nil, err
	}
	var skipRe *regexp2.Regexp
	if opts.SkipLine != "" {
		if skipRe, err = rex.Compile(opts.SkipLine, opts.CaseSensitive); err != nil {
			return nil, err
		}
	}
	return &Engine{
		opts:       opts,
		classifier: classify.New(cfg),
		table:      table,
		patterns:   patterns,
		inline:     inline,
		skipRe:     skipRe,
	}, nil
}

// Options returns the engine's configuration.
func (e *Engine) Options() *config.Options { return e.opts }

// Classifier exposes the compiled line classifier.
func (e *Engine) Classifier() *classify.Classifier { return e.classifier }

// Patterns exposes the compiled keyword detectors.
func (e *Engine) Patterns() measure.Patterns { return e.patterns }

// preprocess caps the line length and strips NUL characters that multibyte
// file formats leave behind.
func (e *Engine) preprocess(line string) string {
	if len(line) > e.opts.MaxLineLength {
		line = line[:e.opts.MaxLineLength]
	}
	return stripNulls(line)
}

func stripNulls(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			b := make([]byte, 0, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] != 0 {
					b = append(b, s[j])
				}
			}
			return string(b)
		}
	}
	return s
}
