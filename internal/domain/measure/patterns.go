package measure

import (
	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
)

// Patterns holds the compiled keyword detectors shared by per-file
// measurement and per-routine analysis. Immutable after construction.
type Patterns struct {
	Imports      *regexp2.Regexp
	Classes      *regexp2.Regexp
	Preprocessor *regexp2.Regexp
	Routine      *regexp2.Regexp
	Decisions    *regexp2.Regexp
	Cases        *regexp2.Regexp
	Escapes      *regexp2.Regexp
	Booleans     *regexp2.Regexp
	DeadCode     *regexp2.Regexp
}

// BuildPatterns compiles the keyword detectors from options.
func BuildPatterns(opts *config.Options) (Patterns, error) {
	cs := opts.CaseSensitive
	var p Patterns
	var err error
	if p.Imports, err = rex.Compile(opts.Imports, cs); err != nil {
		return p, err
	}
	if p.Classes, err = rex.Compile(opts.Classes, cs); err != nil {
		return p, err
	}
	if p.Preprocessor, err = rex.Compile(opts.Preprocessor, cs); err != nil {
		return p, err
	}
	if p.Routine, err = rex.Compile(opts.RoutineStart, cs); err != nil {
		return p, err
	}
	if p.Decisions, err = rex.Compile(opts.Decisions, cs); err != nil {
		return p, err
	}
	if p.Cases, err = rex.Compile(opts.Cases, cs); err != nil {
		return p, err
	}
	if p.Escapes, err = rex.Compile(opts.Escapes, cs); err != nil {
		return p, err
	}
	if p.Booleans, err = rex.Compile(opts.Booleans, cs); err != nil {
		return p, err
	}
	if p.DeadCode, err = rex.Compile(opts.DeadCode, cs); err != nil {
		return p, err
	}
	return p, nil
}
