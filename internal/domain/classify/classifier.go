// Package classify implements the per-line blank and comment classifier.
// Classification of one line depends on a single piece of running state:
// whether a multi-line comment is being scanned. Nesting of multi-line
// comments (/* /* */ */) is ignored.
package classify

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/rex"
)

// Config holds the compiled patterns and policies for one classifier.
// Immutable after construction.
type Config struct {
	TrueBlank     *regexp2.Regexp
	Blank         *regexp2.Regexp
	BlankAdd      *regexp2.Regexp // optional
	BlankXML      *regexp2.Regexp
	XMLBlanks     bool
	Single        *regexp2.Regexp
	MultiOpen     *regexp2.Regexp // carries the remaining-line capture
	MultiOpenAt   *regexp2.Regexp // same pattern anchored at line start
	MultiClose    *regexp2.Regexp // carries the remaining-line capture
	StringLit     *regexp2.Regexp
	StripFirst    bool // strip strings and whitespace before comment checks
	SameLineClose bool // same-line open+close still counts as a comment line
}

// Build compiles a classifier config from options.
func Build(opts *config.Options) (Config, error) {
	cs := opts.CaseSensitive
	var cfg Config
	var err error
	if cfg.TrueBlank, err = rex.Compile(config.DefaultTrueBlank, cs); err != nil {
		return cfg, err
	}
	if cfg.Blank, err = rex.Compile(opts.BlankLine, cs); err != nil {
		return cfg, err
	}
	if opts.BlankLineAdd != "" {
		if cfg.BlankAdd, err = rex.Compile(opts.BlankLineAdd, cs); err != nil {
			return cfg, err
		}
	}
	if cfg.BlankXML, err = rex.Compile(config.DefaultBlankXML, cs); err != nil {
		return cfg, err
	}
	cfg.XMLBlanks = opts.BlankXML
	if cfg.Single, err = rex.Compile(opts.SingleComment, cs); err != nil {
		return cfg, err
	}
	open := opts.MultiOpen + config.RemainingLineAppend
	if cfg.MultiOpen, err = rex.Compile(open, cs); err != nil {
		return cfg, err
	}
	if cfg.MultiOpenAt, err = rex.Compile(`\A(?:`+open+`)`, cs); err != nil {
		return cfg, err
	}
	if cfg.MultiClose, err = rex.Compile(opts.MultiClose+config.RemainingLineAppend, cs); err != nil {
		return cfg, err
	}
	if cfg.StringLit, err = rex.Compile(opts.StringLiteral, cs); err != nil {
		return cfg, err
	}
	cfg.StripFirst = opts.StripBeforeComments
	cfg.SameLineClose = opts.SameLineCloseAsComment
	return cfg, nil
}

// Classifier evaluates lines against one compiled Config. Stateless; the
// multi-line scan flag travels with the caller.
type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// IsTrueBlank reports whether the line is whitespace only. This always wins
// before any other classification.
func (c *Classifier) IsTrueBlank(line string) bool {
	ok, _ := rex.Matches(c.cfg.TrueBlank, line) // ^\s*$ cannot time out
	return ok
}

// IsBlank reports whether the line is a faux blank: whitespace and
// content-free symbols only, or (when enabled) a lone XML tag, or a match of
// the additional blank pattern.
func (c *Classifier) IsBlank(line string) (bool, error) {
	if ok, err := rex.Matches(c.cfg.Blank, line); err != nil || ok {
		return ok, err
	}
	if c.cfg.XMLBlanks {
		if ok, err := rex.Matches(c.cfg.BlankXML, line); err != nil || ok {
			return ok, err
		}
	}
	if c.cfg.BlankAdd != nil {
		if ok, err := rex.Matches(c.cfg.BlankAdd, line); err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// StripStrings removes string literal bodies and surrounding whitespace, so
// later pattern checks are not fooled by string content.
func (c *Classifier) StripStrings(line string) (string, error) {
	out, err := rex.ReplaceAll(c.cfg.StringLit, line, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DetectComment determines whether the line is a comment line and advances
// the multi-line scanning state.
//
// This must run before blank detection: a multi-line delimiter alone on a
// line (say "/*") counts as a comment, not a blank.
func (c *Classifier) DetectComment(line string, scanning bool) (onComment, stillScanning bool, err error) {
	stillScanning = scanning

	stripLine := line
	if c.cfg.StripFirst {
		if stripLine, err = c.StripStrings(line); err != nil {
			return false, stillScanning, err
		}
	}

	// Single-line comments.
	if !scanning {
		if ok, merr := rex.Matches(c.cfg.Single, stripLine); merr != nil {
			return false, stillScanning, merr
		} else if ok {
			onComment = true
		}
	}

	if !onComment {
		if scanning {
			// Inside a multi-line comment, check for closure.
			onComment = true
			if ok, merr := rex.Matches(c.cfg.MultiClose, stripLine); merr != nil {
				return false, stillScanning, merr
			} else if ok {
				stillScanning = false
			}
		} else {
			// Check for the start of a multi-line comment.
			m, merr := rex.Search(c.cfg.MultiOpen, stripLine)
			if merr != nil {
				return false, stillScanning, merr
			}
			if m != nil {
				onComment = true
				stillScanning = true

				// The comment may close again on this same line; the
				// captured tail after the open token is what gets
				// re-tested.
				closeMatch, cerr := rex.Search(c.cfg.MultiClose, rex.Group(m, config.RemainingLineGroup))
				if cerr != nil {
					return false, stillScanning, cerr
				}
				if closeMatch != nil {
					stillScanning = false
					// With SameLineClose off, the line only stays a
					// comment when the open token led the line and
					// nothing followed the close token.
					if !c.cfg.SameLineClose {
						remaining := rex.Group(closeMatch, config.RemainingLineGroup)
						first, ferr := rex.Search(c.cfg.MultiOpenAt, stripLine)
						if ferr != nil {
							return false, stillScanning, ferr
						}
						if first == nil || strings.TrimSpace(remaining) != "" {
							onComment = false
						}
					}
				}
			}
		}
	}
	return onComment, stillScanning, nil
}
