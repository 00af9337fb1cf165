// Package scheduler walks a target tree, resolves a preset per file, and
// fans file surveys out over a worker pool. It owns the job-level concerns:
// concurrency, the measure cache, and stable result ordering. Per-file
// semantics live in the survey engine.
package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/calipr/calipr/internal/adapters/ahocorasick"
	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/ports"
)

// Directory names never worth surveying.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".calipr":      true,
	"target":       true,
}

// Job describes one survey run over a tree or single file.
type Job struct {
	Root   string
	Verb   survey.Verb
	Params []string

	// Preset forces one preset for every file; empty resolves per
	// extension.
	Preset string

	// Overrides are CLI option applications layered on top of the preset.
	Overrides []config.OptionSetting

	// SkipUnknown drops files whose extension no preset claims instead of
	// falling back to the default preset.
	SkipUnknown bool

	Workers int

	// Cache holds per-file measures between runs. Only the measure verb is
	// cacheable; other verbs ignore it.
	Cache ports.MeasureCache

	// HaltOnError stops dispatching new files after the first file error.
	HaltOnError bool

	// AnalyzerFor builds the per-file analysis module for the analyze verb.
	AnalyzerFor func(*survey.Engine) ports.LineAnalyzer
}

// FileResult is the survey output of one file.
type FileResult struct {
	Path    string // display path, slash-separated, relative to the root
	AbsPath string
	Preset  string
	Cached  bool

	Measures   map[string]string
	Rows       []ports.Row
	LineErrors []error
}

// FileError records a file that could not be surveyed.
type FileError struct {
	Path string
	Err  error
}

// RunResult aggregates one job, sorted by path for repeatable output.
type RunResult struct {
	RunID  string
	Root   string
	Files  []FileResult
	Errors []FileError
}

type task struct {
	absPath     string
	displayPath string
	preset      string
}

// Scheduler runs jobs against a loaded preset table.
type Scheduler struct {
	presets *config.Presets
}

// New builds a scheduler over the preset table.
func New(presets *config.Presets) *Scheduler {
	return &Scheduler{presets: presets}
}

// Run executes the job and blocks until every file is surveyed.
func (s *Scheduler) Run(job Job) (*RunResult, error) {
	root := strings.TrimSpace(job.Root)
	if root == "" {
		return nil, errors.New("survey root is empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if job.Preset != "" && s.presets.ByName(job.Preset) == nil {
		return nil, fmt.Errorf("unknown preset %q", job.Preset)
	}
	if job.Verb == survey.VerbAnalyze && job.AnalyzerFor == nil {
		return nil, errors.New("analyze verb requires an analysis module")
	}

	workers := job.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	result := &RunResult{
		RunID: uuid.NewString(),
		Root:  absRoot,
	}
	log := common.Logger()
	log.Info("survey run starting",
		"run", result.RunID, "root", absRoot, "verb", string(job.Verb), "workers", workers)

	tasks := make(chan task, workers*4)
	type outcome struct {
		file *FileResult
		err  *FileError
	}
	outcomes := make(chan outcome, workers*4)
	walkErr := make(chan error, 1)
	var halted atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := newWorker(s.presets, &job)
			for t := range tasks {
				if job.HaltOnError && halted.Load() {
					continue
				}
				fr, err := w.surveyFile(t)
				if err != nil {
					halted.Store(true)
					outcomes <- outcome{err: &FileError{Path: t.displayPath, Err: err}}
					continue
				}
				outcomes <- outcome{file: fr}
			}
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErr <- s.enqueueTree(absRoot, &job, tasks, &halted)
			return
		}
		walkErr <- s.enqueueFile(absRoot, &job, tasks)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		if o.file != nil {
			result.Files = append(result.Files, *o.file)
		}
		if o.err != nil {
			result.Errors = append(result.Errors, *o.err)
		}
	}
	if err := <-walkErr; err != nil {
		return result, err
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	log.Info("survey run finished",
		"run", result.RunID, "files", len(result.Files), "errors", len(result.Errors))
	return result, nil
}

// resolvePreset picks the preset for one file path.
func (s *Scheduler) resolvePreset(path string, job *Job) (name string, ok bool) {
	if job.Preset != "" {
		return job.Preset, true
	}
	preset, claimed := s.presets.ForExtension(filepath.Ext(path))
	if !claimed && job.SkipUnknown {
		return "", false
	}
	return preset.Name, true
}

func (s *Scheduler) enqueueTree(root string, job *Job, tasks chan<- task, halted *atomic.Bool) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			common.Logger().Warn("walk error, skipping", "path", path, "error", walkErr)
			return nil
		}
		if entry.IsDir() {
			if skipDirs[entry.Name()] && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if job.HaltOnError && halted.Load() {
			return fs.SkipAll
		}

		preset, ok := s.resolvePreset(path, job)
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		tasks <- task{
			absPath:     path,
			displayPath: filepath.ToSlash(rel),
			preset:      preset,
		}
		return nil
	})
}

func (s *Scheduler) enqueueFile(path string, job *Job, tasks chan<- task) error {
	preset, ok := s.resolvePreset(path, job)
	if !ok {
		return fmt.Errorf("no preset claims extension %q", filepath.Ext(path))
	}
	tasks <- task{
		absPath:     path,
		displayPath: filepath.ToSlash(filepath.Base(path)),
		preset:      preset,
	}
	return nil
}

// worker carries the per-goroutine engine cache. Engines hold mutable rule
// hit counters, so workers never share them.
type worker struct {
	presets *config.Presets
	job     *Job
	engines map[string]*survey.Engine
}

func newWorker(presets *config.Presets, job *Job) *worker {
	return &worker{
		presets: presets,
		job:     job,
		engines: make(map[string]*survey.Engine),
	}
}

// engineFor compiles (once per worker) the engine for a preset, with the
// job's option overrides layered on.
func (w *worker) engineFor(preset string) (*survey.Engine, error) {
	if eng, ok := w.engines[preset]; ok {
		return eng, nil
	}
	opts, err := w.presets.BuildOptions(preset)
	if err != nil {
		return nil, err
	}
	for _, setting := range w.job.Overrides {
		if err := opts.Apply(setting.Name, setting.Value); err != nil {
			return nil, err
		}
	}
	// A typed nil *Matcher must not end up inside the interface value.
	var inline ports.PhraseMatcher
	if m := ahocorasick.New(opts.InlineMarkers); m != nil {
		inline = m
	}
	eng, err := survey.NewEngine(opts, inline)
	if err != nil {
		return nil, err
	}
	w.engines[preset] = eng
	return eng, nil
}

func (w *worker) surveyFile(t task) (*FileResult, error) {
	eng, err := w.engineFor(t.preset)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(t.absPath)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	meta := ports.FileMeta{Path: t.displayPath, SizeBytes: stat.Size()}

	cacheable := w.job.Verb == survey.VerbMeasure && w.job.Cache != nil
	if cacheable {
		if measures, ok := w.job.Cache.Get(t.absPath, stat.ModTime().UnixNano(), stat.Size()); ok {
			return &FileResult{
				Path:     t.displayPath,
				AbsPath:  t.absPath,
				Preset:   t.preset,
				Cached:   true,
				Measures: measures,
			}, nil
		}
	}

	req := survey.Request{Verb: w.job.Verb, Params: w.job.Params}
	if w.job.Verb == survey.VerbAnalyze {
		req.Analyzer = w.job.AnalyzerFor(eng)
	}

	lines, readErr := fileLines(t.absPath)
	res, err := eng.Run(lines, meta, req)
	if err != nil {
		return nil, err
	}
	if err := readErr(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if cacheable {
		if err := w.job.Cache.Put(t.absPath, stat.ModTime().UnixNano(), stat.Size(), res.Measures); err != nil {
			common.Logger().Warn("cache write failed", "path", t.displayPath, "error", err)
		}
	}

	return &FileResult{
		Path:       t.displayPath,
		AbsPath:    t.absPath,
		Preset:     t.preset,
		Measures:   res.Measures,
		Rows:       res.Rows,
		LineErrors: res.LineErrors,
	}, nil
}
