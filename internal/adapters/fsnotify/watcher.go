// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a source tree, skips
// build artifacts and VCS noise, and debounces rapid events (editors often
// trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/ports"
)

// Editors fire several events per save; events for the same path inside
// this window collapse into one.
const debounceWindow = 50 * time.Millisecond

// Directory names never worth re-surveying.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	".calipr":      true,
	"target":       true,
}

// File suffixes that are editor or build droppings, not source.
var skipSuffixes = []string{
	".DS_Store", ".swp", ".swx", ".tmp", "~",
	".pyc", ".o", ".a", ".so", ".dylib",
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch registers root and every directory below it, then dispatches change
// events to onChange from a background goroutine.
func (w *Watcher) Watch(root string, onChange func(path string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable subtrees are skipped, not fatal
		}
		if !info.IsDir() {
			return nil
		}
		if skipDirs[info.Name()] && path != absRoot {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
	if err != nil {
		return err
	}

	go w.dispatch(onChange)
	return nil
}

func (w *Watcher) dispatch(onChange func(path string)) {
	lastSeen := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories must join the watch set; fsnotify does not
			// recurse on its own.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !skipDirs[info.Name()] {
						_ = w.fw.Add(path)
					}
				}
			}

			if ignoredPath(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			now := time.Now()
			if last, seen := lastSeen[path]; seen && now.Sub(last) < debounceWindow {
				continue
			}
			lastSeen[path] = now

			onChange(path)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases resources. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// ignoredPath reports whether the path is editor or build noise.
func ignoredPath(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if skipDirs[part] {
			return true
		}
	}
	return false
}
