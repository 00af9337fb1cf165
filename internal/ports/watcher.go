package ports

// Watcher monitors a directory tree and reports changed files. Used by the
// watch command to re-survey files as they are edited. Implementations
// debounce rapid events (editors often trigger multiple writes per save).
type Watcher interface {
	// Watch starts monitoring root recursively and returns once the watch
	// is established. onChange receives the absolute path of each changed
	// file from a background goroutine until Stop is called.
	Watch(root string, onChange func(path string)) error

	// Stop terminates the watch loop and releases resources.
	Stop() error
}
