package ports

// MeasureCache persists per-file scalar measurements between runs so that
// unchanged files can be skipped. The backing store (bbolt) is
// project-scoped. Only the measure verb is cacheable; rows from routine and
// search surveys depend on run parameters and are always recomputed.
//
// Writes must be transactional: a crash mid-write must not corrupt
// previously committed entries.
type MeasureCache interface {
	// Get returns the cached measures for path if the fingerprint matches.
	// Returns nil, false on miss or stale entry.
	Get(path string, modTime, size int64) (map[string]string, bool)

	// Put stores measures for path under the given fingerprint,
	// overwriting any prior entry.
	Put(path string, modTime, size int64, measures map[string]string) error

	// Wipe removes every entry for the project. Idempotent.
	Wipe() error

	Close() error
}
