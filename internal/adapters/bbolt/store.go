// Package bbolt implements the ports.MeasureCache interface using bbolt
// (embedded B+ tree). Each project gets its own top-level bucket keyed by
// file path. Writes are transactional: a crash mid-write cannot corrupt
// previously committed entries.
package bbolt

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/ports"
)

// Cache implements ports.MeasureCache backed by bbolt.
type Cache struct {
	db      *bolt.DB
	project []byte
}

var _ ports.MeasureCache = (*Cache)(nil)

// NewCache opens (or creates) a cache database at path, scoped to one
// project bucket.
func NewCache(path, projectID string) (*Cache, error) {
	if projectID == "" {
		return nil, fmt.Errorf("empty project id")
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Cache{db: db, project: []byte(projectID)}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached measures for path when the stat fingerprint still
// matches. A decode failure counts as a miss; the entry will be overwritten
// on the next Put.
func (c *Cache) Get(path string, modTime, size int64) (map[string]string, bool) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket(c.project)
		if proj == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid
		// within tx).
		if v := proj.Get([]byte(path)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, false
	}

	gotMod, gotSize, err := decodeHeader(data)
	if err != nil || gotMod != modTime || gotSize != size {
		return nil, false
	}
	measures, err := decodeMeasures(data)
	if err != nil {
		common.Logger().Warn("cache entry corrupt, treating as miss",
			"path", path, "error", err)
		return nil, false
	}
	return measures, true
}

// Put stores measures for path under the given fingerprint, overwriting any
// prior entry.
func (c *Cache) Put(path string, modTime, size int64, measures map[string]string) error {
	data, err := encodeEntry(modTime, size, measures)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists(c.project)
		if err != nil {
			return err
		}
		return proj.Put([]byte(path), data)
	})
}

// Wipe removes every entry for the project. Idempotent: wiping a project
// that was never cached is not an error.
func (c *Cache) Wipe() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(c.project); err == bolt.ErrBucketNotFound {
			return nil
		} else {
			return err
		}
	})
}
