// Binary encoding for measure cache entries.
//
// Entry format (little-endian):
//
//	modTime:  int64 (unix nanoseconds)
//	size:     int64
//	measures: gob-encoded map[string]string
//
// The fixed 16-byte fingerprint header comes first so a staleness check only
// reads two integers; the measures map is gob-decoded on a hit.
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

const headerSize = 16

// encodeEntry packs a fingerprint header and the gob-encoded measures.
func encodeEntry(modTime, size int64, measures map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	var header [headerSize]byte
	binary.LittleEndian.PutUint64(header[0:], uint64(modTime))
	binary.LittleEndian.PutUint64(header[8:], uint64(size))
	buf.Write(header[:])

	if err := gob.NewEncoder(&buf).Encode(measures); err != nil {
		return nil, fmt.Errorf("encode measures: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeHeader reads the fingerprint without touching the measures blob.
func decodeHeader(data []byte) (modTime, size int64, err error) {
	if len(data) < headerSize {
		return 0, 0, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	modTime = int64(binary.LittleEndian.Uint64(data[0:]))
	size = int64(binary.LittleEndian.Uint64(data[8:]))
	return modTime, size, nil
}

// decodeMeasures unpacks the measures map from a full entry.
func decodeMeasures(data []byte) (map[string]string, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	var measures map[string]string
	if err := gob.NewDecoder(bytes.NewReader(data[headerSize:])).Decode(&measures); err != nil {
		return nil, fmt.Errorf("decode measures: %w", err)
	}
	return measures, nil
}
