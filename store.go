package httpreplay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRecorded is returned when no entry exists for a fingerprint.
//
// It is only surfaced by direct store reads; a playback round trip converts
// the condition into a 404 response instead.
var ErrNotRecorded = errors.New("no recorded entry")

// store persists raw HTTP responses as one file per fingerprint under dir.
// No extension, no sharding, no locking: the last writer for a fingerprint
// wins.
type store struct {
	dir string
}

func (s store) path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint)
}

// exists reports whether an entry is present for the fingerprint.
func (s store) exists(fingerprint string) bool {
	_, err := os.Stat(s.path(fingerprint))
	return err == nil
}

// write persists raw response bytes, overwriting any previous entry for the
// same fingerprint. The cache directory is created if needed.
func (s store) write(fingerprint string, raw []byte) error {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.path(fingerprint), raw, 0644); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// read returns the raw response bytes previously written for the
// fingerprint, or ErrNotRecorded if there are none.
func (s store) read(fingerprint string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(fingerprint))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", fingerprint, ErrNotRecorded)
	}
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	return raw, nil
}
