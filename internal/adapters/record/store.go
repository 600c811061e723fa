// Package record implements the file-backed build record store.
package record

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RecordStore = (*Store)(nil)

// Store implements ports.RecordStore with one text file per record.
//
// A record file holds a single decimal integer of Unix nanoseconds.
// Records holding floating-point Unix seconds are accepted on read.
type Store struct{}

// NewStore creates a new record Store.
func NewStore() *Store {
	return &Store{}
}

// Get reads the build record at path.
func (s *Store) Get(path string) (*domain.BuildRecord, error) {
	//nolint:gosec // Path comes from the pipeline configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRecordReadFailed.Error()), "path", path)
	}

	builtAt, err := Parse(string(data))
	if err != nil {
		return nil, errors.Join(domain.ErrRecordCorrupt, zerr.With(err, "path", path))
	}

	return &domain.BuildRecord{LastBuiltAt: builtAt}, nil
}

// Put replaces the build record at path.
func (s *Store) Put(path string, rec domain.BuildRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordCreateFailed.Error()), "path", path)
	}

	//nolint:gosec // Path comes from the pipeline configuration
	if err := os.WriteFile(path, []byte(Format(rec.LastBuiltAt)), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordWriteFailed.Error()), "path", path)
	}

	return nil
}

// Remove deletes the build record at path.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordRemoveFailed.Error()), "path", path)
	}
	return nil
}

// Format serializes t as the content of a record file.
func Format(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10) + "\n"
}

// maxSecondsRecord bounds integer records read as whole seconds. Read as
// nanoseconds, such values would lie within the first 17 minutes of 1970.
const maxSecondsRecord = 1e12

// Parse reads a timestamp from the content of a record file.
//
// Integers are nanoseconds unless their magnitude is below maxSecondsRecord,
// in which case they are whole seconds. Decimal numbers are seconds.
func Parse(content string) (time.Time, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return time.Time{}, zerr.New("empty build record")
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n > -maxSecondsRecord && n < maxSecondsRecord {
			return time.Unix(n, 0), nil
		}
		return time.Unix(0, n), nil
	}

	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return time.Time{}, zerr.With(zerr.New("build record is not a number"), "content", text)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, zerr.With(zerr.New("build record is not a finite number"), "content", text)
	}

	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))), nil
}
