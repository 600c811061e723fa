package ports

import "go.trai.ch/kiln/internal/core/domain"

// RecordStore persists the time of the last successful build of a source.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RecordStore interface {
	// Get reads the record at path.
	// Returns nil, nil if the record does not exist.
	// Returns an error wrapping domain.ErrRecordCorrupt if the content is not a timestamp.
	Get(path string) (*domain.BuildRecord, error)

	// Put replaces the record at path.
	Put(path string, rec domain.BuildRecord) error

	// Remove deletes the record at path. Removing a missing record is not an error.
	Remove(path string) error
}
