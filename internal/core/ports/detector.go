package ports

import "go.trai.ch/kiln/internal/core/domain"

// ChangeDetector decides whether a source needs rebuilding and records successful builds.
//
//go:generate mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type ChangeDetector interface {
	// NeedsRebuild reports whether sourcePath changed since the build recorded at recordPath.
	NeedsRebuild(sourcePath, recordPath string) (bool, error)

	// RecordBuilt stores the current time at recordPath.
	RecordBuilt(recordPath string) error

	// State returns the freshness of sourcePath against recordPath.
	State(sourcePath, recordPath string) (domain.Freshness, error)
}
