package domain

import "time"

// BuildRecord associates a watched source with the time of its last successful build.
type BuildRecord struct {
	SourcePath  string
	LastBuiltAt time.Time
}

// IsStale reports whether a source last modified at modTime is newer than the record.
// Equal times are fresh.
func (r BuildRecord) IsStale(modTime time.Time) bool {
	return modTime.After(r.LastBuiltAt)
}

// Freshness is the two-state build status of a tracked source.
type Freshness int

const (
	// FreshnessStale means the source must be rebuilt. It is the initial state.
	FreshnessStale Freshness = iota
	// FreshnessFresh means the last successful build is newer than the source.
	FreshnessFresh
)

// String returns the upper-case name of the state.
func (f Freshness) String() string {
	if f == FreshnessFresh {
		return "FRESH"
	}
	return "STALE"
}

// FreshnessOf maps a rebuild decision to its state.
func FreshnessOf(needsRebuild bool) Freshness {
	if needsRebuild {
		return FreshnessStale
	}
	return FreshnessFresh
}
