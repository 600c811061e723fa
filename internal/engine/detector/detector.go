// Package detector implements the staleness gate that decides whether a
// shader source must be recompiled.
package detector

import (
	"errors"
	"os"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ChangeDetector = (*Detector)(nil)

// Detector compares a source's modification time with its build record.
type Detector struct {
	store ports.RecordStore
	clock clockwork.Clock
}

// New creates a Detector persisting records through store and reading the time from clock.
func New(store ports.RecordStore, clock clockwork.Clock) *Detector {
	return &Detector{
		store: store,
		clock: clock,
	}
}

// NeedsRebuild reports whether sourcePath must be rebuilt.
//
// A missing or corrupt record means the source was never built. Otherwise the
// source is stale exactly when its modification time is after the recorded time.
// A source whose modification time cannot be read is an error.
func (d *Detector) NeedsRebuild(sourcePath, recordPath string) (bool, error) {
	rec, err := d.store.Get(recordPath)
	if err != nil && !errors.Is(err, domain.ErrRecordCorrupt) {
		return false, err
	}
	if rec == nil && err == nil {
		return true, nil
	}

	info, statErr := os.Stat(sourcePath)
	if statErr != nil {
		return false, zerr.With(zerr.Wrap(statErr, domain.ErrSourceStatFailed.Error()), "path", sourcePath)
	}

	if err != nil {
		return true, nil
	}

	rec.SourcePath = sourcePath
	return rec.IsStale(info.ModTime()), nil
}

// RecordBuilt stores the current time as the last successful build at recordPath.
// It must only be called after the external build step succeeded.
func (d *Detector) RecordBuilt(recordPath string) error {
	return d.store.Put(recordPath, domain.BuildRecord{LastBuiltAt: d.clock.Now()})
}

// State returns the freshness of sourcePath.
func (d *Detector) State(sourcePath, recordPath string) (domain.Freshness, error) {
	stale, err := d.NeedsRebuild(sourcePath, recordPath)
	if err != nil {
		return domain.FreshnessStale, err
	}
	return domain.FreshnessOf(stale), nil
}
