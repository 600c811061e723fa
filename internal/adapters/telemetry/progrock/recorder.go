// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// JournalFileName is the name of the step journal written into the directory passed to Open.
const JournalFileName = "journal.jsonl"

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry on a progrock recorder.
// Every pipeline step becomes one vertex. Until Open is called, updates are discarded.
type Recorder struct {
	rec *progrock.Recorder
	// prev is the digest of the last recorded step; the next step takes it as input.
	prev digest.Digest
}

// New creates a new Recorder that discards updates until Open is called.
func New() *Recorder {
	return NewRecorder(progrock.Discard{})
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{rec: progrock.NewRecorder(w)}
}

// Open starts a journal of the run in dir, replacing the journal of the previous run.
// Each line of the journal is one JSON encoded progrock status update.
func (r *Recorder) Open(dir string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create journal directory"), "dir", dir)
	}

	path := filepath.Join(dir, JournalFileName)
	journal, err := progrock.CreateJournal(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create journal"), "path", path)
	}

	_ = r.rec.Close()
	r.rec = progrock.NewRecorder(journal)
	r.prev = ""
	return nil
}

// Record starts a vertex for the named step. Steps are chained in the order
// they are recorded, so the journal keeps the pipeline order.
// The vertex digest is derived from the name, so step names must be unique within a run.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	dig := digest.FromString(name)

	var opts []progrock.VertexOpt
	if r.prev != "" {
		opts = append(opts, progrock.WithInputs(r.prev))
	}
	r.prev = dig

	vertex := &Vertex{step: r.rec.Vertex(dig, name, opts...)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close completes the run and closes the journal.
func (r *Recorder) Close() error {
	r.rec.Complete()
	return r.rec.Close()
}
