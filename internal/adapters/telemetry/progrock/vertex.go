package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is one pipeline step in the journal.
type Vertex struct {
	step *progrock.VertexRecorder
}

// Stdout returns the journal stream for the step's tool output.
func (v *Vertex) Stdout() io.Writer {
	return v.step.Stdout()
}

// Stderr returns the journal stream for the step's tool diagnostics.
func (v *Vertex) Stderr() io.Writer {
	return v.step.Stderr()
}

// Log adds a kiln message to the step. Warnings and errors go to the diagnostics stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	out := v.step.Stdout()
	if level >= domain.LogLevelWarn {
		out = v.step.Stderr()
	}
	_, _ = fmt.Fprintf(out, "kiln %s: %s\n", level, msg)
}

// Complete ends the step. A non-nil err is stored as the step error,
// or marks the step canceled when it stems from context cancellation.
func (v *Vertex) Complete(err error) {
	v.step.Done(err)
}

// Cached marks a shader step whose build record is fresh.
func (v *Vertex) Cached() {
	v.step.Cached()
}
