// export_test.go exports private functions for white-box testing.
package shell

import (
	"io"
	"testing"

	"go.trai.ch/kiln/internal/core/ports"
)

// Exported helpers for tests.
var (
	ResolveEnvironmentExported = resolveEnvironment
	ResolveExecutableExported  = resolveExecutable
	LookPathExported           = lookPath
)

// NewLogWriterExported creates a line buffering log writer for tests.
func NewLogWriterExported(l ports.Logger, warn bool) io.WriteCloser {
	level := levelInfo
	if warn {
		level = levelWarn
	}
	return &logWriter{logger: l, level: level}
}

// SetGOOS applies the environment rules of the given platform until the test ends.
func SetGOOS(t *testing.T, value string) {
	t.Helper()
	prev := goos
	goos = value
	t.Cleanup(func() { goos = prev })
}
