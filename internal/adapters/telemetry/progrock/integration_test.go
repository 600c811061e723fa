package progrock_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.New()
	require.NotNil(t, recorder)

	ctx, compile := recorder.Record(t.Context(), "shader game/shader.glsl")
	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, compile, fromCtx)

	_, err := compile.Stdout().Write([]byte("compiled\n"))
	require.NoError(t, err)
	_, err = compile.Stderr().Write([]byte("warning: unused uniform\n"))
	require.NoError(t, err)
	compile.Log(domain.LogLevelInfo, "rebuilt")
	compile.Log(domain.LogLevelWarn, "slow")
	compile.Complete(nil)

	_, cached := recorder.Record(t.Context(), "shader game/sprite.glsl")
	cached.Cached()
	cached.Complete(nil)

	_, build := recorder.Record(t.Context(), "build")
	build.Complete(errors.New("exit status 1"))

	assert.NoError(t, recorder.Close())
}

func TestRecorder_Open_WritesJournal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".kiln")
	recorder := progrock.New()

	// Updates before Open are discarded.
	_, early := recorder.Record(t.Context(), "shader game/early.glsl")
	early.Complete(nil)

	require.NoError(t, recorder.Open(dir))

	_, compile := recorder.Record(t.Context(), "shader game/shader.glsl")
	compile.Cached()
	compile.Complete(nil)

	_, build := recorder.Record(t.Context(), "build")
	build.Complete(errors.New("exit status 1"))

	require.NoError(t, recorder.Close())

	data, err := os.ReadFile(filepath.Join(dir, progrock.JournalFileName))
	require.NoError(t, err)

	journal := string(data)
	assert.Contains(t, journal, `"name":"shader game/shader.glsl"`)
	assert.Contains(t, journal, `"cached":true`)
	assert.Contains(t, journal, `"error":"exit status 1"`)
	assert.NotContains(t, journal, "early.glsl")
	assert.Contains(t, journal, `"inputs":["`+digest.FromString("shader game/shader.glsl").String()+`"]`)

	for _, line := range strings.Split(strings.TrimSpace(journal), "\n") {
		assert.True(t, json.Valid([]byte(line)), "invalid journal line %q", line)
	}
}

func TestRecorder_Open_Unwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	recorder := progrock.New()
	err := recorder.Open(filepath.Join(file, ".kiln"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to create journal directory")
	assert.NoError(t, recorder.Close())
}
