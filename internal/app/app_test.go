package app_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/record"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/detector"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	pipeline *domain.Pipeline
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	launcher *mocks.MockLauncher
	logger   *mocks.MockLogger
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	source := filepath.Join(root, "game", "shader.glsl")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), domain.DirPerm))
	require.NoError(t, os.WriteFile(source, []byte("@vs vs\n@end\n"), domain.FilePerm))

	modTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(source, modTime, modTime))

	f := &fixture{
		root:     root,
		pipeline: domain.DefaultPipeline(root),
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		launcher: mocks.NewMockLauncher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	store := record.NewStore()
	det := detector.New(store, clockwork.NewFakeClockAt(modTime.Add(time.Hour)))
	tel := telemetry.NewNoOp()
	runner := pipeline.NewRunner(det, f.executor, f.launcher, tel, f.logger)

	f.app = app.New(f.loader, runner, det, store, tel, f.logger).WithWorkDir(root)
	f.loader.EXPECT().Load(root, gomock.Any()).Return(f.pipeline, nil).AnyTimes()
	return f
}

func mustRun(t *testing.T, a *app.App, opts app.RunOptions) []domain.StepResult {
	t.Helper()
	results, err := a.Run(t.Context(), opts)
	require.NoError(t, err)
	return results
}

func TestApp_Run_RebuildsThenSkips(t *testing.T) {
	f := newFixture(t)
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any()).Times(0)

	// First run: no record yet.
	gomock.InOrder(
		f.logger.EXPECT().Info(`Shader "game/shader.glsl" has changed, rebuilding...`),
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		f.logger.EXPECT().Info("Building the game..."),
		f.executor.EXPECT().Execute(gomock.Any(), f.pipeline.Build, gomock.Any(), gomock.Any()).Return(nil),
	)
	mustRun(t, f.app, app.RunOptions{NoLaunch: true})
	assert.FileExists(t, filepath.Join(f.root, "game", "shader.timestamp"))

	// Second run: the record is newer than the source.
	gomock.InOrder(
		f.logger.EXPECT().Info(`Shader "game/shader.glsl" has not changed, skipping rebuild.`),
		f.logger.EXPECT().Info("Building the game..."),
		f.executor.EXPECT().Execute(gomock.Any(), f.pipeline.Build, gomock.Any(), gomock.Any()).Return(nil),
	)
	mustRun(t, f.app, app.RunOptions{NoLaunch: true})
}

func TestApp_Run_CompileFailure(t *testing.T) {
	f := newFixture(t)

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	_, err := f.app.Run(t.Context(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrShaderCompileFailed)
	assert.NoFileExists(t, filepath.Join(f.root, "game", "shader.timestamp"))
}

func TestApp_Run_Launch(t *testing.T) {
	f := newFixture(t)

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.launcher.EXPECT().Launch(gomock.Any(), f.pipeline.Launch).Return(100, nil)

	mustRun(t, f.app, app.RunOptions{})
}

func TestApp_Run_ReturnsStepResults(t *testing.T) {
	f := newFixture(t)

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	results, err := f.app.Run(t.Context(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrShaderCompileFailed)
	assert.Equal(t, []domain.StepResult{
		{Name: pipeline.ShaderStep("game/shader.glsl"), Status: domain.StepStatusFailed},
		{Name: pipeline.StepBuild, Status: domain.StepStatusPending},
		{Name: pipeline.StepLaunch, Status: domain.StepStatusPending},
	}, results)
}

func TestApp_Run_WritesJournal(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	runner := pipeline.NewRunner(mocks.NewMockChangeDetector(ctrl), f.executor, f.launcher, tel, f.logger)
	a := app.New(f.loader, runner, nil, nil, tel, f.logger).WithWorkDir(f.root)

	f.pipeline.Shaders = nil
	f.pipeline.Launch = nil
	vertex := telemetry.NoOpVertex{}
	gomock.InOrder(
		tel.EXPECT().Open(filepath.Join(f.root, domain.KilnDirName)).Return(nil),
		tel.EXPECT().Record(gomock.Any(), pipeline.StepBuild).Return(t.Context(), &vertex),
		tel.EXPECT().Close().Return(nil),
	)
	f.logger.EXPECT().Info("Building the game...")
	f.executor.EXPECT().Execute(gomock.Any(), f.pipeline.Build, gomock.Any(), gomock.Any()).Return(nil)

	mustRun(t, a, app.RunOptions{})
}

func TestApp_Run_JournalOpenError(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	a := app.New(f.loader, nil, nil, nil, tel, f.logger).WithWorkDir(f.root)

	tel.EXPECT().Open(gomock.Any()).Return(errors.New("read-only file system"))

	_, err := a.Run(t.Context(), app.RunOptions{})
	require.ErrorContains(t, err, "read-only file system")
}

func TestApp_Run_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), "broken.yaml").Return(nil, domain.ErrConfigParseFailed)

	a := app.New(loader, nil, nil, nil, telemetry.NewNoOp(), mocks.NewMockLogger(ctrl))

	_, err := a.Run(t.Context(), app.RunOptions{ConfigPath: "broken.yaml"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Status(t *testing.T) {
	f := newFixture(t)

	statuses, err := f.app.Status(t.Context(), app.StatusOptions{})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "game/shader.glsl", statuses[0].Source)
	assert.Equal(t, domain.FreshnessStale, statuses[0].Freshness)
	assert.NoFileExists(t, filepath.Join(f.root, "game", "shader.timestamp"))

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	mustRun(t, f.app, app.RunOptions{NoLaunch: true})

	statuses, err = f.app.Status(t.Context(), app.StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.FreshnessFresh, statuses[0].Freshness)
}

func TestApp_Status_MissingSource(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.root, "game", "shader.glsl")))
	recordPath := filepath.Join(f.root, "game", "shader.timestamp")
	require.NoError(t, os.WriteFile(recordPath, []byte(record.Format(time.Now())), domain.FilePerm))

	_, err := f.app.Status(t.Context(), app.StatusOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrSourceStatFailed.Error())
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	recordPath := filepath.Join(f.root, "game", "shader.timestamp")
	require.NoError(t, os.WriteFile(recordPath, []byte(record.Format(time.Now())), domain.FilePerm))

	f.logger.EXPECT().Info("removed game/shader.timestamp")
	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))
	assert.NoFileExists(t, recordPath)

	// Cleaning again is a no-op.
	f.logger.EXPECT().Info("removed game/shader.timestamp")
	require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))
}

func TestApp_SetVerbose(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().SetVerbose(true)

	app.New(nil, nil, nil, nil, nil, log).SetVerbose(true)
}
