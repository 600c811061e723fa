package pipeline_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	detector *mocks.MockChangeDetector
	executor *mocks.MockExecutor
	launcher *mocks.MockLauncher
	logger   *mocks.MockLogger
	runner   *pipeline.Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		detector: mocks.NewMockChangeDetector(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		launcher: mocks.NewMockLauncher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.runner = pipeline.NewRunner(f.detector, f.executor, f.launcher, telemetry.NewNoOp(), f.logger)
	return f
}

func testPipeline() *domain.Pipeline {
	return domain.DefaultPipeline("/project")
}

var (
	sourcePath = filepath.Join("/project", "game", "shader.glsl")
	recordPath = filepath.Join("/project", "game", "shader.timestamp")
)

func compileArgs() []string {
	return []string{
		"sokol-shdc", "-i", "game/shader.glsl", "-o", "game/shader.odin",
		"-l", "hlsl5:wgsl", "-f", "sokol_odin", "--save-intermediate-spirv",
	}
}

func argsEq(args []string) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		cmd, ok := x.(*domain.Command)
		return ok && assert.ObjectsAreEqual(args, cmd.Args)
	})
}

func TestRunner_Run_StaleShader(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	gomock.InOrder(
		f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(true, nil),
		f.logger.EXPECT().Info(`Shader "game/shader.glsl" has changed, rebuilding...`),
		f.executor.EXPECT().Execute(gomock.Any(), argsEq(compileArgs()), gomock.Any(), gomock.Any()).Return(nil),
		f.detector.EXPECT().RecordBuilt(recordPath).Return(nil),
		f.logger.EXPECT().Info("Building the game..."),
		f.executor.EXPECT().Execute(gomock.Any(), p.Build, gomock.Any(), gomock.Any()).Return(nil),
		f.logger.EXPECT().Info("Running game.exe..."),
		f.launcher.EXPECT().Launch(gomock.Any(), p.Launch).Return(4242, nil),
	)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, []domain.StepResult{
		{Name: "shader game/shader.glsl", Status: domain.StepStatusCompleted},
		{Name: pipeline.StepBuild, Status: domain.StepStatusCompleted},
		{Name: pipeline.StepLaunch, Status: domain.StepStatusCompleted},
	}, results)
}

func TestRunner_Run_FreshShaderSkipsCompile(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	gomock.InOrder(
		f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(false, nil),
		f.logger.EXPECT().Info(`Shader "game/shader.glsl" has not changed, skipping rebuild.`),
		f.logger.EXPECT().Info("Building the game..."),
		f.executor.EXPECT().Execute(gomock.Any(), p.Build, gomock.Any(), gomock.Any()).Return(nil),
		f.logger.EXPECT().Info("Running game.exe..."),
		f.launcher.EXPECT().Launch(gomock.Any(), p.Launch).Return(1, nil),
	)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.StepStatusCached, results[0].Status)
	assert.Equal(t, pipeline.ShaderStep("game/shader.glsl"), results[0].Name)
}

func TestRunner_Run_ForceSkipsDetector(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	f.detector.EXPECT().NeedsRebuild(gomock.Any(), gomock.Any()).Times(0)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), argsEq(compileArgs()), gomock.Any(), gomock.Any()).Return(nil)
	f.detector.EXPECT().RecordBuilt(recordPath).Return(nil)
	f.executor.EXPECT().Execute(gomock.Any(), p.Build, gomock.Any(), gomock.Any()).Return(nil)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{Force: true, NoLaunch: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StepStatusSkipped, results[2].Status)
}

func TestRunner_Run_CompileFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()
	compileErr := errors.New("exit status 1")

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(true, nil)
	f.executor.EXPECT().Execute(gomock.Any(), argsEq(compileArgs()), gomock.Any(), gomock.Any()).Return(compileErr)
	f.detector.EXPECT().RecordBuilt(gomock.Any()).Times(0)
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any()).Times(0)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrShaderCompileFailed)
	assert.ErrorContains(t, err, compileErr.Error())

	assert.Equal(t, []domain.StepResult{
		{Name: "shader game/shader.glsl", Status: domain.StepStatusFailed},
		{Name: pipeline.StepBuild, Status: domain.StepStatusPending},
		{Name: pipeline.StepLaunch, Status: domain.StepStatusPending},
	}, results)
}

func TestRunner_Run_StaleCheckFailure(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()
	statErr := errors.New("failed to stat shader source")

	f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(false, statErr)

	_, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to stat shader source")
}

func TestRunner_Run_RecordWriteFailure(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(true, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.detector.EXPECT().RecordBuilt(recordPath).Return(errors.New("failed to write build record"))

	_, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to write build record")
}

func TestRunner_Run_BuildFailure(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(false, nil)
	f.executor.EXPECT().Execute(gomock.Any(), p.Build, gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any()).Times(0)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Equal(t, domain.StepStatusFailed, results[1].Status)
	assert.Equal(t, domain.StepStatusPending, results[2].Status)
}

func TestRunner_Run_LaunchFailure(t *testing.T) {
	f := newFixture(t)
	p := testPipeline()

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.detector.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(false, nil)
	f.executor.EXPECT().Execute(gomock.Any(), p.Build, gomock.Any(), gomock.Any()).Return(nil)
	f.launcher.EXPECT().Launch(gomock.Any(), p.Launch).Return(0, errors.New("no such file"))

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrLaunchFailed)
	assert.Equal(t, domain.StepStatusFailed, results[2].Status)
}

func TestRunner_Run_MultipleShadersStopAtFirstFailure(t *testing.T) {
	f := newFixture(t)
	p := &domain.Pipeline{
		Root:     "/project",
		Compiler: "sokol-shdc",
		Shaders: []domain.ShaderTarget{
			{Source: "a.glsl", Output: "a.odin", Record: "a.timestamp"},
			{Source: "b.glsl", Output: "b.odin", Record: "b.timestamp"},
			{Source: "c.glsl", Output: "c.odin", Record: "c.timestamp"},
		},
	}

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	gomock.InOrder(
		f.detector.EXPECT().NeedsRebuild(filepath.Join("/project", "a.glsl"), filepath.Join("/project", "a.timestamp")).Return(false, nil),
		f.detector.EXPECT().NeedsRebuild(filepath.Join("/project", "b.glsl"), filepath.Join("/project", "b.timestamp")).Return(true, nil),
		f.executor.EXPECT().
			Execute(gomock.Any(), argsEq([]string{"sokol-shdc", "-i", "b.glsl", "-o", "b.odin"}), gomock.Any(), gomock.Any()).
			Return(errors.New("exit status 1")),
	)

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrShaderCompileFailed)
	assert.Equal(t, []domain.StepResult{
		{Name: "shader a.glsl", Status: domain.StepStatusCached},
		{Name: "shader b.glsl", Status: domain.StepStatusFailed},
		{Name: "shader c.glsl", Status: domain.StepStatusPending},
		{Name: pipeline.StepBuild, Status: domain.StepStatusPending},
		{Name: pipeline.StepLaunch, Status: domain.StepStatusPending},
	}, results)
}

func TestRunner_Run_NoBuildNoLaunch(t *testing.T) {
	f := newFixture(t)
	p := &domain.Pipeline{Root: "/project"}

	results, err := f.runner.Run(t.Context(), p, pipeline.Options{})
	require.NoError(t, err)
	assert.Equal(t, []domain.StepResult{
		{Name: pipeline.StepBuild, Status: domain.StepStatusSkipped},
		{Name: pipeline.StepLaunch, Status: domain.StepStatusSkipped},
	}, results)
}

func TestRunner_Run_RecordsTelemetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	det := mocks.NewMockChangeDetector(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	log := mocks.NewMockLogger(ctrl)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	runner := pipeline.NewRunner(det, executor, mocks.NewMockLauncher(ctrl), tel, log)
	p := testPipeline()

	log.EXPECT().Info(gomock.Any()).AnyTimes()
	tel.EXPECT().Record(gomock.Any(), "shader game/shader.glsl").Return(t.Context(), vertex)
	tel.EXPECT().Record(gomock.Any(), pipeline.StepBuild).Return(t.Context(), vertex)
	det.EXPECT().NeedsRebuild(sourcePath, recordPath).Return(false, nil)
	vertex.EXPECT().Cached()
	vertex.EXPECT().Log(domain.LogLevelInfo, p.Build.String())
	vertex.EXPECT().Stdout().Return(nil)
	vertex.EXPECT().Stderr().Return(nil)
	executor.EXPECT().Execute(gomock.Any(), p.Build, nil, nil).Return(nil)
	vertex.EXPECT().Complete(nil).Times(2)

	_, err := runner.Run(t.Context(), p, pipeline.Options{NoLaunch: true})
	require.NoError(t, err)
}
