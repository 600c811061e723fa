// Package pipeline runs the kiln pipeline: compile stale shaders, build, launch.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Step names used for telemetry vertices and results.
const (
	StepBuild  = "build"
	StepLaunch = "launch"
)

// ShaderStep returns the step name of the shader compiled from source.
func ShaderStep(source string) string {
	return "shader " + source
}

// Options controls a pipeline run.
type Options struct {
	// Force recompiles every shader regardless of its build record.
	Force bool
	// NoLaunch stops after the build step.
	NoLaunch bool
}

// Runner executes the steps of a pipeline strictly in order.
type Runner struct {
	detector  ports.ChangeDetector
	executor  ports.Executor
	launcher  ports.Launcher
	telemetry ports.Telemetry
	logger    ports.Logger

	stepStatus map[string]domain.StepStatus
}

// NewRunner creates a new Runner.
func NewRunner(
	detector ports.ChangeDetector,
	executor ports.Executor,
	launcher ports.Launcher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Runner {
	return &Runner{
		detector:   detector,
		executor:   executor,
		launcher:   launcher,
		telemetry:  telemetry,
		logger:     logger,
		stepStatus: make(map[string]domain.StepStatus),
	}
}

// Run executes the pipeline and returns the result of every step in order.
//
// The first failing step aborts the run. A shader whose compilation fails keeps
// its previous build record.
func (r *Runner) Run(ctx context.Context, p *domain.Pipeline, opts Options) ([]domain.StepResult, error) {
	r.initStepStatuses(p)

	for i := range p.Shaders {
		if err := r.compileShader(ctx, p, &p.Shaders[i], opts.Force); err != nil {
			return r.results(p), err
		}
	}

	if err := r.build(ctx, p); err != nil {
		return r.results(p), err
	}

	if err := r.launch(ctx, p, opts.NoLaunch); err != nil {
		return r.results(p), err
	}

	return r.results(p), nil
}

func (r *Runner) compileShader(ctx context.Context, p *domain.Pipeline, s *domain.ShaderTarget, force bool) error {
	name := ShaderStep(s.Source)
	sourcePath := p.Resolve(s.Source)
	recordPath := p.Resolve(s.Record)

	ctx, vertex := r.telemetry.Record(ctx, name)
	r.updateStatus(name, domain.StepStatusRunning)

	stale := force
	if !stale {
		var err error
		stale, err = r.detector.NeedsRebuild(sourcePath, recordPath)
		if err != nil {
			return r.fail(name, vertex, zerr.With(err, "shader", s.Source))
		}
	}

	if !stale {
		r.logger.Info(fmt.Sprintf("Shader %q has not changed, skipping rebuild.", s.Source))
		vertex.Cached()
		vertex.Complete(nil)
		r.updateStatus(name, domain.StepStatusCached)
		return nil
	}

	r.logger.Info(fmt.Sprintf("Shader %q has changed, rebuilding...", s.Source))
	cmd := s.CompileCommand(p.Compiler, p.Root)
	vertex.Log(domain.LogLevelInfo, cmd.String())

	if err := r.executor.Execute(ctx, cmd, vertex.Stdout(), vertex.Stderr()); err != nil {
		return r.fail(name, vertex, errors.Join(domain.ErrShaderCompileFailed, zerr.With(err, "shader", s.Source)))
	}

	if err := r.detector.RecordBuilt(recordPath); err != nil {
		return r.fail(name, vertex, zerr.With(err, "shader", s.Source))
	}

	vertex.Complete(nil)
	r.updateStatus(name, domain.StepStatusCompleted)
	return nil
}

func (r *Runner) build(ctx context.Context, p *domain.Pipeline) error {
	if p.Build.Name() == "" {
		r.updateStatus(StepBuild, domain.StepStatusSkipped)
		return nil
	}

	ctx, vertex := r.telemetry.Record(ctx, StepBuild)
	r.updateStatus(StepBuild, domain.StepStatusRunning)

	r.logger.Info("Building the game...")
	vertex.Log(domain.LogLevelInfo, p.Build.String())

	if err := r.executor.Execute(ctx, p.Build, vertex.Stdout(), vertex.Stderr()); err != nil {
		return r.fail(StepBuild, vertex, errors.Join(domain.ErrBuildFailed, err))
	}

	vertex.Complete(nil)
	r.updateStatus(StepBuild, domain.StepStatusCompleted)
	return nil
}

func (r *Runner) launch(ctx context.Context, p *domain.Pipeline, noLaunch bool) error {
	if noLaunch || p.Launch.Name() == "" {
		r.updateStatus(StepLaunch, domain.StepStatusSkipped)
		return nil
	}

	ctx, vertex := r.telemetry.Record(ctx, StepLaunch)
	r.updateStatus(StepLaunch, domain.StepStatusRunning)

	r.logger.Info(fmt.Sprintf("Running %s...", p.Launch.Name()))

	pid, err := r.launcher.Launch(ctx, p.Launch)
	if err != nil {
		return r.fail(StepLaunch, vertex, errors.Join(domain.ErrLaunchFailed, err))
	}

	vertex.Log(domain.LogLevelInfo, fmt.Sprintf("started pid %d", pid))
	vertex.Complete(nil)
	r.updateStatus(StepLaunch, domain.StepStatusCompleted)
	return nil
}

func (r *Runner) fail(name string, vertex ports.Vertex, err error) error {
	vertex.Complete(err)
	r.updateStatus(name, domain.StepStatusFailed)
	return err
}

func (r *Runner) initStepStatuses(p *domain.Pipeline) {
	clear(r.stepStatus)
	for _, name := range stepNames(p) {
		r.stepStatus[name] = domain.StepStatusPending
	}
}

func (r *Runner) updateStatus(name string, status domain.StepStatus) {
	r.stepStatus[name] = status
}

func (r *Runner) results(p *domain.Pipeline) []domain.StepResult {
	names := stepNames(p)
	results := make([]domain.StepResult, 0, len(names))
	for _, name := range names {
		results = append(results, domain.StepResult{Name: name, Status: r.stepStatus[name]})
	}
	return results
}

func stepNames(p *domain.Pipeline) []string {
	names := make([]string, 0, len(p.Shaders)+2)
	for i := range p.Shaders {
		names = append(names, ShaderStep(p.Shaders[i].Source))
	}
	return append(names, StepBuild, StepLaunch)
}
