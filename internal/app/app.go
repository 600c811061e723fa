// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       *pipeline.Runner
	detector     ports.ChangeDetector
	store        ports.RecordStore
	telemetry    ports.Telemetry
	logger       ports.Logger
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner *pipeline.Runner,
	detector ports.ChangeDetector,
	store ports.RecordStore,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		detector:     detector,
		store:        store,
		telemetry:    telemetry,
		logger:       log,
	}
}

// WithWorkDir sets the directory configuration is looked up from.
// The process working directory is used by default.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// SetVerbose switches the logger between concise and detailed error output.
func (a *App) SetVerbose(verbose bool) {
	a.logger.SetVerbose(verbose)
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	ConfigPath string
	Force      bool
	NoLaunch   bool
}

// Run compiles stale shaders, builds and launches the executable.
// It returns the outcome of every step, also when a step fails.
func (a *App) Run(ctx context.Context, opts RunOptions) (results []domain.StepResult, err error) {
	p, err := a.load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if err = a.telemetry.Open(filepath.Join(p.Root, domain.DefaultKilnPath())); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := a.telemetry.Close(); closeErr != nil {
			err = errors.Join(err, zerr.Wrap(closeErr, "failed to close telemetry"))
		}
	}()

	return a.runner.Run(ctx, p, pipeline.Options{
		Force:    opts.Force,
		NoLaunch: opts.NoLaunch,
	})
}

// ShaderStatus is the freshness of one configured shader.
type ShaderStatus struct {
	Source    string
	Record    string
	Freshness domain.Freshness
}

// StatusOptions configuration for the Status method.
type StatusOptions struct {
	ConfigPath string
}

// Status reports whether each configured shader needs a rebuild. It never writes records.
func (a *App) Status(_ context.Context, opts StatusOptions) ([]ShaderStatus, error) {
	p, err := a.load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	statuses := make([]ShaderStatus, 0, len(p.Shaders))
	for i := range p.Shaders {
		s := &p.Shaders[i]
		freshness, err := a.detector.State(p.Resolve(s.Source), p.Resolve(s.Record))
		if err != nil {
			return statuses, zerr.With(err, "shader", s.Source)
		}
		statuses = append(statuses, ShaderStatus{
			Source:    s.Source,
			Record:    s.Record,
			Freshness: freshness,
		})
	}

	return statuses, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
}

// Clean removes the build records of all configured shaders so the next run recompiles them.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	p, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	var errs error
	for i := range p.Shaders {
		record := p.Shaders[i].Record
		if err := a.store.Remove(p.Resolve(record)); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", record))
	}

	return errs
}

func (a *App) load(configPath string) (*domain.Pipeline, error) {
	cwd := a.workDir
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
	}

	p, err := a.configLoader.Load(cwd, configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return p, nil
}
