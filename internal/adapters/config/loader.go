// Package config provides the configuration loader for kiln.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a kiln.yaml file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load returns the pipeline described by the configuration.
//
// An explicit configPath must exist. Without one, kiln.yaml is searched from cwd
// upwards and the default pipeline rooted at cwd is used when none is found.
func (l *Loader) Load(cwd, configPath string) (*domain.Pipeline, error) {
	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(cwd, configPath)
		}
		return l.loadKilnfile(configPath)
	}

	found, ok := findConfiguration(cwd)
	if !ok {
		l.Logger.Warn(fmt.Sprintf("no %s found, using defaults", domain.ConfigFileName))
		return domain.DefaultPipeline(filepath.Clean(cwd)), nil
	}

	return l.loadKilnfile(found)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) loadKilnfile(configPath string) (*domain.Pipeline, error) {
	var kilnfile Kilnfile
	if err := readAndUnmarshalYAML(configPath, &kilnfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if kilnfile.Version != "" && kilnfile.Version != domain.ConfigVersion {
		return nil, zerr.With(domain.ErrUnsupportedVersion, "version", kilnfile.Version)
	}

	root := resolveRoot(configPath, kilnfile.Root)

	compiler := kilnfile.Compiler
	if compiler == "" {
		compiler = domain.DefaultCompiler
	}

	shaders, err := buildShaders(kilnfile.Shaders)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return &domain.Pipeline{
		Root:     root,
		Compiler: compiler,
		Shaders:  shaders,
		Build:    buildCommand(root, kilnfile.Build),
		Launch:   buildCommand(root, kilnfile.Launch),
	}, nil
}

func buildShaders(dtos []ShaderDTO) ([]domain.ShaderTarget, error) {
	shaders := make([]domain.ShaderTarget, 0, len(dtos))
	records := make(map[string]string, len(dtos))
	sources := make(map[string]struct{}, len(dtos))

	for i := range dtos {
		dto := dtos[i]
		if dto.Source == "" || dto.Output == "" {
			return nil, zerr.With(domain.ErrInvalidShader, "index", i)
		}

		target := domain.ShaderTarget{
			Source:           filepath.Clean(dto.Source),
			Output:           filepath.Clean(dto.Output),
			Record:           dto.Record,
			Langs:            dto.Langs,
			Format:           dto.Format,
			SaveIntermediate: dto.SaveIntermediate == nil || *dto.SaveIntermediate,
		}
		if target.Record == "" {
			target.Record = DefaultRecordPath(target.Source)
		} else {
			target.Record = filepath.Clean(target.Record)
		}
		if len(target.Langs) == 0 {
			target.Langs = domain.DefaultShaderLangs()
		}
		if target.Format == "" {
			target.Format = domain.DefaultShaderFormat
		}

		if _, ok := sources[target.Source]; ok {
			return nil, zerr.With(domain.ErrDuplicateShader, "shader", target.Source)
		}
		sources[target.Source] = struct{}{}

		if owner, ok := records[target.Record]; ok {
			err := zerr.With(domain.ErrDuplicateRecord, "record", target.Record)
			return nil, zerr.With(err, "shaders", owner+", "+target.Source)
		}
		records[target.Record] = target.Source

		shaders = append(shaders, target)
	}

	return shaders, nil
}

func buildCommand(root string, dto *CommandDTO) *domain.Command {
	if dto == nil || len(dto.Cmd) == 0 {
		return nil
	}

	return &domain.Command{
		Args:        dto.Cmd,
		Dir:         resolveWorkingDir(root, dto.WorkingDir),
		Environment: dto.Environment,
	}
}

// DefaultRecordPath returns the build record location used when a shader does not name one:
// .kiln/records/<xxhash64 of the source path>.timestamp.
func DefaultRecordPath(source string) string {
	sum := xxhash.Sum64String(filepath.ToSlash(filepath.Clean(source)))
	return filepath.Join(domain.DefaultRecordsPath(), fmt.Sprintf("%016x%s", sum, domain.RecordExt))
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

func resolveWorkingDir(root, configured string) string {
	if configured == "" {
		return root
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, configured))
}

// readAndUnmarshalYAML reads a YAML file and decodes it strictly into target.
// An empty file leaves target untouched.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Join(domain.ErrConfigReadFailed, err)
		}
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
