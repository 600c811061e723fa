// Package domain contains the core domain types of the kiln build helper.
package domain

import (
	"path/filepath"
	"strings"
)

// SaveIntermediateFlag asks the shader compiler to keep the intermediate SPIR-V.
const SaveIntermediateFlag = "--save-intermediate-spirv"

// Command is an external program invocation.
type Command struct {
	Args        []string
	Dir         string
	Environment map[string]string
}

// Name returns the program name, or an empty string for an empty command.
func (c *Command) Name() string {
	if c == nil || len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the command line for log output.
func (c *Command) String() string {
	if c == nil {
		return ""
	}
	return strings.Join(c.Args, " ")
}

// ShaderTarget describes one shader source compiled by the external shader compiler.
type ShaderTarget struct {
	Source           string
	Output           string
	Record           string
	Langs            []string
	Format           string
	SaveIntermediate bool
}

// CompileCommand builds the compiler invocation for the shader.
func (s *ShaderTarget) CompileCommand(compiler, dir string) *Command {
	args := []string{compiler, "-i", s.Source, "-o", s.Output}
	if len(s.Langs) > 0 {
		args = append(args, "-l", strings.Join(s.Langs, ":"))
	}
	if s.Format != "" {
		args = append(args, "-f", s.Format)
	}
	if s.SaveIntermediate {
		args = append(args, SaveIntermediateFlag)
	}
	return &Command{Args: args, Dir: dir}
}

// Pipeline is the fixed sequence run by kiln: compile stale shaders, build, launch.
type Pipeline struct {
	Root     string
	Compiler string
	Shaders  []ShaderTarget
	Build    *Command
	Launch   *Command
}

// Resolve returns path joined to the pipeline root unless it is already absolute.
func (p *Pipeline) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Root == "" {
		return path
	}
	return filepath.Join(p.Root, path)
}
