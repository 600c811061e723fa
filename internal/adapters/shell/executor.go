// Package shell runs the external tools of the pipeline using os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command and waits for it to complete.
//
// Every output line is forwarded to the logger and copied to stdout or stderr.
// An empty command is a no-op.
func (e *Executor) Execute(ctx context.Context, command *domain.Command, stdout, stderr io.Writer) error {
	if command.Name() == "" {
		return nil
	}

	stdoutLog := &logWriter{logger: e.logger, level: levelInfo}
	stderrLog := &logWriter{logger: e.logger, level: levelWarn}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	executable, env := prepare(command)
	cmd := exec.CommandContext(ctx, executable, command.Args[1:]...) //nolint:gosec // user provided command
	configure(cmd, command, env)
	cmd.Stdout = io.MultiWriter(stdoutLog, orDiscard(stdout))
	cmd.Stderr = io.MultiWriter(stderrLog, orDiscard(stderr))

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "exit_code", exitCode)
		return zerr.With(err, "command", command.String())
	}

	return nil
}

// prepare resolves the executable and environment of command.
func prepare(command *domain.Command) (string, []string) {
	env := resolveEnvironment(os.Environ(), command.Environment)
	return resolveExecutable(command.Name(), command.Dir, env), env
}

// configure finishes a cmd created for command.
func configure(cmd *exec.Cmd, command *domain.Command, env []string) {
	// exec.Command sets Args[0] to the resolved path. Keep the name as invoked.
	cmd.Args[0] = command.Name()
	cmd.Dir = command.Dir
	cmd.Env = env
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

const (
	levelInfo = "info"
	levelWarn = "warn"
)

// logWriter forwards complete lines to the logger and buffers partial ones.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes a trailing line without newline.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == levelInfo {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}
