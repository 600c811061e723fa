package shell

import (
	"context"
	"os"
	"os/exec"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Launcher = (*Launcher)(nil)

// Launcher implements ports.Launcher by starting a detached process.
//
// The launched process shares the terminal of kiln and outlives it.
type Launcher struct{}

// NewLauncher creates a new Launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch starts the command without waiting for it and returns its pid.
func (l *Launcher) Launch(ctx context.Context, command *domain.Command) (int, error) {
	if command.Name() == "" {
		return 0, zerr.New("empty command")
	}
	if err := ctx.Err(); err != nil {
		return 0, zerr.Wrap(err, "launch cancelled")
	}

	// The process must not be tied to ctx, it keeps running after kiln exits.
	executable, env := prepare(command)
	cmd := exec.Command(executable, command.Args[1:]...) //nolint:gosec,noctx // user provided command
	configure(cmd, command, env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to start process"), "command", command.String())
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, zerr.With(zerr.Wrap(err, "failed to release process"), "pid", pid)
	}

	return pid, nil
}
