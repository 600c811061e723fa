package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// Executor runs external commands synchronously.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd and blocks until it exits.
	//
	// Output of the command is copied to stdout and stderr.
	// It returns an error if the command cannot be started or exits with a non-zero status.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) error
}

// Launcher starts external commands without waiting for them.
type Launcher interface {
	// Launch starts cmd as a new process and returns its pid.
	Launch(ctx context.Context, cmd *domain.Command) (int, error)
}
