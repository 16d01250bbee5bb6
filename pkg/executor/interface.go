package executor

import (
	"context"
	"io"
	"time"
)

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Supervise runs a long-lived child with its output passed through,
	// killing it when timeout elapses or ctx is cancelled.
	Supervise(ctx context.Context, spec Spec) (Outcome, error)
}

// Spec describes a supervised child process.
type Spec struct {
	Name string
	Args []string
	// Timeout <= 0 means wait forever.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string
}

// Outcome is what the supervisor observed about a finished child.
type Outcome struct {
	// ExitCode is -1 when the child was killed by a signal.
	ExitCode int
	TimedOut bool
	Duration time.Duration
}
