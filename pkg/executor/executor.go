package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// how long a child gets to exit after the interrupt before it is killed
const killGrace = 5 * time.Second

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}

// Supervise starts spec as its own process group and waits for it. On timeout
// the group is interrupted, then killed after a grace period, and the outcome
// reports TimedOut. On ctx cancellation the group is torn down the same way
// and ctx.Err() is returned. A non-zero exit is not an error.
func (e *implExecutor) Supervise(ctx context.Context, spec Spec) (Outcome, error) {
	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("start '%s': %w", spec.Name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var timeout <-chan time.Time
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var (
		waitErr  error
		timedOut bool
		ctxErr   error
	)
	select {
	case waitErr = <-done:
	case <-timeout:
		timedOut = true
		waitErr = terminate(cmd, done)
	case <-ctx.Done():
		ctxErr = ctx.Err()
		waitErr = terminate(cmd, done)
	}

	out := Outcome{
		ExitCode: exitCode(cmd, waitErr),
		TimedOut: timedOut,
		Duration: time.Since(start),
	}
	if ctxErr != nil {
		return out, ctxErr
	}
	return out, nil
}

// terminate interrupts the child's group, escalates to a kill, and returns
// the Wait result.
func terminate(cmd *exec.Cmd, done <-chan error) error {
	_ = interruptGroup(cmd)
	select {
	case err := <-done:
		return err
	case <-time.After(killGrace):
	}
	_ = killGroup(cmd)
	return <-done
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
