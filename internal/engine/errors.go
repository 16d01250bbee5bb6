package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBackend = errors.New("unknown recognition backend")
	ErrModelNotFound  = errors.New("model not found")
)

// ProcessError reports a recognition helper process that failed.
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
