package worker

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/engine"
)

// Process exit codes reported by a worker.
const (
	ExitOK      = 0
	ExitStalled = 98
	ExitFailed  = 99
)

// Params are the explicit per-file arguments a controller passes to a worker.
type Params struct {
	InputFile   string
	OutputRoot  string
	Backend     string
	Model       string
	ComputeType string
	Language    string
	BeamSize    int

	Summary    bool
	SummaryMax int

	// StallTimeout <= 0 disables the audio-progress watchdog.
	StallTimeout    time.Duration
	VADMinSilenceMs int
}

// EngineSource hands out loaded recognition engines.
type EngineSource interface {
	Acquire(ctx context.Context, key engine.Key) (engine.Engine, error)
}

// Worker transcribes one input file and returns its process exit code.
type Worker interface {
	Run(ctx context.Context, p Params) int
}
