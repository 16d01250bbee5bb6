package controller

import (
	"context"
	"strconv"
	"time"
)

// Outcome is the terminal state of one input file.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Stats are the per-run counters. They are never persisted.
type Stats struct {
	Done    int
	Skipped int
	Failed  int
	Total   int
}

func (s *Stats) add(o Outcome) {
	switch o {
	case OutcomeDone:
		s.Done++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// WorkerConfig is passed unchanged to every worker as explicit flags.
type WorkerConfig struct {
	Backend     string
	Model       string
	ComputeType string
	Language    string
	BeamSize    int
	// Summarizer is a provider name or "none".
	Summarizer      string
	SummaryMax      int
	ProgressTimeout int
}

// Args builds the worker subcommand line for one file.
func (w WorkerConfig) Args(inputFile, outputRoot string) []string {
	return []string{
		"single",
		"--input-file", inputFile,
		"--output-root", outputRoot,
		"--backend", w.Backend,
		"--model", w.Model,
		"--compute-type", w.ComputeType,
		"--language", w.Language,
		"--beam", strconv.Itoa(w.BeamSize),
		"--summarizer", w.Summarizer,
		"--summary-max", strconv.Itoa(w.SummaryMax),
		"--progress-timeout", strconv.Itoa(w.ProgressTimeout),
	}
}

type Options struct {
	InputDir   string
	OutputRoot string
	// Extension is matched case-insensitively, including the dot.
	Extension string
	// Timeout <= 0 means a worker may run forever.
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration

	Worker WorkerConfig
	// Executable is the binary re-invoked as the worker.
	Executable string
	ConfigPath string
	RunID      string
}

// Controller supervises one worker process per input file, sequentially.
type Controller interface {
	// Run processes every matching file in the input directory.
	Run(ctx context.Context) (Stats, error)
	// RunFiles processes the given files in order.
	RunFiles(ctx context.Context, files []string) (Stats, error)
	// ProcessFile drives a single file to a terminal outcome. label prefixes
	// the status lines, e.g. "2/7".
	ProcessFile(ctx context.Context, label, path string) (Outcome, error)
	// Files lists the matching inputs sorted by path.
	Files() ([]string, error)
}
