package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/caption-batch/internal/artifact"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
	"github.com/spf13/afero"
)

// Run processes every matching file in the input directory. On cancellation
// the in-flight worker is stopped, remaining files are abandoned, and the
// partial stats are returned with ctx.Err().
func (c *implController) Run(ctx context.Context) (Stats, error) {
	if err := artifact.EnsureDir(c.fs, c.opts.OutputRoot); err != nil {
		return Stats{}, err
	}
	files, err := c.Files()
	if err != nil {
		return Stats{}, err
	}
	if len(files) == 0 {
		abs, _ := filepath.Abs(c.opts.InputDir)
		c.status.Printf(status.Info, "No %s files in %s", c.opts.Extension, abs)
		return Stats{}, nil
	}
	return c.RunFiles(ctx, files)
}

func (c *implController) RunFiles(ctx context.Context, files []string) (Stats, error) {
	if err := artifact.EnsureDir(c.fs, c.opts.OutputRoot); err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(files)}
	c.logger.Info(ctx, "Batch started: %d file(s), retries=%d, timeout=%s", len(files), c.opts.Retries, c.opts.Timeout)

	var runErr error
	for i, path := range files {
		outcome, err := c.ProcessFile(ctx, fmt.Sprintf("%d/%d", i+1, len(files)), path)
		if err != nil {
			c.status.Printf(status.Fail, "Interrupted: abandoning %d remaining file(s)", len(files)-i)
			runErr = err
			break
		}
		stats.add(outcome)
	}

	c.status.Printf(status.Info, "\nBatch complete. done=%d, skipped=%d, failed=%d, total=%d",
		stats.Done, stats.Skipped, stats.Failed, stats.Total)
	return stats, runErr
}

// ProcessFile skips complete outputs, otherwise runs up to Retries+1 worker
// attempts with a fixed pause between them. It only returns an error when ctx
// is cancelled; in that case the outcome is empty.
func (c *implController) ProcessFile(ctx context.Context, label, path string) (Outcome, error) {
	name := filepath.Base(path)
	outDir := artifact.OutputDir(c.opts.OutputRoot, path)
	log := c.logger.With("file", name)

	if artifact.IsComplete(c.fs, outDir) {
		c.status.Printf(status.Skip, "[%s] SKIP (already done): %s", label, name)
		return OutcomeSkipped, nil
	}

	tries := c.opts.Retries + 1
	for attempt := 1; attempt <= tries; attempt++ {
		c.status.Printf(status.Run, "[%s] RUN (%d/%d): %s", label, attempt, tries, name)

		out, err := c.executor.Supervise(ctx, executor.Spec{
			Name:    c.opts.Executable,
			Args:    c.workerArgs(path),
			Timeout: c.opts.Timeout,
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Warn(ctx, "Worker stopped by cancellation after %s", out.Duration)
			return "", ctxErr
		}

		switch {
		case err != nil:
			log.Error(ctx, "Attempt %d/%d could not start worker: %v", attempt, tries, err)
			c.status.Printf(status.Fail, "[%s] ERROR (%v): %s", label, err, name)
		case out.TimedOut:
			log.Warn(ctx, "Attempt %d/%d timed out after %s", attempt, tries, out.Duration)
			c.status.Printf(status.Fail, "[%s] TIMEOUT: %s", label, name)
		case out.ExitCode == 0:
			log.Info(ctx, "Attempt %d/%d succeeded in %s", attempt, tries, out.Duration)
			return OutcomeDone, nil
		default:
			log.Warn(ctx, "Attempt %d/%d exited with code %d after %s", attempt, tries, out.ExitCode, out.Duration)
			c.status.Printf(status.Fail, "[%s] ERROR (code %d): %s", label, out.ExitCode, name)
		}

		if attempt < tries {
			c.status.Printf(status.Retry, "[%s] RETRY: %s", label, name)
			if err := c.sleep(ctx, c.opts.RetryDelay); err != nil {
				return "", err
			}
		}
	}

	c.status.Printf(status.Fail, "[%s] FAIL: %s", label, name)
	return OutcomeFailed, nil
}

func (c *implController) Files() ([]string, error) {
	entries, err := afero.ReadDir(c.fs, c.opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.opts.InputDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), c.opts.Extension) {
			files = append(files, filepath.Join(c.opts.InputDir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func (c *implController) workerArgs(path string) []string {
	args := c.opts.Worker.Args(path, c.opts.OutputRoot)
	if c.opts.ConfigPath != "" {
		args = append(args, "--config", c.opts.ConfigPath)
	}
	if c.opts.RunID != "" {
		args = append(args, "--run-id", c.opts.RunID)
	}
	return args
}
