package controller

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
	"github.com/spf13/afero"
)

type implController struct {
	opts     Options
	fs       afero.Fs
	executor executor.Executor
	status   *status.Printer
	logger   logger.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Controller.
func New(opts Options, fs afero.Fs, exec executor.Executor, out *status.Printer, log logger.Logger) Controller {
	if opts.Extension == "" {
		opts.Extension = ".mp4"
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RunID != "" {
		log = log.With("run_id", opts.RunID)
	}
	return &implController{
		opts:     opts,
		fs:       fs,
		executor: exec,
		status:   out,
		logger:   log,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
