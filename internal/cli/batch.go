package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-batch/internal/config"
	"github.com/nguyentantai21042004/caption-batch/internal/controller"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/internal/summarizer"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
	"github.com/spf13/afero"
)

func (a *app) newController() (controller.Controller, error) {
	if err := checkSummarizer(a.cfg, a.log); err != nil {
		return nil, err
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return controller.New(
		controllerOptions(a.cfg, exe, a.configPath, uuid.New().String()[:8]),
		afero.NewOsFs(),
		executor.New(),
		status.New(os.Stdout),
		a.log,
	), nil
}

// checkSummarizer builds the configured summary backend once, before any
// worker is spawned.
func checkSummarizer(cfg *config.Config, log logger.Logger) error {
	if !summarizer.Enabled(cfg.Summary.Provider) {
		return nil
	}
	provider := summarizer.Resolve(cfg.Summary.Provider, cfg.Summary.Provider)
	if _, err := summarizer.NewDigester(summaryConfig(cfg, provider), log); err != nil {
		return fmt.Errorf("summarizer %s: %w", provider, err)
	}
	return nil
}

func controllerOptions(cfg *config.Config, exe, configPath, runID string) controller.Options {
	return controller.Options{
		InputDir:   cfg.Paths.Input,
		OutputRoot: cfg.Paths.Output,
		Extension:  cfg.Batch.Extension,
		Timeout:    cfg.Batch.Timeout(),
		Retries:    cfg.Batch.Retries,
		RetryDelay: cfg.Batch.RetryDelay(),
		Worker: controller.WorkerConfig{
			Backend:         cfg.Whisper.Backend,
			Model:           cfg.Whisper.Model,
			ComputeType:     cfg.Whisper.ComputeType,
			Language:        cfg.Whisper.Language,
			BeamSize:        cfg.Whisper.BeamSize,
			Summarizer:      cfg.Summary.Provider,
			SummaryMax:      cfg.Summary.MaxSentences,
			ProgressTimeout: cfg.Batch.ProgressTimeoutSeconds,
		},
		Executable: exe,
		ConfigPath: configPath,
		RunID:      runID,
	}
}
