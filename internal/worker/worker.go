package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/artifact"
	"github.com/nguyentantai21042004/caption-batch/internal/engine"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/internal/transcript"
)

// Run resolves the output directory, skips it when already complete, and
// otherwise transcribes and writes artifacts. Nothing is written unless the
// whole stream was consumed.
func (w *implWorker) Run(ctx context.Context, p Params) int {
	name := filepath.Base(p.InputFile)
	outDir := artifact.OutputDir(p.OutputRoot, p.InputFile)
	log := w.logger.With("file", name)

	if err := artifact.EnsureDir(w.fs, outDir); err != nil {
		w.status.Printf(status.Fail, "ERROR: %s -> %v", name, err)
		return ExitFailed
	}

	if artifact.IsComplete(w.fs, outDir) {
		w.status.Printf(status.Skip, "SKIP (already done): %s", name)
		return ExitOK
	}

	eng, err := w.engines.Acquire(ctx, engine.Key{
		Backend:     p.Backend,
		Model:       p.Model,
		ComputeType: p.ComputeType,
	})
	if err != nil {
		log.Error(ctx, "Failed to load engine: %v", err)
		w.status.Printf(status.Fail, "ERROR: %s -> %v", name, err)
		return ExitFailed
	}

	w.status.Printf(status.Run, "START: %s", name)
	start := w.now()

	res, err := w.transcribe(ctx, eng, p, name)
	if errors.Is(err, transcript.ErrStalled) {
		log.Warn(ctx, "Aborted: %v", err)
		w.status.Printf(status.Fail, "ERROR (progress-timeout): %s", name)
		return ExitStalled
	}
	if err != nil {
		log.Error(ctx, "Transcription failed: %v", err)
		w.status.Printf(status.Fail, "ERROR: %s -> %v", name, err)
		return ExitFailed
	}
	log.Info(ctx, "Transcribed %d segments (language=%s, %.0fs of audio) in %s",
		len(res.Segments), res.Info.Language, res.Info.Duration, w.now().Sub(start).Round(time.Second))

	err = w.writer.Write(ctx, artifact.Request{
		Dir:          outDir,
		Name:         artifact.DirName(p.InputFile),
		Segments:     res.Segments,
		FullText:     res.FullText,
		Summary:      p.Summary,
		MaxSentences: p.SummaryMax,
	})
	if err != nil {
		log.Error(ctx, "Failed to write artifacts to %s: %v", outDir, err)
		w.status.Printf(status.Fail, "ERROR: %s -> %v", name, err)
		return ExitFailed
	}

	w.status.Printf(status.Done, "DONE: %s", name)
	return ExitOK
}

func (w *implWorker) transcribe(ctx context.Context, eng engine.Engine, p Params, name string) (*transcript.Result, error) {
	stream, err := eng.Transcribe(ctx, p.InputFile, engine.Options{
		Language:        p.Language,
		BeamSize:        p.BeamSize,
		VADFilter:       true,
		VADMinSilenceMs: p.VADMinSilenceMs,
	})
	if err != nil {
		return nil, fmt.Errorf("start recognition: %w", err)
	}
	defer stream.Close()

	res, err := transcript.Consume(ctx, stream, transcript.Watchdog{
		StallTimeout: p.StallTimeout,
		Now:          w.now,
		Progress: func(sec int) {
			w.status.Printf(status.Progress, "    %s: processed %ds of audio", name, sec)
		},
	})
	if errors.Is(err, transcript.ErrStalled) {
		w.status.Printf(status.Fail, "    %s: no progress for %ds → aborting", name, int(p.StallTimeout.Seconds()))
	}
	return res, err
}
