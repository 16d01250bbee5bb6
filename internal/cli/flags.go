package cli

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-batch/internal/config"
	"github.com/nguyentantai21042004/caption-batch/internal/engine"
	"github.com/nguyentantai21042004/caption-batch/internal/summarizer"
	"github.com/spf13/cobra"
)

// batchFlags override config values, but only when set on the command line.
type batchFlags struct {
	input           string
	output          string
	extension       string
	backend         string
	model           string
	computeType     string
	language        string
	beam            int
	summarizer      string
	summaryMax      int
	timeout         int
	retries         int
	progressTimeout int
}

func (f *batchFlags) register(cmd *cobra.Command, withInput bool) {
	d := config.Default()
	fs := cmd.Flags()
	if withInput {
		fs.StringVar(&f.input, "input", d.Paths.Input, "Directory with input videos")
		fs.StringVar(&f.extension, "ext", d.Batch.Extension, "Input file extension")
	}
	fs.StringVar(&f.output, "output", d.Paths.Output, "Output root directory")
	fs.StringVar(&f.backend, "backend", d.Whisper.Backend, "Recognition backend: faster-whisper, whisper-cpp")
	fs.StringVar(&f.model, "model", d.Whisper.Model, "Model size: tiny, base, small, medium, large-v3")
	fs.StringVar(&f.computeType, "compute-type", d.Whisper.ComputeType, "Compute precision: auto, int8, int16, float16, int8_float16")
	fs.StringVar(&f.language, "language", d.Whisper.Language, "Language code or auto")
	fs.IntVar(&f.beam, "beam", d.Whisper.BeamSize, "Beam search width")
	fs.StringVar(&f.summarizer, "summarizer", d.Summary.Provider, "Summary provider: gemini, ollama, openai, anthropic, bart (configured default), none")
	fs.IntVar(&f.summaryMax, "summary-max", d.Summary.MaxSentences, "Maximum summary sentences")
	fs.IntVar(&f.timeout, "timeout", d.Batch.TimeoutSeconds, "Hard wall-clock timeout per file in seconds, 0 = off")
	fs.IntVar(&f.retries, "retries", d.Batch.Retries, "Retries per file on error or timeout")
	fs.IntVar(&f.progressTimeout, "progress-timeout", d.Batch.ProgressTimeoutSeconds, "Abort a file when no audio progress for N seconds, 0 = off")
}

func (f *batchFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Paths.Input = f.input
	}
	if changed("ext") {
		cfg.Batch.Extension = f.extension
	}
	if changed("output") {
		cfg.Paths.Output = f.output
	}
	if changed("backend") {
		cfg.Whisper.Backend = f.backend
	}
	if changed("model") {
		cfg.Whisper.Model = f.model
	}
	if changed("compute-type") {
		cfg.Whisper.ComputeType = f.computeType
	}
	if changed("language") {
		cfg.Whisper.Language = f.language
	}
	if changed("beam") {
		cfg.Whisper.BeamSize = f.beam
	}
	if changed("summarizer") {
		cfg.Summary.Provider = f.summarizer
	}
	if changed("summary-max") {
		cfg.Summary.MaxSentences = f.summaryMax
	}
	if changed("timeout") {
		cfg.Batch.TimeoutSeconds = f.timeout
	}
	if changed("retries") {
		cfg.Batch.Retries = f.retries
	}
	if changed("progress-timeout") {
		cfg.Batch.ProgressTimeoutSeconds = f.progressTimeout
	}

	if !summarizer.Known(cfg.Summary.Provider) {
		return fmt.Errorf("unknown summarizer %q", cfg.Summary.Provider)
	}
	if cfg.Whisper.Backend != engine.BackendFasterWhisper && cfg.Whisper.Backend != engine.BackendWhisperCpp {
		return fmt.Errorf("%w: %q", engine.ErrUnknownBackend, cfg.Whisper.Backend)
	}
	if cfg.Batch.Retries < 0 {
		return fmt.Errorf("--retries must not be negative")
	}
	if cfg.Batch.TimeoutSeconds < 0 || cfg.Batch.ProgressTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}
