package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/artifact"
	"github.com/nguyentantai21042004/caption-batch/internal/config"
	"github.com/nguyentantai21042004/caption-batch/internal/engine"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/nguyentantai21042004/caption-batch/internal/status"
	"github.com/nguyentantai21042004/caption-batch/internal/summarizer"
	"github.com/nguyentantai21042004/caption-batch/internal/worker"
	"github.com/nguyentantai21042004/caption-batch/pkg/executor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ExitError carries a worker exit code out of Execute.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("worker exited with code %d", e.Code)
}

type singleFlags struct {
	inputFile       string
	outputRoot      string
	backend         string
	model           string
	computeType     string
	language        string
	beam            int
	summarizer      string
	summaryMax      int
	progressTimeout int
	runID           string
}

func (f singleFlags) params(cfg *config.Config) worker.Params {
	return worker.Params{
		InputFile:       f.inputFile,
		OutputRoot:      f.outputRoot,
		Backend:         f.backend,
		Model:           f.model,
		ComputeType:     f.computeType,
		Language:        f.language,
		BeamSize:        f.beam,
		Summary:         summarizer.Enabled(f.summarizer),
		SummaryMax:      f.summaryMax,
		StallTimeout:    time.Duration(f.progressTimeout) * time.Second,
		VADMinSilenceMs: cfg.Whisper.VADMinSilenceMs,
	}
}

// newSingleCmd is the worker entry point the controller re-invokes once per
// file. Its exit code is the only result the controller reads.
func newSingleCmd(a *app) *cobra.Command {
	var flags singleFlags

	cmd := &cobra.Command{
		Use:    "single",
		Short:  "Transcribe one file (worker mode)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.log
			if flags.runID != "" {
				log = log.With("run_id", flags.runID)
			}
			code := runSingle(cmd, a.cfg, flags, log)
			if code != worker.ExitOK {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.inputFile, "input-file", "", "Video to transcribe")
	fs.StringVar(&flags.outputRoot, "output-root", "", "Output root directory")
	fs.StringVar(&flags.backend, "backend", engine.BackendFasterWhisper, "Recognition backend")
	fs.StringVar(&flags.model, "model", "", "Model size")
	fs.StringVar(&flags.computeType, "compute-type", "", "Compute precision")
	fs.StringVar(&flags.language, "language", "", "Language code or auto")
	fs.IntVar(&flags.beam, "beam", 0, "Beam search width")
	fs.StringVar(&flags.summarizer, "summarizer", "", "Summary provider or none")
	fs.IntVar(&flags.summaryMax, "summary-max", 0, "Maximum summary sentences")
	fs.IntVar(&flags.progressTimeout, "progress-timeout", 0, "Stall timeout in seconds, 0 = off")
	fs.StringVar(&flags.runID, "run-id", "", "Batch run id for log correlation")
	for _, name := range []string{"input-file", "output-root", "model", "compute-type", "language", "beam", "summarizer", "summary-max", "progress-timeout"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runSingle(cmd *cobra.Command, cfg *config.Config, flags singleFlags, log logger.Logger) int {
	ctx := cmd.Context()

	registry, err := engine.NewRegistry(1, engine.NewFactory(engine.Settings{
		Python:           cfg.Whisper.Python,
		WhisperCppBinary: cfg.Whisper.BinaryPath,
		ModelDir:         cfg.Whisper.ModelDir,
		FFmpegBinary:     cfg.FFmpeg.BinaryPath,
		Threads:          cfg.Whisper.Threads,
		TempDir:          os.TempDir(),
	}, executor.New(), log))
	if err != nil {
		log.Error(ctx, "create engine registry: %v", err)
		return worker.ExitFailed
	}
	defer registry.Close()

	provider := summarizer.Resolve(flags.summarizer, cfg.Summary.Provider)
	sum := summarizer.NewLazy(func() (summarizer.Digester, error) {
		return summarizer.NewDigester(summaryConfig(cfg, provider), log)
	}, cfg.Summary.ChunkChars, log)

	fs := afero.NewOsFs()
	writer := artifact.New(fs, sum, log, artifact.Options{Docx: cfg.Export.Docx})
	w := worker.New(fs, registry, writer, status.New(os.Stdout), log)

	return w.Run(ctx, flags.params(cfg))
}

func summaryConfig(cfg *config.Config, provider string) summarizer.Config {
	model := cfg.Summary.Model
	if !strings.EqualFold(provider, cfg.Summary.Provider) {
		model = config.DefaultSummaryModel(provider)
	}
	return summarizer.Config{
		Provider:        provider,
		Model:           model,
		GeminiAPIKeys:   cfg.Gemini.APIKeys,
		OllamaHost:      cfg.LLM.OllamaHost,
		OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
		AnthropicAPIKey: cfg.LLM.AnthropicAPIKey,
	}
}
