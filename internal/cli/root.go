package cli

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/caption-batch/internal/config"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs after flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	log     logger.Logger
	cleanup func() error
}

// Execute runs the command line. The logger is released afterwards whether
// or not the command failed.
func Execute(ctx context.Context, version string) error {
	return execute(ctx, &app{}, version, nil)
}

func execute(ctx context.Context, a *app, version string, args []string) error {
	defer a.close()
	cmd := newRootCmd(a, version)
	if args != nil {
		cmd.SetArgs(args)
	}
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "caption-batch",
		Short: "Batch-transcribe videos into transcripts, captions and summaries",
		Long: `caption-batch transcribes every video in a directory, one isolated worker
process per file, with per-file timeouts, retries and stall detection.

Each input gets an output directory with transcript.txt, captions.srt,
captions.vtt, full.txt and summary.md. Files whose outputs already exist
are skipped, so an interrupted batch can simply be run again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (YAML); defaults apply when omitted")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newFileCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newSingleCmd(a))
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg
	a.log, a.cleanup = logger.New(cfg.Logging.Level, cfg.Logging.File)
	return nil
}

func (a *app) close() {
	if a.cleanup == nil {
		return
	}
	_ = a.cleanup()
	a.cleanup = nil
}
