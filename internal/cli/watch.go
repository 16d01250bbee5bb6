package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags  batchFlags
		settle time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process the input directory, then keep processing videos as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := os.MkdirAll(a.cfg.Paths.Input, 0755); err != nil {
				return fmt.Errorf("create input dir: %w", err)
			}
			ctrl, err := a.newController()
			if err != nil {
				return err
			}
			if _, err := ctrl.Run(ctx); err != nil {
				return err
			}

			handler := func(ctx context.Context, path string) error {
				_, err := ctrl.ProcessFile(ctx, "watch", path)
				return err
			}
			w, err := watcher.New(a.cfg.Paths.Input, a.cfg.Batch.Extension, handler, a.log, settle)
			if err != nil {
				return err
			}
			defer w.Stop()

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "How long a new file's size must stay unchanged before it is processed")
	return cmd
}
