package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe every video in the input directory",
		Example: `  caption-batch run --input videos --output out
  caption-batch run --model small --summarizer none --timeout 3600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			ctrl, err := a.newController()
			if err != nil {
				return err
			}
			_, err = ctrl.Run(cmd.Context())
			return err
		},
	}

	flags.register(cmd, true)
	return cmd
}
