package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFileCmd(a *app) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "file <video>...",
		Short: "Transcribe specific videos with the same retry and timeout policy as run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, a.cfg); err != nil {
				return err
			}
			for _, path := range args {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("input %s: %w", path, err)
				}
			}
			ctrl, err := a.newController()
			if err != nil {
				return err
			}
			_, err = ctrl.RunFiles(cmd.Context(), args)
			return err
		},
	}

	flags.register(cmd, false)
	return cmd
}
