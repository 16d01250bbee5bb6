package cli

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-batch/internal/config"
	"github.com/nguyentantai21042004/caption-batch/internal/engine"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the recognition model sizes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			def := config.Default().Whisper.Model
			out := cmd.OutOrStdout()
			for _, m := range engine.Models {
				if m == def {
					fmt.Fprintf(out, "%s (default)\n", m)
					continue
				}
				fmt.Fprintln(out, m)
			}
			fmt.Fprintf(out, "\nBackends: %s, %s\n", engine.BackendFasterWhisper, engine.BackendWhisperCpp)
		},
	}
}
