package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"imageCompressor/compressor/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLABEL\tMAX SIZE\tQUALITY\tFORMAT")
			for _, p := range config.Presets {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d%%\t%s\n",
					p.Key, p.Label, p.Config.MaxWidth, p.Config.MaxHeight,
					int(p.Config.Quality*100+0.5), p.Config.Format)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", config.PresetCustom, "Custom", "flags", "flags", "flags")
			return w.Flush()
		},
	}
}
