// Package cli wires the compression pipeline into the compressor command.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root command with the compress and presets
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compressor",
		Short:         "Resize and re-encode images locally",
		Long:          "compressor downsizes images and re-encodes them to JPEG, WEBP or PNG without uploading them anywhere.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newCompressCmd(), newPresetsCmd())

	return cmd
}

const rootCmdExample = `  # Compress a folder with the default website preset
  compressor compress ./photos

  # Prepare images for Instagram and bundle them into a zip
  compressor compress --preset instagram --zip a.jpg b.png

  # Custom bounds and format
  compressor compress --max-width 800 --max-height 800 --quality 0.7 --format png ./photos

  # Compress an image piped on stdin
  cat shot.png | compressor compress -

  # List presets
  compressor presets`
