package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// convertArgCount is the number of arguments expected by the convert command.
const convertArgCount = 2

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a document",
		Long: `Re-encode a raw document. Codecs follow the file extensions:
.json, .yaml/.yml and .lz4 (LZ4-framed JSON).

Examples:
  inkwell convert notes.json notes.yaml
  inkwell convert notes.json snapshot.lz4`,
		Args: cobra.ExactArgs(convertArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			doc, err := a.loadRaw(in)
			if err != nil {
				return err
			}

			err = a.writeRaw(cmd.OutOrStdout(), out, doc)
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			if !a.quiet && out != stdioPath {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) -> %s (%s)\n",
					in, humanize.Bytes(fileSize(in)), out, humanize.Bytes(fileSize(out)))
			}

			return nil
		},
	}
}
