package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <doc>",
		Short: "Summarise a raw document",
		Long: `Print one row per block plus style and entity totals.

Examples:
  inkwell inspect notes.json
  inkwell inspect snapshot.lz4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := a.loadContent(args[0])
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), args[0], fileSize(args[0]), raw.Summarize(doc))

			return nil
		},
	}
}

func renderSummary(w io.Writer, label string, size uint64, s raw.Summary) {
	fmt.Fprintf(w, "%s (%s): %s blocks, %s characters, %s entities\n",
		label, humanize.Bytes(size),
		humanize.Comma(int64(s.Blocks)), humanize.Comma(int64(s.Characters)), humanize.Comma(int64(s.Entities)))

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Key", "Type", "Level", "Depth", "Chars", "Styles", "Entities", "Children"})

	for _, row := range s.Rows {
		tbl.AppendRow(table.Row{
			strings.Repeat("  ", row.Level) + row.Key,
			row.Type, row.Level, row.Depth, row.Characters, row.StyleRanges, row.EntityRanges, row.Children,
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d blocks", s.Blocks), "", "", "", s.Characters})
	fmt.Fprintln(w, tbl.Render())

	if len(s.Styles) > 0 {
		fmt.Fprintf(w, "Styles: %s\n", formatCounts(s.Styles))
	}

	if len(s.EntityTypes) > 0 {
		fmt.Fprintf(w, "Entities: %s\n", formatCounts(s.EntityTypes))
	}
}

func formatCounts(counts map[string]int) string {
	keys := slices.Sorted(maps.Keys(counts))

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, humanize.Comma(int64(counts[k])))
	}

	return strings.Join(parts, " ")
}
