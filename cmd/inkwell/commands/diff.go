package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// diffArgCount is the number of arguments expected by the diff command.
const diffArgCount = 2

// ErrDocumentsDiffer is returned by diff --exit-code when the documents differ.
var ErrDocumentsDiffer = errors.New("documents differ")

func newDiffCommand(a *app) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two documents block by block",
		Long: `Compare the text of blocks matched by key. Added and removed blocks are
listed whole; changed blocks show an inline diff.

Examples:
  inkwell diff before.json after.json
  inkwell diff --exit-code before.json after.yaml`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := a.loadRaw(args[0])
			if err != nil {
				return err
			}

			after, err := a.loadRaw(args[1])
			if err != nil {
				return err
			}

			diffs := raw.DiffBlocks(before, after)
			a.renderDiff(cmd.OutOrStdout(), diffs)

			if exitCode && len(diffs) > 0 {
				return ErrDocumentsDiffer
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the documents differ")

	return cmd
}

func (a *app) renderDiff(w io.Writer, diffs []raw.BlockDiff) {
	added, deleted := 0, 0

	for _, d := range diffs {
		added += d.Inserted()
		deleted += d.Deleted()

		switch d.Status {
		case raw.DiffAdded:
			a.paint(color.FgGreen).Fprintf(w, "+ %s: %s\n", d.Key, diffText(d.Diffs))
		case raw.DiffRemoved:
			a.paint(color.FgRed).Fprintf(w, "- %s: %s\n", d.Key, diffText(d.Diffs))
		default:
			a.paint(color.FgYellow).Fprintf(w, "~ %s: ", d.Key)
			a.renderInline(w, d.Diffs)
			fmt.Fprintln(w)
		}
	}

	if !a.quiet {
		fmt.Fprintf(w, "%d blocks differ, %d characters inserted, %d deleted\n", len(diffs), added, deleted)
	}
}

func (a *app) renderInline(w io.Writer, diffs []diffmatchpatch.Diff) {
	insert := a.paint(color.FgGreen, color.Underline)
	remove := a.paint(color.FgRed, color.CrossedOut)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			insert.Fprintf(w, "{+%s+}", d.Text)
		case diffmatchpatch.DiffDelete:
			remove.Fprintf(w, "[-%s-]", d.Text)
		case diffmatchpatch.DiffEqual:
			fmt.Fprint(w, d.Text)
		}
	}
}

func diffText(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		sb.WriteString(d.Text)
	}

	return sb.String()
}
