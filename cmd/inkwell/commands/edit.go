package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
	"github.com/Sumatoshi-tech/inkwell/pkg/txn"
)

// ErrMissingScript is returned when edit runs without --script.
var ErrMissingScript = errors.New("--script is required")

func newEditCommand(a *app) *cobra.Command {
	var scriptPath, output string

	cmd := &cobra.Command{
		Use:   "edit <doc> --script ops.yaml",
		Short: "Apply an edit script to a document",
		Long: `Apply the operations of an edit script in order and write the result.
The document is written to stdout with the configured codec unless -o names
an output file; the codec then follows its extension.

Example script:
  - op: createEntity
    name: home
    type: LINK
    data: {url: "https://example.com"}
  - op: applyEntity
    anchor: {key: a, offset: 0}
    focus: {key: a, offset: 5}
    entity: home`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return ErrMissingScript
			}

			return a.runEdit(cmd, args[0], scriptPath, output)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "edit script file (YAML or JSON)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, docPath, scriptPath, output string) error {
	ctx := cmd.Context()

	_, cs, err := a.loadContent(docPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	script, err := txn.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx, cs, script)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}

	out, err := raw.Encode(res.State)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	err = a.writeRaw(cmd.OutOrStdout(), output, &out)
	if err != nil {
		return err
	}

	a.logger().InfoContext(ctx, "edit script applied",
		"ops", res.Applied, "blocks", res.State.BlockMap().Len(), "output", output)

	return nil
}

// newRunner builds a script runner reporting to the command's providers.
func (a *app) newRunner() (*txn.Runner, error) {
	red, err := observability.NewREDMetrics(a.providers.Meter)
	if err != nil {
		return nil, err
	}

	docs, err := observability.NewDocumentMetrics(a.providers.Meter)
	if err != nil {
		return nil, err
	}

	return txn.NewRunner(
		txn.WithTracer(a.providers.Tracer),
		txn.WithREDMetrics(red),
		txn.WithDocumentMetrics(docs),
		txn.WithLogger(a.logger()),
	), nil
}
