package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// ErrValidationFailed is returned when at least one document is invalid.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <doc>...",
		Short: "Validate documents against the raw schema",
		Long: `Check raw documents against the embedded JSON schema, then decode them
to catch ranges outside the text and other semantic errors.

Examples:
  inkwell validate notes.json
  inkwell validate --no-color drafts/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0

			for _, path := range args {
				if !a.validateOne(cmd.OutOrStdout(), path) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", ErrValidationFailed, failed, len(args))
			}

			return nil
		},
	}
}

func (a *app) validateOne(w io.Writer, path string) bool {
	violations, err := checkSchema(path)
	if err != nil {
		a.paint(color.FgRed).Fprintf(w, "%s: %v\n", path, err)

		return false
	}

	if len(violations) > 0 {
		a.paint(color.FgRed).Fprintf(w, "%s: %d schema violations\n", path, len(violations))

		for _, v := range violations {
			a.paint(color.FgYellow).Fprintf(w, "  - %s\n", v)
		}

		return false
	}

	doc, err := raw.LoadFile(path)
	if err == nil {
		_, err = raw.Decode(*doc, nil)
	}

	if err != nil {
		a.paint(color.FgRed).Fprintf(w, "%s: %v\n", path, err)

		return false
	}

	if !a.quiet {
		a.paint(color.FgGreen).Fprintf(w, "%s: valid (%d blocks)\n", path, raw.Summarize(doc).Blocks)
	}

	return true
}

// checkSchema validates JSON files as written, so missing fields are
// reported; other codecs are validated after decoding.
func checkSchema(path string) ([]raw.Violation, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document file: %w", err)
		}

		return raw.Validate(data)
	}

	doc, err := raw.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return raw.ValidateDocument(doc)
}
