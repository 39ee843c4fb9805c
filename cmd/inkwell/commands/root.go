// Package commands implements the inkwell CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/config"
	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
	"github.com/Sumatoshi-tech/inkwell/pkg/version"
)

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool

	cfg       *config.Config
	providers observability.Providers
}

// NewRootCommand builds the inkwell command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell - persistent rich-text document toolkit",
		Long: `Inkwell inspects, edits and converts raw rich-text documents.

Commands:
  inspect   Summarise a document
  tree      Show decoration tree fingerprints per block
  edit      Apply an edit script
  convert   Re-encode a document (.json, .yaml, .lz4)
  validate  Check a document against the raw schema
  diff      Compare two documents block by block
  mcp       Start the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: ./.inkwell.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newInspectCommand(a),
		newTreeCommand(a),
		newEditCommand(a),
		newConvertCommand(a),
		newValidateCommand(a),
		newDiffCommand(a),
		newMCPCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	err = cfg.Document.Apply()
	if err != nil {
		return err
	}

	a.cfg = cfg

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.LogJSON = cfg.Logging.Format == "json"

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	if cmd.Name() == mcpCommandName {
		obsCfg.Mode = observability.ModeMCP
		obsCfg.LogJSON = true
	}

	err = obsCfg.LogLevel.UnmarshalText([]byte(cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	switch {
	case a.verbose:
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.TraceVerbose = true
	case a.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.providers = providers

	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.providers.Shutdown == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return a.providers.Shutdown(ctx)
}

func (a *app) logger() *slog.Logger {
	if a.providers.Logger == nil {
		return slog.Default()
	}

	return a.providers.Logger
}

// paint returns a color honouring --no-color without touching the
// package-level color.NoColor switch.
func (a *app) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if a.noColor {
		c.DisableColor()
	}

	return c
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version.String())
		},
	}
}
