package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/inkwell/pkg/mcp"
	"github.com/Sumatoshi-tech/inkwell/pkg/observability"
)

const mcpCommandName = "mcp"

func newMCPCommand(a *app) *cobra.Command {
	var diagnosticsAddr string

	cmd := &cobra.Command{
		Use:   mcpCommandName,
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes inkwell document operations as tools that AI agents
can discover and invoke:
  - inkwell_inspect: Summarise a raw document
  - inkwell_edit: Apply an edit script and return the edited document
  - inkwell_tree: Decoration tree fingerprints per block

With --diagnostics-addr, /healthz, /readyz and /metrics are served over HTTP.`,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			meter := a.providers.Meter

			if diagnosticsAddr != "" {
				diag, diagErr := observability.NewDiagnosticsServer(diagnosticsAddr, a.providers.Tracer)
				if diagErr != nil {
					return diagErr
				}

				defer func() {
					err = errors.Join(err, diag.Close(context.WithoutCancel(cmd.Context())))
				}()

				a.logger().Info("diagnostics server listening", "addr", diag.Addr())

				meter = diag.Meter()
			}

			red, err := observability.NewREDMetrics(meter)
			if err != nil {
				return err
			}

			docs, err := observability.NewDocumentMetrics(meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:    a.logger(),
				Metrics:   red,
				Documents: docs,
				Tracer:    a.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&diagnosticsAddr, "diagnostics-addr", "", "serve health and Prometheus metrics at this address (e.g. :9464)")

	return cmd
}
