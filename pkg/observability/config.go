// Package observability wires OpenTelemetry tracing and metrics and slog
// logging for the inkwell CLI and MCP server.
package observability

import "log/slog"

// AppMode names how the binary was launched. It is attached to every log
// record and to the OTel resource.
type AppMode string

// Application modes.
const (
	ModeCLI AppMode = "cli"
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "inkwell"
	defaultShutdownTimeoutSec = 5
)

// Config selects exporters, sampling and log output.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is a gRPC collector address such as "localhost:4317".
	// Empty keeps every provider no-op.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio in (0,1] samples roots by trace ID. Zero defers to
	// OTEL_TRACES_SAMPLER, then to parent-based always-on.
	SampleRatio float64

	// TraceVerbose exports one span per edit operation in addition to the
	// script span.
	TraceVerbose bool

	LogLevel slog.Level
	LogJSON  bool

	ShutdownTimeoutSec int
}

// DefaultConfig returns the zero-config CLI setup: info logs as text, no
// telemetry export.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
