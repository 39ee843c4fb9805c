package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DiagnosticsServer exposes /healthz, /readyz and /metrics over HTTP.
type DiagnosticsServer struct {
	server   *http.Server
	listener net.Listener
	meter    metric.Meter
	shutdown func(context.Context) error
}

// NewDiagnosticsServer starts serving at addr. Every request gets a server
// span from tracer. Instruments created from Meter are scraped at /metrics.
func NewDiagnosticsServer(addr string, tracer trace.Tracer, checks ...ReadyCheck) (*DiagnosticsServer, error) {
	metricsHandler, mp, err := PrometheusHandler()
	if err != nil {
		return nil, fmt.Errorf("create prometheus handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", HealthHandler())
	mux.Handle("/readyz", ReadyHandler(checks...))
	mux.Handle("/metrics", metricsHandler)

	var lc net.ListenConfig

	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("listen on %s: %w", addr, err), mp.Shutdown(context.Background()))
	}

	srv := &http.Server{Handler: HTTPMiddleware(tracer, mux)}

	go func() {
		serveErr := srv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Warn("diagnostics server stopped", "error", serveErr)
		}
	}()

	return &DiagnosticsServer{
		server:   srv,
		listener: listener,
		meter:    mp.Meter(meterName),
		shutdown: mp.Shutdown,
	}, nil
}

// Addr returns the address the server is listening on.
func (d *DiagnosticsServer) Addr() string {
	return d.listener.Addr().String()
}

// Meter returns the meter whose instruments are exported at /metrics.
func (d *DiagnosticsServer) Meter() metric.Meter {
	return d.meter
}

// Close shuts down the server and its meter provider.
func (d *DiagnosticsServer) Close(ctx context.Context) error {
	var errs []error

	if err := d.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown diagnostics server: %w", err))
	}

	if err := d.shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
	}

	return errors.Join(errs...)
}
