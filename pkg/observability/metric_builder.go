package observability

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// instruments creates metric instruments from one meter and collects every
// creation failure, so constructors build all fields and check once.
type instruments struct {
	meter metric.Meter
	errs  []error
}

func newInstruments(mt metric.Meter) *instruments {
	return &instruments{meter: mt}
}

// record keeps err, labelled with the instrument name, and returns inst.
func record[T any](in *instruments, name string, inst T, err error) T {
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("create %s: %w", name, err))
	}

	return inst
}

func (in *instruments) counter(name, desc, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))

	return record(in, name, c, err)
}

func (in *instruments) gauge(name, desc, unit string) metric.Int64UpDownCounter {
	g, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(desc), metric.WithUnit(unit))

	return record(in, name, g, err)
}

// histogram uses the SDK default buckets when bounds is empty.
func (in *instruments) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := in.meter.Float64Histogram(name, opts...)

	return record(in, name, h, err)
}

func (in *instruments) err() error {
	return errors.Join(in.errs...)
}
