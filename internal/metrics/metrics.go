// Package metrics records provider calls with OpenTelemetry and exposes them
// in Prometheus text format.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/cortexai/igs/internal/tools"
)

const meterName = "github.com/cortexai/igs"

// Setup creates a meter provider backed by its own Prometheus registry. The
// returned handler serves that registry; shutdown flushes the provider.
func Setup() (*Recorder, http.Handler, func(context.Context) error, error) {
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	rec, err := NewRecorder(provider.Meter(meterName))
	if err != nil {
		return nil, nil, nil, err
	}
	return rec, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), provider.Shutdown, nil
}

// Recorder holds the instruments shared by every instrumented provider.
type Recorder struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	calls, err := meter.Int64Counter(
		"igs.provider.calls",
		metric.WithDescription("Provider invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("create call counter: %w", err)
	}

	failures, err := meter.Int64Counter(
		"igs.provider.failures",
		metric.WithDescription("Provider invocations that returned a failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failure counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"igs.provider.latency",
		metric.WithDescription("Provider processing latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create latency histogram: %w", err)
	}

	return &Recorder{calls: calls, failures: failures, latency: latency}, nil
}

// Instrument wraps p so each call is counted and timed.
func (r *Recorder) Instrument(p tools.Provider) tools.Provider {
	return &instrumented{Provider: p, rec: r}
}

type instrumented struct {
	tools.Provider
	rec *Recorder
}

func (i *instrumented) Unwrap() tools.Provider { return i.Provider }

func (i *instrumented) Process(ctx context.Context, text string) tools.Result {
	start := time.Now()
	res := i.Provider.Process(ctx, text)
	ms := float64(time.Since(start).Microseconds()) / 1000.0

	attrs := []attribute.KeyValue{
		attribute.String("kind", string(i.Kind())),
		attribute.String("backend", i.Name()),
	}
	i.rec.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	i.rec.latency.Record(ctx, ms, metric.WithAttributes(attrs...))
	if res.Failed() {
		failAttrs := append(attrs, attribute.String("category", string(res.Category)))
		i.rec.failures.Add(ctx, 1, metric.WithAttributes(failAttrs...))
	}
	return res
}
