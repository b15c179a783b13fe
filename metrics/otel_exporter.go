package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter records capture and replay activity and serves it in Prometheus format.
// It satisfies capture.Observer and replay.Observer.
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	meter          metric.Meter
	received       metric.Int64Counter
	ingestFailures metric.Int64Counter
	replays        metric.Int64Counter
	storedGauge    metric.Int64ObservableGauge
}

// NewOTelExporter creates an exporter backed by its own Prometheus registry.
// collector may be nil, in which case the stored-captures gauge is not reported.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-debugger",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.received, err = oe.meter.Int64Counter(
		"capture.received",
		metric.WithDescription("Webhooks captured per endpoint, source and verification result"),
		metric.WithUnit("{captures}"),
	)
	if err != nil {
		return fmt.Errorf("creating received counter: %w", err)
	}

	oe.ingestFailures, err = oe.meter.Int64Counter(
		"capture.ingest.failed",
		metric.WithDescription("Inbound requests that did not produce a capture"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return fmt.Errorf("creating ingest failure counter: %w", err)
	}

	oe.replays, err = oe.meter.Int64Counter(
		"capture.replays",
		metric.WithDescription("Replay attempts by outcome and target status"),
		metric.WithUnit("{replays}"),
	)
	if err != nil {
		return fmt.Errorf("creating replay counter: %w", err)
	}

	if oe.collector == nil {
		return nil
	}

	oe.storedGauge, err = oe.meter.Int64ObservableGauge(
		"capture.stored",
		metric.WithDescription("Captures currently stored per endpoint"),
		metric.WithUnit("{captures}"),
		metric.WithInt64Callback(oe.observeStored),
	)
	if err != nil {
		return fmt.Errorf("creating stored gauge: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeStored(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.CountByEndpoint(ctx)
	if err != nil {
		return err
	}

	for endpointID, n := range counts {
		observer.Observe(n, metric.WithAttributes(
			attribute.String("endpoint.id", endpointID),
		))
	}
	return nil
}

// CaptureStored counts a stored capture
func (oe *OTelExporter) CaptureStored(ctx context.Context, endpointID, source string, verified bool) {
	oe.received.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint.id", endpointID),
		attribute.String("source", source),
		attribute.Bool("verified", verified),
	))
}

// IngestFailed counts an inbound request that was not captured
func (oe *OTelExporter) IngestFailed(ctx context.Context, reason string) {
	oe.ingestFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// ReplayFinished counts a replay attempt
func (oe *OTelExporter) ReplayFinished(ctx context.Context, status int, success bool) {
	outcome := "completed"
	if !success {
		outcome = "failed"
	}
	oe.replays.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("status", strconv.Itoa(status)),
	))
}

// ServeHTTP exposes the registry in Prometheus text format
func (oe *OTelExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// Shutdown flushes and stops the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	return oe.meterProvider.Shutdown(ctx)
}
