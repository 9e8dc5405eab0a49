// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider names a metrics exporter.
type Provider string

const (
	// PrometheusProvider exposes metrics through [Recorder.Handler] (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP/HTTP collector.
	OTLPProvider Provider = "otlp"
	// OTLPGRPCProvider pushes metrics to an OTLP/gRPC collector.
	OTLPGRPCProvider Provider = "otlp-grpc"
	// StdoutProvider writes metrics to a writer, for development.
	StdoutProvider Provider = "stdout"
)

const (
	meterName = "rivaas.dev/kernel/metrics"

	requestsMetric = "kernel.dispatch.requests"
	durationMetric = "kernel.dispatch.duration"
	inflightMetric = "kernel.dispatch.active"
)

// DefaultDurationBuckets are the histogram boundaries, in seconds.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// ErrNoHandler is returned by [Recorder.Handler] when the exporter is not Prometheus.
	ErrNoHandler = errors.New("metrics: no scrape handler for this provider")
	// ErrNilMeterProvider is returned when [WithMeterProvider] receives nil.
	ErrNilMeterProvider = errors.New("metrics: nil meter provider")
)

// Recorder owns the meter provider and the dispatch instruments.
// All methods are safe for concurrent use.
type Recorder struct {
	provider         Provider
	providerSetCount int
	meterProvider    metric.MeterProvider
	customProvider   bool
	registerGlobal   bool

	registry          *promclient.Registry
	prometheusHandler http.Handler

	otlpEndpoint   string
	stdout         io.Writer
	exportInterval time.Duration

	meter    metric.Meter
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inflight metric.Int64UpDownCounter

	durationBuckets []float64

	serviceName        string
	serviceVersion     string
	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	logger         *slog.Logger
	isShuttingDown atomic.Bool
}

// New creates a [Recorder]. The Prometheus exporter is used unless another
// provider option is given.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		serviceName:     "rivaas-service",
		serviceVersion:  "1.0.0",
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics initialization failed: " + err.Error())
	}
	return r
}

func (r *Recorder) validate() error {
	var errs []error
	if r.providerSetCount > 1 {
		errs = append(errs, errors.New("multiple providers configured; choose one"))
	}
	if r.customProvider && r.meterProvider == nil {
		errs = append(errs, ErrNilMeterProvider)
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if r.exportInterval <= 0 {
		errs = append(errs, errors.New("export interval must be positive"))
	}
	for i := 1; i < len(r.durationBuckets); i++ {
		if r.durationBuckets[i] <= r.durationBuckets[i-1] {
			errs = append(errs, errors.New("duration buckets must be strictly increasing"))
			break
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) initializeInstruments() error {
	var err error
	r.requests, err = r.meter.Int64Counter(requestsMetric,
		metric.WithDescription("Number of dispatched requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", requestsMetric, err)
	}
	r.duration, err = r.meter.Float64Histogram(durationMetric,
		metric.WithDescription("Time spent in the dispatch pipeline"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", durationMetric, err)
	}
	r.inflight, err = r.meter.Int64UpDownCounter(inflightMetric,
		metric.WithDescription("Requests currently in the dispatch pipeline"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", inflightMetric, err)
	}
	return nil
}

// Handler returns the Prometheus scrape handler.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the configured exporter.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// MeterProvider returns the provider backing the instruments.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// ServiceName returns the service.name attribute value.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush exports pending metrics of push-based providers.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok && !r.customProvider {
		return mp.ForceFlush(ctx)
	}
	return nil
}

// Shutdown flushes and stops the meter provider. A provider supplied with
// [WithMeterProvider] is left to its owner. Calling Shutdown again is a no-op.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customProvider {
		r.logger.Debug("skipping shutdown of caller-managed meter provider")
		return nil
	}
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.Shutdown(ctx); err != nil {
		r.logger.Error("meter provider shutdown failed", "error", err)
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}
