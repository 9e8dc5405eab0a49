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
	"fmt"
	"os"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func (r *Recorder) initializeProvider() error {
	if r.customProvider {
		r.logger.Debug("using caller-managed meter provider")
	} else {
		var err error
		switch r.provider {
		case PrometheusProvider:
			err = r.initPrometheusProvider()
		case OTLPProvider:
			err = r.initOTLPProvider()
		case OTLPGRPCProvider:
			err = r.initOTLPGRPCProvider()
		case StdoutProvider:
			err = r.initStdoutProvider()
		default:
			err = fmt.Errorf("unsupported metrics provider: %s", r.provider)
		}
		if err != nil {
			return err
		}
	}

	if r.registerGlobal {
		r.logger.Debug("setting global meter provider", "provider", r.provider)
		otel.SetMeterProvider(r.meterProvider)
	}
	r.meter = r.meterProvider.Meter(meterName)
	return r.initializeInstruments()
}

func (r *Recorder) initPrometheusProvider() error {
	r.registry = promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	r.prometheusHandler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return nil
}

// splitEndpoint strips an http:// or https:// scheme; http:// means a
// plaintext connection.
func splitEndpoint(endpoint string) (hostport string, insecure bool) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), true
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), false
	}
	return endpoint, false
}

func (r *Recorder) initOTLPProvider() error {
	var opts []otlpmetrichttp.Option
	if r.otlpEndpoint != "" {
		endpoint, insecure := splitEndpoint(r.otlpEndpoint)
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	r.meterProvider = r.periodicProvider(exporter)
	return nil
}

func (r *Recorder) initOTLPGRPCProvider() error {
	var opts []otlpmetricgrpc.Option
	if r.otlpEndpoint != "" {
		endpoint, insecure := splitEndpoint(r.otlpEndpoint)
		if insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
	}

	exporter, err := otlpmetricgrpc.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}
	r.meterProvider = r.periodicProvider(exporter)
	return nil
}

func (r *Recorder) periodicProvider(exporter sdkmetric.Exporter) *sdkmetric.MeterProvider {
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(r.exportInterval))),
	)
}

func (r *Recorder) initStdoutProvider() error {
	w := r.stdout
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	r.meterProvider = r.periodicProvider(exporter)
	return nil
}
