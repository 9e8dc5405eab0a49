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
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestMetrics carries the state of one in-flight measurement.
type RequestMetrics struct {
	StartTime  time.Time
	Attributes []attribute.KeyValue
}

// Start begins measuring a request. Pass the result to [Recorder.Finish].
// Start returns nil after [Recorder.Shutdown].
func (r *Recorder) Start(ctx context.Context, method string) *RequestMetrics {
	if r.isShuttingDown.Load() {
		return nil
	}
	m := &RequestMetrics{
		StartTime:  time.Now(),
		Attributes: make([]attribute.KeyValue, 3, 6),
	}
	m.Attributes[0] = r.serviceNameAttr
	m.Attributes[1] = r.serviceVersionAttr
	m.Attributes[2] = attribute.String("method", method)

	r.inflight.Add(ctx, 1, metric.WithAttributes(m.Attributes...))
	return m
}

// Finish records the request count and duration for the matched pattern
// and response status. A nil m is ignored.
func (r *Recorder) Finish(ctx context.Context, m *RequestMetrics, status int, pattern string) {
	if m == nil {
		return
	}
	base := metric.WithAttributes(m.Attributes...)
	r.inflight.Add(ctx, -1, base)

	attrs := metric.WithAttributes(append(m.Attributes,
		attribute.String("pattern", pattern),
		attribute.String("status", strconv.Itoa(status)),
		attribute.String("status_class", statusClass(status)),
	)...)
	r.requests.Add(ctx, 1, attrs)
	r.duration.Record(ctx, time.Since(m.StartTime).Seconds(), attrs)
}

// AddAttributes appends attributes recorded by [Recorder.Finish].
func (m *RequestMetrics) AddAttributes(attrs ...attribute.KeyValue) {
	if m == nil {
		return
	}
	m.Attributes = append(m.Attributes, attrs...)
}

func statusClass(status int) string {
	switch status / 100 {
	case 1:
		return "1xx"
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

// statusOf is the status recorded for a pipeline result. An error escaping
// the pipeline is counted as a 500.
func statusOf(status int, err error) int {
	if err != nil || status == 0 {
		return http.StatusInternalServerError
	}
	return status
}
