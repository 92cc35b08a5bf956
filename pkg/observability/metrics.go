// Copyright 2025 Leadline AI
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

// Package observability exposes wizard metrics through the OTel metric
// SDK with a Prometheus exporter. The exporter registers against the
// default Prometheus registry, which the shell server serves on
// /metrics.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records wizard activity. A disabled Metrics (or nil) is a
// safe no-op.
type Metrics struct {
	enabled bool

	deployDuration metric.Float64Histogram
	deploys        metric.Int64Counter
	deployErrors   metric.Int64Counter

	simRuns     metric.Int64Counter
	simDuration metric.Float64Histogram

	draftUpdates metric.Int64Counter
}

// InitMetrics sets up the meter provider and instruments. When
// disabled, all recording calls are no-ops.
func InitMetrics(ctx context.Context, enabled bool) (*Metrics, error) {
	if !enabled {
		return &Metrics{}, nil
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meter := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
	).Meter("leadline")

	deployDuration, err := meter.Float64Histogram(
		"leadline_deploy_duration_seconds",
		metric.WithDescription("Deploy/update pipeline duration in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deploy duration histogram: %w", err)
	}

	deploys, err := meter.Int64Counter(
		"leadline_deploys_total",
		metric.WithDescription("Total deploy and update attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deploys counter: %w", err)
	}

	deployErrors, err := meter.Int64Counter(
		"leadline_deploy_errors_total",
		metric.WithDescription("Total failed deploy and update attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deploy errors counter: %w", err)
	}

	simRuns, err := meter.Int64Counter(
		"leadline_sim_runs_total",
		metric.WithDescription("Total tool simulation runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sim runs counter: %w", err)
	}

	simDuration, err := meter.Float64Histogram(
		"leadline_sim_duration_seconds",
		metric.WithDescription("Tool simulation duration in seconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sim duration histogram: %w", err)
	}

	draftUpdates, err := meter.Int64Counter(
		"leadline_draft_updates_total",
		metric.WithDescription("Total draft mutations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft updates counter: %w", err)
	}

	return &Metrics{
		enabled:        true,
		deployDuration: deployDuration,
		deploys:        deploys,
		deployErrors:   deployErrors,
		simRuns:        simRuns,
		simDuration:    simDuration,
		draftUpdates:   draftUpdates,
	}, nil
}

// RecordDeploy records one deploy or update attempt.
func (m *Metrics) RecordDeploy(ctx context.Context, operation string, seconds float64, err error) {
	if m == nil || !m.enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.deploys.Add(ctx, 1, attrs)
	m.deployDuration.Record(ctx, seconds, attrs)
	if err != nil {
		m.deployErrors.Add(ctx, 1, attrs)
	}
}

// RecordSimRun records one tool simulation.
func (m *Metrics) RecordSimRun(ctx context.Context, tool string, success bool, seconds float64) {
	if m == nil || !m.enabled {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.Bool("success", success),
	)
	m.simRuns.Add(ctx, 1, attrs)
	m.simDuration.Record(ctx, seconds, attrs)
}

// RecordDraftUpdate records one draft mutation.
func (m *Metrics) RecordDraftUpdate(ctx context.Context) {
	if m == nil || !m.enabled {
		return
	}
	m.draftUpdates.Add(ctx, 1)
}
