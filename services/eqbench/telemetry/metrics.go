// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the benchmark evaluator.
//
// # Description
//
// Provides counters and histograms for snapshot builds, semantic
// comparisons, and classified cases. All metrics use the "eqbench_" prefix
// for consistent naming.
//
// Thread Safety: safe for concurrent use after creation.
type Metrics struct {
	// BuildsTotal counts snapshot build invocations by status.
	BuildsTotal metric.Int64Counter

	// BuildDuration records snapshot build duration in seconds.
	BuildDuration metric.Float64Histogram

	// ComparesTotal counts comparison invocations by status.
	ComparesTotal metric.Int64Counter

	// CompareDuration records comparison duration in seconds.
	CompareDuration metric.Float64Histogram

	// CasesTotal counts classified cases by verdict and correctness.
	CasesTotal metric.Int64Counter

	// ErrorsTotal counts errors by stage.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered.
//
// # Inputs
//
//   - meter: the OTel meter to register instruments with.
//
// # Outputs
//
//   - *Metrics: instance with all counters and histograms initialized.
//   - error: non-nil if any registration fails.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.BuildsTotal, err = meter.Int64Counter(
		"eqbench_builds_total",
		metric.WithDescription("Total snapshot build invocations"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create builds_total: %w", err)
	}

	m.BuildDuration, err = meter.Float64Histogram(
		"eqbench_build_duration_seconds",
		metric.WithDescription("Snapshot build duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, fmt.Errorf("create build_duration: %w", err)
	}

	m.ComparesTotal, err = meter.Int64Counter(
		"eqbench_compares_total",
		metric.WithDescription("Total comparison invocations"),
		metric.WithUnit("{comparison}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create compares_total: %w", err)
	}

	m.CompareDuration, err = meter.Float64Histogram(
		"eqbench_compare_duration_seconds",
		metric.WithDescription("Comparison duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, fmt.Errorf("create compare_duration: %w", err)
	}

	m.CasesTotal, err = meter.Int64Counter(
		"eqbench_cases_total",
		metric.WithDescription("Total classified cases by verdict and correctness"),
		metric.WithUnit("{case}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cases_total: %w", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"eqbench_errors_total",
		metric.WithDescription("Total errors by stage"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}
