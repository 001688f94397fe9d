// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("eqbench_test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	if metrics.BuildsTotal == nil {
		t.Error("BuildsTotal is nil")
	}
	if metrics.BuildDuration == nil {
		t.Error("BuildDuration is nil")
	}
	if metrics.ComparesTotal == nil {
		t.Error("ComparesTotal is nil")
	}
	if metrics.CompareDuration == nil {
		t.Error("CompareDuration is nil")
	}
	if metrics.CasesTotal == nil {
		t.Error("CasesTotal is nil")
	}
	if metrics.ErrorsTotal == nil {
		t.Error("ErrorsTotal is nil")
	}
}

// TestMetrics_RecordAndCollect verifies every instrument registers under its
// eqbench_ name and accepts recordings.
func TestMetrics_RecordAndCollect(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(ctx)

	metrics, err := NewMetrics(mp.Meter("eqbench_test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	metrics.BuildsTotal.Add(ctx, 2, metric.WithAttributes(attribute.String("status", "success")))
	metrics.BuildDuration.Record(ctx, 0.8)
	metrics.ComparesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failure")))
	metrics.CompareDuration.Record(ctx, 0.05)
	metrics.CasesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verdict", "Eq"),
		attribute.Bool("correct", true)))
	metrics.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", "compare")))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := map[string]bool{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			got[m.Name] = true
		}
	}

	want := []string{
		"eqbench_builds_total",
		"eqbench_build_duration_seconds",
		"eqbench_compares_total",
		"eqbench_compare_duration_seconds",
		"eqbench_cases_total",
		"eqbench_errors_total",
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("collected metrics missing %q (got %v)", name, got)
		}
	}
}
