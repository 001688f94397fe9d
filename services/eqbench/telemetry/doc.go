// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package telemetry provides OpenTelemetry-based metrics for benchmark runs.
//
// OpenTelemetry IS the abstraction layer: the package uses OTel APIs
// directly and backends are swapped through exporter configuration, not
// code. The default exporter is stdout — the evaluator is a one-shot CLI,
// so metrics are flushed as a JSON document when the run shuts down rather
// than scraped from an endpoint.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(ctx)
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("eqbench"))
package telemetry
