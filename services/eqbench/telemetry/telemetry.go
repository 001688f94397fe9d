// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

var (
	// ErrNilContext indicates a nil context.Context was passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter indicates an unsupported exporter name.
	ErrUnknownExporter = errors.New("unknown metric exporter")
)

// Config controls telemetry behavior.
//
// All fields have sensible defaults via DefaultConfig().
type Config struct {
	// ServiceName identifies this service in metrics.
	ServiceName string `json:"service_name"`

	// ServiceVersion is the version string for this service.
	ServiceVersion string `json:"service_version"`

	// Environment identifies the deployment environment.
	Environment string `json:"environment"`

	// Exporter selects the metric exporter: "stdout" or "none".
	Exporter string `json:"exporter"`

	// Writer is the stdout exporter's destination. Defaults to os.Stdout.
	Writer io.Writer `json:"-"`
}

// DefaultConfig returns opinionated defaults for a one-shot CLI run.
//
// Environment variables override defaults where applicable:
//   - EQBENCH_ENV: environment name
//   - OTEL_METRICS_EXPORTER: metric exporter type
func DefaultConfig() Config {
	return Config{
		ServiceName:    "eqbench",
		ServiceVersion: "1.0.0",
		Environment:    getEnvOr("EQBENCH_ENV", "development"),
		Exporter:       getEnvOr("OTEL_METRICS_EXPORTER", "stdout"),
		Writer:         os.Stdout,
	}
}

// Init initializes the telemetry stack with the given configuration.
//
// # Description
//
// Sets up the OpenTelemetry MeterProvider. After Init returns successfully,
// otel.Meter() can be used throughout the application. Metrics are
// collected by a periodic reader and flushed when the shutdown function
// runs, so a run's final counters always reach the exporter.
//
// # Inputs
//
//   - ctx: context for initialization.
//   - cfg: telemetry configuration. Use DefaultConfig() for defaults.
//
// # Outputs
//
//   - shutdown: function to call on application exit. Must be called.
//   - error: non-nil if initialization fails.
//
// Thread Safety: call once at application startup.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	if cfg.Exporter == "none" {
		return func(context.Context) error { return nil }, nil
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	mp, err := initMeter(cfg, res)
	if err != nil {
		return nil, fmt.Errorf("init meter: %w", err)
	}
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// initMeter creates and returns a configured MeterProvider.
func initMeter(cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	switch cfg.Exporter {
	case "stdout":
		var exporter metric.Exporter
		var err error

		if cfg.Writer == nil || cfg.Writer == io.Writer(os.Stdout) {
			exporter, err = stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		} else {
			enc := json.NewEncoder(cfg.Writer)
			enc.SetIndent("", "\t")
			exporter, err = stdoutmetric.New(stdoutmetric.WithEncoder(enc))
		}
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}

		return metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(exporter)),
		), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
}

// getEnvOr returns the environment variable value or the fallback.
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
