// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// ErrInfluxConfig indicates incomplete InfluxDB connection settings.
var ErrInfluxConfig = errors.New("incomplete influxdb configuration")

// Measurement is the InfluxDB measurement name for case results.
const Measurement = "eqbench_case"

// Sink is an optional secondary destination for result rows. The results
// file is always written; a sink mirrors rows elsewhere for dashboards or
// regression tracking across runs.
type Sink interface {
	// Record stores one row. Called in case order.
	Record(ctx context.Context, row Row) error

	// Close releases the sink's resources.
	Close(ctx context.Context) error
}

// InfluxConfig holds InfluxDB v2 connection settings.
type InfluxConfig struct {
	// URL is the server URL, e.g. "http://localhost:8086".
	URL string

	// Token is the API token.
	Token string

	// Org is the organization name. Defaults to "eqbench".
	Org string

	// Bucket is the destination bucket. Defaults to "eqbench".
	Bucket string
}

// InfluxSink writes one point per result row.
//
// # Description
//
// Each row becomes a point in the Measurement series: benchmark, program,
// case type and expected label as tags (they identify the series), rendered
// verdict and correctness as fields. The blocking write API is used so
// points land in case order and write failures surface immediately at the
// failing case rather than at shutdown.
type InfluxSink struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// NewInfluxSink connects a sink to an InfluxDB v2 instance. No network
// traffic happens until the first Record call.
func NewInfluxSink(cfg InfluxConfig) (*InfluxSink, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInfluxConfig)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInfluxConfig)
	}
	if cfg.Org == "" {
		cfg.Org = "eqbench"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "eqbench"
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client: client,
		write:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}, nil
}

// Record writes the row as a single point stamped with the current time.
func (s *InfluxSink) Record(ctx context.Context, row Row) error {
	point := influxdb2.NewPoint(
		Measurement,
		map[string]string{
			"benchmark": row.Benchmark,
			"program":   row.Program,
			"type":      row.Type,
			"expected":  row.Expected,
		},
		map[string]interface{}{
			"result":  row.Actual,
			"correct": row.Correct,
		},
		time.Now(),
	)

	if err := s.write.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("influx write %s/%s: %w", row.Benchmark, row.Program, err)
	}
	return nil
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close(ctx context.Context) error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
