package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/PLukas2018/diffkemp-scripts/pkg/logging"
	"github.com/PLukas2018/diffkemp-scripts/pkg/ux"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/diffkemp"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/results"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/runner"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/telemetry"
)

// shutdownTimeout bounds telemetry flushing after the run context is gone.
const shutdownTimeout = 5 * time.Second

func runEval(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// 1. Logging. Everything downstream reports through this logger.
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  logDir,
		Service: "eqbench",
		JSON:    jsonLogs,
		Quiet:   quiet,
	})
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", closeErr)
		}
	}()

	// 2. Telemetry. Metrics are collected in memory and flushed to stderr
	// by the deferred shutdown, after the summary line.
	var metrics *telemetry.Metrics
	if enableMetrics {
		telemetryCfg := telemetry.DefaultConfig()
		telemetryCfg.ServiceVersion = version
		telemetryCfg.Writer = os.Stderr

		shutdown, err := telemetry.Init(ctx, telemetryCfg)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			// The run context is already cancelled after SIGINT; flush
			// with a fresh one.
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := shutdown(flushCtx); shutdownErr != nil {
				logger.Warn("Telemetry shutdown failed", "error", shutdownErr)
			}
		}()

		metrics, err = telemetry.NewMetrics(otel.Meter("eqbench"))
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	// 3. Influx sink. Org and bucket fall back to "eqbench"; a URL without
	// a token (or the reverse) is rejected before any case runs.
	var sink results.Sink
	if influxURL != "" || influxToken != "" || influxOrg != "" || influxBucket != "" {
		influxSink, err := results.NewInfluxSink(results.InfluxConfig{
			URL:    influxURL,
			Token:  influxToken,
			Org:    influxOrg,
			Bucket: influxBucket,
		})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := influxSink.Close(context.Background()); closeErr != nil {
				logger.Warn("Influx sink close failed", "error", closeErr)
			}
		}()
		sink = influxSink
		logger.Info("Mirroring results to InfluxDB", "url", influxURL)
	}

	// 4. Tool client and runner.
	client := diffkemp.NewClient(diffkemp.Config{
		Bin:    diffkempBin,
		Logger: logger,
	})

	opts := []runner.Option{
		runner.WithClient(client),
		runner.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, runner.WithMetrics(metrics))
	}
	if sink != nil {
		opts = append(opts, runner.WithSink(sink))
	}
	if !quiet {
		opts = append(opts, runner.WithProgress(func(row results.Row) {
			ux.CaseStatus(row.Benchmark+"/"+row.Program, row.Expected, row.Actual, row.Correct)
		}))
	}

	eval := runner.New(runner.Config{
		SourceDir:   sourceDir,
		OutputDir:   outputDir,
		ResultsFile: resultsFile,
		DiffkempBin: diffkempBin,
		SkipBuild:   skipBuild,
		KeepGoing:   keepGoing,
		Workers:     workers,
	}, opts...)

	if !quiet {
		ux.Title("eqbench " + version)
		ux.Info(fmt.Sprintf("suite %s, artifacts under %s", sourceDir, outputDir))
	}

	summary, err := eval.Run(ctx)
	if summary != nil && !quiet {
		ux.Summary(summary.Correct, summary.Incorrect, summary.Failed, summary.Cases, summary.Duration)
	}
	if err != nil {
		return err
	}
	if !quiet {
		ux.Success("results written to " + summary.ResultsPath)
	}
	return nil
}
