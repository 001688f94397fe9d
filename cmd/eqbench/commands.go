// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	sourceDir   string
	outputDir   string
	resultsFile string
	diffkempBin string
	skipBuild   bool
	keepGoing   bool
	workers     int

	enableMetrics bool
	influxURL     string
	influxToken   string
	influxOrg     string
	influxBucket  string

	logDir   string
	jsonLogs bool
	verbose  bool
	quiet    bool

	rootCmd = &cobra.Command{
		Use:   "eqbench",
		Short: "Evaluate DiffKemp against the EqBench program pairs",
		Long: `eqbench drives the diffkemp tool over a directory of paired C
				programs, compares each old/new pair, and records whether the
				tool's verdict matches the expected equivalence label.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Build snapshots and compare every case in the suite",
		Args:  cobra.NoArgs,
		RunE:  runEval, // Defined in cmd_run.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the eqbench version",
		Run:   runVersion, // Defined in cmd_version.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&sourceDir, "source", "s", "eqbench", "Benchmark suite root directory")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "eqbench-results", "Directory for snapshots, diff reports and the results file")
	runCmd.Flags().StringVar(&resultsFile, "results-file", "results.csv", "Results file name, joined under --output when relative")
	runCmd.Flags().StringVar(&diffkempBin, "diffkemp", "diffkemp", "DiffKemp executable name or path")
	runCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Reuse snapshots from a previous run instead of building")
	runCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue past failing cases instead of aborting on the first")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Cases processed concurrently per phase (rows stay in case order)")
	runCmd.Flags().BoolVar(&enableMetrics, "metrics", false, "Emit OpenTelemetry run metrics to stderr at exit")
	runCmd.Flags().StringVar(&influxURL, "influx-url", "", "InfluxDB v2 server URL; mirrors result rows when set")
	runCmd.Flags().StringVar(&influxToken, "influx-token", "", "InfluxDB API token")
	runCmd.Flags().StringVar(&influxOrg, "influx-org", "", "InfluxDB organization (eqbench when omitted)")
	runCmd.Flags().StringVar(&influxBucket, "influx-bucket", "", "InfluxDB bucket (eqbench when omitted)")
	runCmd.Flags().StringVar(&logDir, "log-dir", "", "Directory for JSON log files; disabled when empty")
	runCmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Write stderr logs as JSON instead of text")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level, including suppressed tool stdout")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output and stderr logs")

	rootCmd.AddCommand(versionCmd)
}
