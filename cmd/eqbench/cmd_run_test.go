// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PLukas2018/diffkemp-scripts/pkg/ux"
	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/results"
)

// fakeDiffkemp stands in for the real tool: builds succeed silently and
// compares report every symbol equal for Eq cases, none for Neq cases.
const fakeDiffkemp = `#!/bin/sh
if [ "$1" = "build" ]; then
  exit 0
fi
case "$2" in
*/Eq/*) printf 'Total symbols: 3\nEqual: 3\nNot equal: 0\n' ;;
*) printf 'Total symbols: 2\nEqual: 0\nNot equal: 2\n' ;;
esac
`

// brokenDiffkemp fails every build the way a missing compiler would.
const brokenDiffkemp = `#!/bin/sh
if [ "$1" = "build" ]; then
  echo "clang: error: no input files" >&2
  exit 3
fi
exit 0
`

// resetRunFlags restores the flag-bound globals between executions; cobra
// only overwrites the ones present in the next argv.
func resetRunFlags() {
	sourceDir = "eqbench"
	outputDir = "eqbench-results"
	resultsFile = "results.csv"
	diffkempBin = "diffkemp"
	skipBuild = false
	keepGoing = false
	workers = 1
	enableMetrics = false
	influxURL = ""
	influxToken = ""
	influxOrg = ""
	influxBucket = ""
	logDir = ""
	jsonLogs = false
	verbose = false
	quiet = false
}

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	resetRunFlags()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

// writeSuite creates a two-case benchmark tree: loops/sum with both labels.
func writeSuite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, label := range []string{"Eq", "Neq"} {
		dir := filepath.Join(root, "loops", "sum", label)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "old.c"),
			[]byte("int f(void) { return 1; }\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "new.c"),
			[]byte("int f(void) { return 1; }\n"), 0o644))
	}
	return root
}

func writeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diffkemp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestRunCommand_EndToEnd(t *testing.T) {
	ux.SetPlain(true)

	for _, w := range []string{"1", "3"} {
		t.Run("workers_"+w, func(t *testing.T) {
			src := writeSuite(t)
			out := filepath.Join(t.TempDir(), "run-output")
			tool := writeTool(t, fakeDiffkemp)

			var execErr error
			stdout := captureStdout(t, func() {
				execErr = executeCommand(t, "run",
					"--source", src,
					"--output", out,
					"--diffkemp", tool,
					"--workers", w,
				)
			})
			require.NoError(t, execErr)

			data, err := os.ReadFile(filepath.Join(out, "results.csv"))
			require.NoError(t, err)
			want := "type;benchmark;program;expected;result;correct\n" +
				"aggregated;loops;sum;Eq;Eq;true\n" +
				"aggregated;loops;sum;Neq;Neq;true\n"
			assert.Equal(t, want, string(data))

			assert.Contains(t, stdout, "loops/sum")
			assert.Contains(t, stdout, "correct=2")
			assert.Contains(t, stdout, "results written to")
		})
	}
}

func TestRunCommand_QuietSuppressesProgress(t *testing.T) {
	src := writeSuite(t)
	out := filepath.Join(t.TempDir(), "run-output")
	tool := writeTool(t, fakeDiffkemp)

	var execErr error
	stdout := captureStdout(t, func() {
		execErr = executeCommand(t, "run",
			"--source", src, "--output", out, "--diffkemp", tool, "--quiet")
	})
	require.NoError(t, execErr)
	assert.Empty(t, stdout)

	// Quiet only silences the terminal; the results file is still written.
	_, err := os.Stat(filepath.Join(out, "results.csv"))
	require.NoError(t, err)
}

func TestRunCommand_BuildFailureAborts(t *testing.T) {
	src := writeSuite(t)
	out := filepath.Join(t.TempDir(), "run-output")
	tool := writeTool(t, brokenDiffkemp)

	err := executeCommand(t, "run",
		"--source", src, "--output", out, "--diffkemp", tool, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit 3")
	assert.Contains(t, err.Error(), "clang: error: no input files")

	// The header was written before the build phase started; nothing else.
	data, readErr := os.ReadFile(filepath.Join(out, "results.csv"))
	require.NoError(t, readErr)
	assert.Equal(t, results.Header+"\n", string(data))
}

func TestRunCommand_InfluxAllOrNothing(t *testing.T) {
	src := writeSuite(t)
	out := filepath.Join(t.TempDir(), "run-output")

	// An org alone is not a usable sink configuration. The run must refuse
	// before the first tool invocation, so no fake tool is needed.
	err := executeCommand(t, "run",
		"--source", src, "--output", out, "--influx-org", "kernel-ci", "--quiet")
	require.Error(t, err)
	assert.ErrorIs(t, err, results.ErrInfluxConfig)
}

func TestRunCommand_MetricsToStderr(t *testing.T) {
	src := writeSuite(t)
	out := filepath.Join(t.TempDir(), "run-output")
	tool := writeTool(t, fakeDiffkemp)

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	execErr := executeCommand(t, "run",
		"--source", src, "--output", out, "--diffkemp", tool,
		"--metrics", "--quiet")

	os.Stderr = oldStderr
	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, execErr)

	stderr := string(data)
	assert.Contains(t, stderr, "eqbench_builds_total")
	assert.Contains(t, stderr, "eqbench_cases_total")
}

func TestRunCommand_RejectsPositionalArgs(t *testing.T) {
	err := executeCommand(t, "run", "stray-arg")
	require.Error(t, err)
}
