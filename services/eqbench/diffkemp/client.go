// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package diffkemp invokes the diffkemp binary to build semantic snapshots
// of C sources and to compare snapshot pairs.
//
// The package owns the tool's command-line contract: argument order, the
// --report-stat and --function flags, and the policy that informational
// stdout from builds is suppressed while compare stdout is the report the
// caller parses. Nothing here interprets report content; that belongs to
// the report package.
package diffkemp

import (
	"context"
	"strings"

	"github.com/PLukas2018/diffkemp-scripts/pkg/logging"
)

// DefaultBin is the executable name used when no explicit path is given.
const DefaultBin = "diffkemp"

// Config controls Client construction. Zero values select defaults.
type Config struct {
	// Bin is the diffkemp executable name or path. Defaults to DefaultBin.
	Bin string

	// Runner executes processes. Defaults to a real ExecRunner.
	Runner Runner

	// Logger receives invocation diagnostics. Defaults to the shared
	// default logger.
	Logger *logging.Logger
}

// Client wraps the diffkemp tool behind Go method calls.
type Client struct {
	bin  string
	proc Runner
	log  *logging.Logger
}

// NewClient creates a Client, filling unset config fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.Bin == "" {
		cfg.Bin = DefaultBin
	}
	if cfg.Runner == nil {
		cfg.Runner = NewExecRunner()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Client{
		bin:  cfg.Bin,
		proc: cfg.Runner,
		log:  cfg.Logger,
	}
}

// Build creates a snapshot of a single C source file.
//
// # Description
//
// Runs `diffkemp build <sourceFile> <outputDir>`. The tool writes
// snapshot.yaml and compiled artifacts into outputDir. Informational
// stdout is suppressed; it surfaces only at debug level.
//
// # Inputs
//
//   - ctx: cancels the build when done.
//   - sourceFile: path to the C source (old.c, new.c or their V variants).
//   - outputDir: snapshot directory, created by the tool.
//
// # Outputs
//
//   - error: nil on success; *ProcessError carrying stderr on non-zero
//     exit or start failure.
func (c *Client) Build(ctx context.Context, sourceFile, outputDir string) error {
	args := []string{"build", sourceFile, outputDir}

	res, err := c.proc.Run(ctx, c.bin, args...)
	if err != nil {
		return NewProcessError(c.commandLine(args), res.ExitCode, res.Stderr, err)
	}
	if res.ExitCode != 0 {
		return NewProcessError(c.commandLine(args), res.ExitCode, res.Stderr, nil)
	}

	if res.Stdout != "" {
		c.log.Debug("build output suppressed",
			"source", sourceFile,
			"bytes", len(res.Stdout))
	}
	if res.Stderr != "" {
		// Compiler warnings land on stderr even when the build succeeds.
		c.log.Debug("build warnings",
			"source", sourceFile,
			"stderr", strings.TrimSpace(res.Stderr))
	}
	c.log.Debug("snapshot built",
		"source", sourceFile,
		"output_dir", outputDir,
		"duration", res.Duration)
	return nil
}

// Compare runs a semantic comparison of two snapshots.
//
// # Description
//
// Runs `diffkemp compare <old> <new> -o <outputDir> --report-stat`,
// adding `--function <name>` when function is non-empty. The returned
// string is the tool's stdout: the statistics report the report package
// parses. The tool also writes diffkemp-out.yaml into outputDir.
//
// # Outputs
//
//   - string: raw report text from stdout.
//   - error: nil on success; *ProcessError on non-zero exit or start
//     failure.
func (c *Client) Compare(ctx context.Context, oldSnapshotDir, newSnapshotDir, outputDir, function string) (string, error) {
	args := []string{"compare", oldSnapshotDir, newSnapshotDir, "-o", outputDir, "--report-stat"}
	if function != "" {
		args = append(args, "--function", function)
	}

	res, err := c.proc.Run(ctx, c.bin, args...)
	if err != nil {
		return "", NewProcessError(c.commandLine(args), res.ExitCode, res.Stderr, err)
	}
	if res.ExitCode != 0 {
		return "", NewProcessError(c.commandLine(args), res.ExitCode, res.Stderr, nil)
	}

	if res.Stderr != "" {
		c.log.Debug("compare warnings",
			"old_dir", oldSnapshotDir,
			"stderr", strings.TrimSpace(res.Stderr))
	}
	c.log.Debug("snapshots compared",
		"old_dir", oldSnapshotDir,
		"new_dir", newSnapshotDir,
		"duration", res.Duration)
	return res.Stdout, nil
}

func (c *Client) commandLine(args []string) string {
	return c.bin + " " + strings.Join(args, " ")
}
