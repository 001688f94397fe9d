// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diffkemp

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"
)

// Result captures a finished process invocation.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// ExitCode is the process exit code. -1 when the process never ran
	// or was killed by a signal.
	ExitCode int

	// Duration is the wall-clock time the invocation took.
	Duration time.Duration
}

// Runner abstracts process execution for testability.
//
// # Description
//
// A non-zero exit is not an error at this level: the process ran and
// produced a result, so implementations return (Result, nil) and leave the
// exit-code policy to the caller. The returned error is reserved for
// invocations that never completed — binary not found, context cancelled.
type Runner interface {
	// Run executes name with args and waits for completion. Output is
	// captured in full; the tool produces small reports, not streams.
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, capturing stdout and stderr separately.
//
// # Outputs
//
//   - Result: always populated with whatever output was captured, even on
//     failure, so callers can surface stderr.
//   - error: nil for any completed invocation including non-zero exits;
//     non-nil when the process could not be started or the context was
//     cancelled mid-run.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	// Context cancellation wins over whatever exit state the kill produced.
	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	// Start failure: binary missing, permission denied.
	res.ExitCode = -1
	return res, err
}

// RunnerCall records a single invocation for mock verification.
type RunnerCall struct {
	Name string
	Args []string
}

// MockRunner implements Runner for testing.
//
// # Example
//
//	mock := &diffkemp.MockRunner{
//	    RunFunc: func(ctx context.Context, name string, args ...string) (diffkemp.Result, error) {
//	        return diffkemp.Result{Stdout: "Total symbols: 1\nEqual: 1\nNot equal: 0\n"}, nil
//	    },
//	}
type MockRunner struct {
	// RunFunc is called by Run. Panics if nil.
	RunFunc func(ctx context.Context, name string, args ...string) (Result, error)

	// Calls records every invocation in order.
	Calls []RunnerCall

	mu sync.Mutex
}

// Run records the call and delegates to RunFunc.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, RunnerCall{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.RunFunc == nil {
		panic("MockRunner.RunFunc is nil")
	}
	return m.RunFunc(ctx, name, args...)
}
