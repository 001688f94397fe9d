// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package diffkemp

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// TestClient_Build_ArgumentOrder verifies the exact argv contract of the
// build subcommand.
func TestClient_Build_ArgumentOrder(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{Stdout: "Building snapshot...\n"}, nil
		},
	}
	client := NewClient(Config{Runner: mock})

	err := client.Build(context.Background(), "gsl/sum/Eq/old.c", "out/gsl/sum/Eq/old")
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(mock.Calls))
	}
	call := mock.Calls[0]
	if call.Name != "diffkemp" {
		t.Errorf("binary = %q, want %q", call.Name, "diffkemp")
	}
	want := []string{"build", "gsl/sum/Eq/old.c", "out/gsl/sum/Eq/old"}
	if !reflect.DeepEqual(call.Args, want) {
		t.Errorf("args = %v, want %v", call.Args, want)
	}
}

// TestClient_Build_CustomBin verifies a configured executable path is used.
func TestClient_Build_CustomBin(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{}, nil
		},
	}
	client := NewClient(Config{Bin: "/opt/diffkemp/bin/diffkemp", Runner: mock})

	if err := client.Build(context.Background(), "old.c", "snap"); err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if mock.Calls[0].Name != "/opt/diffkemp/bin/diffkemp" {
		t.Errorf("binary = %q, want configured path", mock.Calls[0].Name)
	}
}

// TestClient_Build_NonZeroExit verifies failure mapping to ProcessError.
func TestClient_Build_NonZeroExit(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{ExitCode: 2, Stderr: "  clang: error: no such file  \n"}, nil
		},
	}
	client := NewClient(Config{Runner: mock})

	err := client.Build(context.Background(), "missing.c", "snap")
	if err == nil {
		t.Fatal("Build() expected error for non-zero exit, got nil")
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Build() error = %T, want *ProcessError", err)
	}
	if procErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", procErr.ExitCode)
	}
	if procErr.Stderr != "clang: error: no such file" {
		t.Errorf("Stderr = %q, want trimmed tool output", procErr.Stderr)
	}
	if procErr.Command != "diffkemp build missing.c snap" {
		t.Errorf("Command = %q, want full command line", procErr.Command)
	}
}

// TestClient_Build_StartFailure verifies the underlying error stays
// reachable through the chain when the process never ran.
func TestClient_Build_StartFailure(t *testing.T) {
	startErr := errors.New("exec: \"diffkemp\": executable file not found in $PATH")
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{ExitCode: -1}, startErr
		},
	}
	client := NewClient(Config{Runner: mock})

	err := client.Build(context.Background(), "old.c", "snap")
	if err == nil {
		t.Fatal("Build() expected error, got nil")
	}
	if !errors.Is(err, startErr) {
		t.Errorf("Build() error chain does not contain the start failure: %v", err)
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Build() error = %T, want *ProcessError", err)
	}
	if procErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", procErr.ExitCode)
	}
}

// TestClient_Compare_ArgumentOrder verifies the aggregated compare argv:
// no --function flag when no target function is set.
func TestClient_Compare_ArgumentOrder(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{Stdout: "Total symbols: 2\nEqual: 2\nNot equal: 0\n"}, nil
		},
	}
	client := NewClient(Config{Runner: mock})

	out, err := client.Compare(context.Background(), "snap/old", "snap/new", "diff", "")
	if err != nil {
		t.Fatalf("Compare() unexpected error: %v", err)
	}
	if out != "Total symbols: 2\nEqual: 2\nNot equal: 0\n" {
		t.Errorf("Compare() stdout = %q, want raw report text", out)
	}

	want := []string{"compare", "snap/old", "snap/new", "-o", "diff", "--report-stat"}
	if !reflect.DeepEqual(mock.Calls[0].Args, want) {
		t.Errorf("args = %v, want %v", mock.Calls[0].Args, want)
	}
}

// TestClient_Compare_FunctionFlag verifies --function is appended last for
// function-level cases.
func TestClient_Compare_FunctionFlag(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{Stdout: "Total symbols: 1\nEqual: 1\nNot equal: 0\n"}, nil
		},
	}
	client := NewClient(Config{Runner: mock})

	_, err := client.Compare(context.Background(), "snap/old", "snap/new", "diff", "gsl_sum_levin")
	if err != nil {
		t.Fatalf("Compare() unexpected error: %v", err)
	}

	want := []string{"compare", "snap/old", "snap/new", "-o", "diff", "--report-stat", "--function", "gsl_sum_levin"}
	if !reflect.DeepEqual(mock.Calls[0].Args, want) {
		t.Errorf("args = %v, want %v", mock.Calls[0].Args, want)
	}
}

// TestClient_Compare_NonZeroExit verifies failure mapping and that no
// report text is returned alongside the error.
func TestClient_Compare_NonZeroExit(t *testing.T) {
	mock := &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) (Result, error) {
			return Result{ExitCode: 1, Stdout: "partial", Stderr: "snapshot dir not found"}, nil
		},
	}
	client := NewClient(Config{Runner: mock})

	out, err := client.Compare(context.Background(), "snap/old", "snap/new", "diff", "")
	if err == nil {
		t.Fatal("Compare() expected error for non-zero exit, got nil")
	}
	if out != "" {
		t.Errorf("Compare() stdout = %q, want empty on failure", out)
	}

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Compare() error = %T, want *ProcessError", err)
	}
	if procErr.Stderr != "snapshot dir not found" {
		t.Errorf("Stderr = %q, want tool stderr", procErr.Stderr)
	}
}

// TestNewClient_Defaults verifies zero-value config selects defaults.
func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})
	if client.bin != DefaultBin {
		t.Errorf("bin = %q, want %q", client.bin, DefaultBin)
	}
	if client.proc == nil {
		t.Error("runner not defaulted")
	}
	if client.log == nil {
		t.Error("logger not defaulted")
	}
}
