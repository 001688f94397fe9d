// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package results assembles per-case result rows and serializes them to the
// delimited results file plus optional secondary sinks.
//
// The row format is semicolon-joined with NO quoting or escaping. A field
// value containing the delimiter would corrupt the row; benchmark and
// program names come from the suite directory layout and are controlled, so
// the limitation is accepted. Downstream tooling splits on ";" and relies on
// the exact header below.
package results

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the first line of the results file.
const Header = "type;benchmark;program;expected;result;correct"

// Separator joins row fields. Field values are never escaped.
const Separator = ";"

// Row is the final record for one evaluated case.
//
// # Description
//
// Created once per case and written exactly once. Type is the rendered case
// kind ("function-level" or "aggregated"), Expected the directory label the
// case was found under, Actual the rendered verdict, and Correct the exact
// string equality of the two.
type Row struct {
	// Type is "function-level" or "aggregated".
	Type string

	// Benchmark is the benchmark directory name (e.g. "gsl").
	Benchmark string

	// Program is the program directory name (e.g. "sum_levin").
	Program string

	// Expected is the label directory name: "Eq" or "Neq".
	Expected string

	// Actual is the rendered verdict text.
	Actual string

	// Correct reports whether Actual equals Expected exactly.
	Correct bool
}

// Record serializes the row as one delimited line, without the trailing
// newline. Correct renders as "true"/"false".
func (r Row) Record() string {
	return strings.Join([]string{
		r.Type,
		r.Benchmark,
		r.Program,
		r.Expected,
		r.Actual,
		strconv.FormatBool(r.Correct),
	}, Separator)
}

// Writer appends delimited records to an underlying writer, emitting the
// header exactly once.
//
// Rows are flushed to the underlying writer as they arrive, so a run
// aborted mid-way leaves every completed case on disk. The writer is
// single-owner; callers coordinate concurrent access.
type Writer struct {
	w           io.Writer
	wroteHeader bool
}

// NewWriter wraps w. Nothing is written until WriteHeader or the first Write.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader emits the header line. Idempotent: calling it after the
// header has already been written is a no-op. Called up front so that a
// run over an empty suite still produces a well-formed file.
func (w *Writer) WriteHeader() error {
	if w.wroteHeader {
		return nil
	}
	if _, err := io.WriteString(w.w, Header+"\n"); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}
	w.wroteHeader = true
	return nil
}

// Write appends one row, emitting the header first if it has not been
// written yet.
func (w *Writer) Write(row Row) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, row.Record()+"\n"); err != nil {
		return fmt.Errorf("write result row %s/%s: %w", row.Benchmark, row.Program, err)
	}
	return nil
}
