// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report parses the output artifacts of one comparison run: the
// statistics text the tool prints to stdout and the YAML documents it leaves
// on disk.
//
// All knowledge of the tool's output formats lives here. The adapter that
// invokes the tool only transports text; the classifier that consumes the
// counts never touches YAML shapes or file names.
package report

import "errors"

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrMalformedReport is returned when a statistics report is missing
	// one of its three required counter lines.
	ErrMalformedReport = errors.New("malformed comparison report")

	// ErrEmptySnapshot is returned when a snapshot document contains no
	// symbol groups to read function names from.
	ErrEmptySnapshot = errors.New("snapshot contains no symbol groups")
)

// -----------------------------------------------------------------------------
// Artifact names
// -----------------------------------------------------------------------------

const (
	// SnapshotFile is the document the tool writes into a snapshot
	// directory during build.
	SnapshotFile = "snapshot.yaml"

	// ResultFile is the per-case result document the tool writes into the
	// compare output directory.
	ResultFile = "diffkemp-out.yaml"
)

// -----------------------------------------------------------------------------
// Statistics
// -----------------------------------------------------------------------------

// Stats holds the aggregate symbol counts from one compare invocation.
//
// The counts come straight from the report text; no arithmetic relation
// between them is assumed or enforced here.
type Stats struct {
	// TotalSymbols is the number of symbols the tool compared.
	TotalSymbols int

	// EqualSymbols is the number of symbols found semantically equal.
	EqualSymbols int

	// NotEqualSymbols is the number of symbols found not equal.
	NotEqualSymbols int
}
