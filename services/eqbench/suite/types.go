// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package suite discovers benchmark cases on disk.
//
// A benchmark tree has the layout
//
//	<root>/<benchmark>/<program>/<Eq|Neq>/
//
// where each leaf directory holds an old and a new version of one C program
// and its name encodes the ground-truth label. A program directory may also
// carry a descriptor file naming the single function expected to differ,
// which marks its cases as function-level rather than aggregated.
package suite

import (
	"errors"
	"path"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrMissingFunction is returned when a descriptor file exists but
	// carries no usable function name.
	ErrMissingFunction = errors.New("descriptor missing function field")

	// ErrMissingSource is returned when a case directory lacks an old or
	// new source file.
	ErrMissingSource = errors.New("case source file not found")
)

// DescriptorFile is the per-program metadata file, relative to the program
// directory.
const DescriptorFile = "function.yaml"

// -----------------------------------------------------------------------------
// Labels and kinds
// -----------------------------------------------------------------------------

// Label is a case's ground-truth equivalence label, encoded in the name of
// the case directory.
type Label string

const (
	// LabelEq marks programs whose versions are semantically equal.
	LabelEq Label = "Eq"

	// LabelNeq marks programs whose versions differ.
	LabelNeq Label = "Neq"
)

// Kind distinguishes how a case's difference is scoped.
type Kind int

const (
	// KindAggregated compares whole programs; the case has no descriptor.
	KindAggregated Kind = iota

	// KindFunction restricts the comparison to the descriptor's function.
	KindFunction
)

// String returns the kind name used in result rows.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function-level"
	default:
		return "aggregated"
	}
}

// -----------------------------------------------------------------------------
// Cases
// -----------------------------------------------------------------------------

// Descriptor is the per-program metadata read from DescriptorFile.
type Descriptor struct {
	// Function names the single function expected to differ between the
	// program's versions.
	Function string `yaml:"function"`
}

// Case is one discovered benchmark case.
type Case struct {
	// Benchmark and Program are the path-derived identifiers: the last
	// two directory names above the label directory.
	Benchmark string
	Program   string

	// Label is the ground-truth verdict from the directory name.
	Label Label

	// Dir is the label directory holding the case's sources.
	Dir string

	// OldSource and NewSource are the resolved source file paths. Both
	// the bare (old.c) and suffixed (oldV.c) naming conventions are
	// accepted at discovery time.
	OldSource string
	NewSource string

	// Descriptor is the program's metadata, nil for aggregated cases.
	// Cases of the same program share one descriptor.
	Descriptor *Descriptor
}

// Kind derives the case kind from descriptor presence.
func (c Case) Kind() Kind {
	if c.Descriptor != nil {
		return KindFunction
	}
	return KindAggregated
}

// TargetFunction returns the descriptor's function, or "" for aggregated
// cases.
func (c Case) TargetFunction() string {
	if c.Descriptor == nil {
		return ""
	}
	return c.Descriptor.Function
}

// Name returns the "benchmark/program" identifier used in logs and progress
// output.
func (c Case) Name() string {
	return path.Join(c.Benchmark, c.Program)
}
