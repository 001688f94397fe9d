// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package verdict turns one case's comparison statistics into a rendered
// verdict and scores it against the case's ground-truth label.
package verdict

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PLukas2018/diffkemp-scripts/services/eqbench/report"
)

// ErrNoFunctionSource is returned when a mixed outcome needs function lists
// but no source was provided.
var ErrNoFunctionSource = errors.New("mixed outcome requires a function source")

// -----------------------------------------------------------------------------
// Kinds
// -----------------------------------------------------------------------------

// Kind discriminates the three possible outcomes of one case.
type Kind int

const (
	// KindUnknown is the zero value, indicating an unclassified verdict.
	KindUnknown Kind = iota

	// KindEq means every compared symbol was found equal.
	KindEq

	// KindNeq means every compared symbol was found not equal.
	KindNeq

	// KindMixed means the symbols split between equal and not equal.
	KindMixed
)

// String returns the kind name for logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindEq:
		return "Eq"
	case KindNeq:
		return "Neq"
	case KindMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// -----------------------------------------------------------------------------
// Function source
// -----------------------------------------------------------------------------

// FunctionSource supplies the per-case function lists on demand.
//
// Classify consults it only when the aggregate counts are inconclusive, so
// implementations may defer all I/O until called. report.CaseDocuments
// satisfies this interface.
type FunctionSource interface {
	// NotEqualFunctions returns the ordered names the tool reported as
	// differing.
	NotEqualFunctions() ([]string, error)

	// AllFunctions returns the ordered names of every compared function.
	AllFunctions() ([]string, error)
}

// -----------------------------------------------------------------------------
// Verdict
// -----------------------------------------------------------------------------

// Verdict is the classified outcome of one case.
//
// EqualCount and NotEqualCount carry the report's aggregate counts, not the
// lengths of the function lists; a mixed verdict renders the counts the tool
// printed even when the lists disagree with them.
type Verdict struct {
	Kind Kind

	// EqualCount is the number of symbols the report counted as equal.
	EqualCount int

	// NotEqualCount is the number of symbols the report counted as not
	// equal.
	NotEqualCount int

	// EqualFunctions and NotEqualFunctions are populated only for
	// KindMixed. They are disjoint: EqualFunctions is the snapshot's
	// function list minus NotEqualFunctions, in snapshot order.
	EqualFunctions    []string
	NotEqualFunctions []string
}

// Classify derives a verdict from one case's statistics.
//
// # Description
//
//	The aggregate counts decide two of the three outcomes outright:
//
//	  - every symbol equal     -> KindEq
//	  - every symbol not equal -> KindNeq
//
//	A report of zero symbols classifies as KindEq (zero equals zero). Only
//	the remaining mixed outcome needs the per-function lists, so src is
//	consulted on that branch alone; Eq and Neq classifications never touch
//	the case's documents.
//
// # Inputs
//
//	stats - Parsed counts from the compare report.
//	src   - Lazy access to the case's function lists. May be nil when the
//	        caller knows the outcome cannot be mixed.
//
// # Outputs
//
//	Verdict - The classified outcome.
//	error   - ErrNoFunctionSource for a mixed outcome without src, or the
//	          source's error loading either list.
func Classify(stats report.Stats, src FunctionSource) (Verdict, error) {
	if stats.EqualSymbols == stats.TotalSymbols {
		return Verdict{Kind: KindEq, EqualCount: stats.EqualSymbols}, nil
	}
	if stats.NotEqualSymbols == stats.TotalSymbols {
		return Verdict{Kind: KindNeq, NotEqualCount: stats.NotEqualSymbols}, nil
	}

	if src == nil {
		return Verdict{}, ErrNoFunctionSource
	}
	notEqual, err := src.NotEqualFunctions()
	if err != nil {
		return Verdict{}, fmt.Errorf("load not-equal functions: %w", err)
	}
	all, err := src.AllFunctions()
	if err != nil {
		return Verdict{}, fmt.Errorf("load all functions: %w", err)
	}

	return Verdict{
		Kind:              KindMixed,
		EqualCount:        stats.EqualSymbols,
		NotEqualCount:     stats.NotEqualSymbols,
		EqualFunctions:    subtract(all, notEqual),
		NotEqualFunctions: notEqual,
	}, nil
}

// Render returns the verdict string recorded in the results file.
//
// Plain outcomes render as the bare label. Mixed outcomes name both sides:
//
//	2 Eq ['f', 'g'], 1 Neq ['h']
func (v Verdict) Render() string {
	switch v.Kind {
	case KindEq:
		return "Eq"
	case KindNeq:
		return "Neq"
	case KindMixed:
		return fmt.Sprintf("%d Eq %s, %d Neq %s",
			v.EqualCount, formatFunctionList(v.EqualFunctions),
			v.NotEqualCount, formatFunctionList(v.NotEqualFunctions))
	default:
		return "Unknown"
	}
}

// Matches reports whether the rendered verdict equals the expected label
// exactly. A mixed verdict never matches a plain label.
func (v Verdict) Matches(label string) bool {
	return v.Render() == label
}

// subtract returns the elements of all that are not in excluded, preserving
// the order of all. Every occurrence of an excluded name is removed.
func subtract(all, excluded []string) []string {
	drop := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		drop[name] = struct{}{}
	}

	kept := make([]string, 0, len(all))
	for _, name := range all {
		if _, skip := drop[name]; !skip {
			kept = append(kept, name)
		}
	}
	return kept
}

// formatFunctionList renders names as a Python-style list literal, matching
// the historical format of the results files: [] or ['f', 'g'].
func formatFunctionList(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
