// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suite

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source file naming conventions, checked in order of preference. Both
// styles appear in published benchmark trees.
var (
	oldSourceNames = []string{"old.c", "oldV.c"}
	newSourceNames = []string{"new.c", "newV.c"}
)

// Discover walks a benchmark tree and returns its cases in processing
// order: every Eq case first, then every Neq case, each group ordered by
// benchmark then program name.
//
// # Description
//
//	The tree is read two levels deep: benchmark directories under root,
//	program directories under each benchmark. Inside a program directory
//	only the Eq and Neq subdirectories are considered; anything else
//	(READMEs, build leftovers, other directories) is skipped. A program
//	containing both labels yields two cases sharing one descriptor.
//
// # Outputs
//
//	[]Case - Discovered cases in deterministic processing order. Empty
//	         trees yield an empty slice.
//	error  - Unreadable root, a bad descriptor, or a case directory
//	         missing one of its source files.
func Discover(root string) ([]Case, error) {
	benchmarks, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read benchmark root %s: %w", root, err)
	}

	var eqCases, neqCases []Case

	for _, bench := range benchmarks {
		if !bench.IsDir() {
			continue
		}
		benchDir := filepath.Join(root, bench.Name())

		programs, err := os.ReadDir(benchDir)
		if err != nil {
			return nil, fmt.Errorf("read benchmark %s: %w", bench.Name(), err)
		}

		for _, prog := range programs {
			if !prog.IsDir() {
				continue
			}
			progDir := filepath.Join(benchDir, prog.Name())

			desc, err := LoadDescriptor(filepath.Join(progDir, DescriptorFile))
			if err != nil {
				return nil, fmt.Errorf("program %s/%s: %w", bench.Name(), prog.Name(), err)
			}

			for _, label := range []Label{LabelEq, LabelNeq} {
				labelDir := filepath.Join(progDir, string(label))
				info, err := os.Stat(labelDir)
				if err != nil || !info.IsDir() {
					continue
				}

				c, err := buildCase(bench.Name(), prog.Name(), label, labelDir, desc)
				if err != nil {
					return nil, err
				}
				if label == LabelEq {
					eqCases = append(eqCases, c)
				} else {
					neqCases = append(neqCases, c)
				}
			}
		}
	}

	return append(eqCases, neqCases...), nil
}

// buildCase resolves a label directory's source files into a Case.
func buildCase(benchmark, program string, label Label, dir string, desc *Descriptor) (Case, error) {
	oldSource, err := resolveSource(dir, oldSourceNames)
	if err != nil {
		return Case{}, fmt.Errorf("case %s/%s/%s: %w", benchmark, program, label, err)
	}
	newSource, err := resolveSource(dir, newSourceNames)
	if err != nil {
		return Case{}, fmt.Errorf("case %s/%s/%s: %w", benchmark, program, label, err)
	}

	return Case{
		Benchmark:  benchmark,
		Program:    program,
		Label:      label,
		Dir:        dir,
		OldSource:  oldSource,
		NewSource:  newSource,
		Descriptor: desc,
	}, nil
}

// resolveSource returns the first existing candidate file in dir.
func resolveSource(dir string, candidates []string) (string, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %v in %s", ErrMissingSource, candidates, dir)
}
