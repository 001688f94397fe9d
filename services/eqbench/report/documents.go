// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CaseDocuments gives on-demand access to one case's YAML artifacts.
//
// Nothing is read at construction time. Each method opens and parses its
// document only when called, so a run that never needs the function lists
// never pays for loading them. Callers hold a CaseDocuments per case and
// consult it only when the aggregate counts are insufficient.
type CaseDocuments struct {
	// SnapshotPath locates the snapshot document of the case's old
	// version (conventionally <caseDir>/old/snapshot.yaml).
	SnapshotPath string

	// ResultPath locates the per-case result document
	// (conventionally <caseDir>/diff/diffkemp-out.yaml).
	ResultPath string
}

// resultDocument mirrors the slice of the result document we consume: the
// entries under the top-level "results" key, each naming one function the
// tool found not equal.
type resultDocument struct {
	Results []struct {
		Function string `yaml:"function"`
	} `yaml:"results"`
}

// snapshotGroup mirrors one entry of the snapshot document's top-level
// sequence. Each group carries a "list" of recorded symbols.
type snapshotGroup struct {
	List []struct {
		Name string `yaml:"name"`
	} `yaml:"list"`
}

// NotEqualFunctions returns the ordered function names the result document
// lists as differing.
//
// An absent or empty "results" key yields an empty slice: a case where all
// symbols compared equal produces a result document with no entries.
func (d *CaseDocuments) NotEqualFunctions() ([]string, error) {
	data, err := os.ReadFile(d.ResultPath)
	if err != nil {
		return nil, fmt.Errorf("read result document: %w", err)
	}

	var doc resultDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse result document %s: %w", d.ResultPath, err)
	}

	names := make([]string, 0, len(doc.Results))
	for _, r := range doc.Results {
		names = append(names, r.Function)
	}
	return names, nil
}

// AllFunctions returns the ordered names of every function recorded in the
// snapshot document's first symbol group.
//
// Returns an error wrapping ErrEmptySnapshot when the document holds no
// groups at all.
func (d *CaseDocuments) AllFunctions() ([]string, error) {
	data, err := os.ReadFile(d.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("read snapshot document: %w", err)
	}

	var groups []snapshotGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse snapshot document %s: %w", d.SnapshotPath, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySnapshot, d.SnapshotPath)
	}

	names := make([]string, 0, len(groups[0].List))
	for _, s := range groups[0].List {
		names = append(names, s.Name)
	}
	return names, nil
}
