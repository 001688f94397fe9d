// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package report

import (
	"fmt"
	"regexp"
	"strconv"
)

// The three counter lines are matched independently, case-sensitively, and
// anchored to the start of a line. Their relative order in the report does
// not matter, and unrelated lines in between are ignored.
var (
	totalPattern    = regexp.MustCompile(`(?m)^Total symbols: (\d+)`)
	equalPattern    = regexp.MustCompile(`(?m)^Equal: (\d+)`)
	notEqualPattern = regexp.MustCompile(`(?m)^Not equal: (\d+)`)
)

// ParseStats extracts the aggregate symbol counts from a compare report.
//
// # Description
//
//	The tool prints a free-form report to stdout that contains, among other
//	output, three labeled counter lines:
//
//	    Total symbols: 3
//	    Equal: 2
//	    Not equal: 1
//
//	Each counter is located by its own pattern; the first match wins. A
//	report missing any of the three lines is rejected.
//
// # Inputs
//
//	text - The raw stdout of one compare invocation.
//
// # Outputs
//
//	Stats - The three parsed counts.
//	error - Wraps ErrMalformedReport and names the missing field when a
//	        counter line is absent.
func ParseStats(text string) (Stats, error) {
	total, err := extractCount(totalPattern, text, "total symbols")
	if err != nil {
		return Stats{}, err
	}
	equal, err := extractCount(equalPattern, text, "equal symbols")
	if err != nil {
		return Stats{}, err
	}
	notEqual, err := extractCount(notEqualPattern, text, "not equal symbols")
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalSymbols:    total,
		EqualSymbols:    equal,
		NotEqualSymbols: notEqual,
	}, nil
}

// extractCount locates one counter line and parses its integer.
func extractCount(pattern *regexp.Regexp, text, field string) (int, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: missing %s count", ErrMalformedReport, field)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// The pattern only captures digits; overflow is the one way here.
		return 0, fmt.Errorf("%w: %s count %q: %v", ErrMalformedReport, field, m[1], err)
	}
	return n, nil
}
