// Copyright (C) 2025 The diffkemp-scripts authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for values that end up on
// subprocess argument vectors.
//
// Function names read from benchmark descriptor files are passed verbatim to
// the comparison tool's --function flag. Validating them here keeps shell
// metacharacters, path separators, and row-delimiter characters out of argv
// and out of the results file.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// symbolPattern matches linkable C function symbols.
// Allows: a leading letter or underscore, then letters, digits, underscores,
// plus dots and dollar signs for compiler-suffixed clones (foo.constprop.0).
// Max length: 128 characters.
var symbolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.$]{0,127}$`)

// ValidateFunctionName validates a C function symbol before it is forwarded
// to the comparison tool.
//
// Valid names:
//   - 1-128 characters
//   - start with a letter or underscore
//   - continue with letters, digits, underscores, dots, or dollar signs
//
// Returns an error if the name is invalid.
//
// Example:
//
//	if err := validation.ValidateFunctionName(fn); err != nil {
//	    return fmt.Errorf("descriptor %s: %w", path, err)
//	}
//	// Safe to place on the compare argv
func ValidateFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}

	if !symbolPattern.MatchString(name) {
		return fmt.Errorf("invalid function name: %q (must be a C symbol, optionally with compiler suffixes)", name)
	}

	return nil
}

// SanitizeFunctionName trims surrounding whitespace and validates the result.
// Returns the trimmed name if valid, or an error if invalid.
//
// Use this on names read from YAML, where trailing whitespace survives
// scalar parsing:
//
//	fn, err := validation.SanitizeFunctionName(raw)
//	if err != nil {
//	    return err
//	}
func SanitizeFunctionName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateFunctionName(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
