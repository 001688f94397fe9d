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
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PLukas2018/diffkemp-scripts/pkg/validation"
)

// LoadDescriptor reads a program's descriptor file.
//
// An absent file is not an error: it simply means the program's cases are
// aggregated, so the caller receives (nil, nil). A file that exists but
// lacks a usable function name is a hard error wrapping ErrMissingFunction;
// half-written metadata aborts the run rather than silently demoting a
// function-level case to aggregated.
//
// The function name is trimmed and validated before it can ever reach a
// subprocess argument vector.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	if strings.TrimSpace(desc.Function) == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingFunction, path)
	}

	fn, err := validation.SanitizeFunctionName(desc.Function)
	if err != nil {
		return nil, fmt.Errorf("descriptor %s: %w", path, err)
	}
	desc.Function = fn

	return &desc, nil
}
