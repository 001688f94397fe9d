package diffkemp

import (
	"fmt"
	"strings"
)

// ProcessError wraps a tool invocation failure with stderr context.
//
// # Description
//
// Provides rich error context for failed build and compare invocations:
// the command line that failed, its exit code, and whatever the tool wrote
// to stderr. Implements the error interface and supports unwrapping.
//
// # Example
//
//	err := NewProcessError("diffkemp build old.c snap", 1, "clang not found", nil)
//	fmt.Println(err.Error()) // "diffkemp build old.c snap (exit 1): clang not found"
//
//	var procErr *ProcessError
//	if errors.As(err, &procErr) {
//	    fmt.Println(procErr.Stderr) // "clang not found"
//	}
type ProcessError struct {
	// Command is the command line that was executed.
	Command string

	// ExitCode is the process exit code (-1 if the process never ran).
	ExitCode int

	// Stderr contains the standard error output.
	Stderr string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error returns a formatted error message including the command, exit code,
// and stderr output when available.
func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s (exit %d): %s", e.Command, e.ExitCode, e.Stderr)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Wrapped)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// through the chain.
func (e *ProcessError) Unwrap() error {
	return e.Wrapped
}

// HasStderr returns true if stderr output is available.
func (e *ProcessError) HasStderr() bool {
	return e.Stderr != ""
}

// NewProcessError creates a ProcessError with full context. Stderr is
// trimmed of surrounding whitespace.
func NewProcessError(cmd string, exitCode int, stderr string, wrapped error) *ProcessError {
	return &ProcessError{
		Command:  cmd,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Wrapped:  wrapped,
	}
}

// ExtractStderr walks an error chain looking for a ProcessError carrying
// stderr. Returns the first stderr found, or "" if none.
//
// # Example
//
//	if stderr := diffkemp.ExtractStderr(err); stderr != "" {
//	    fmt.Fprintf(os.Stderr, "tool output:\n%s\n", stderr)
//	}
func ExtractStderr(err error) string {
	for err != nil {
		if procErr, ok := err.(*ProcessError); ok && procErr.HasStderr() {
			return procErr.Stderr
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return ""
}
