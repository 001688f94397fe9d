package diffkemp

import (
	"errors"
	"fmt"
	"testing"
)

// TestProcessError_Error verifies message formats for the three shapes a
// failure can take.
func TestProcessError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProcessError
		want string
	}{
		{
			name: "with stderr",
			err:  &ProcessError{Command: "diffkemp build a b", ExitCode: 1, Stderr: "clang missing"},
			want: "diffkemp build a b (exit 1): clang missing",
		},
		{
			name: "wrapped only",
			err:  &ProcessError{Command: "diffkemp compare a b", ExitCode: -1, Wrapped: errors.New("not found")},
			want: "diffkemp compare a b (exit -1): not found",
		},
		{
			name: "bare",
			err:  &ProcessError{Command: "diffkemp build a b", ExitCode: 4},
			want: "diffkemp build a b (exit 4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestProcessError_Unwrap verifies errors.Is works through the wrapper.
func TestProcessError_Unwrap(t *testing.T) {
	inner := errors.New("start failure")
	err := NewProcessError("diffkemp build a b", -1, "", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is failed to find the wrapped error")
	}
}

// TestNewProcessError_TrimsStderr verifies surrounding whitespace is removed.
func TestNewProcessError_TrimsStderr(t *testing.T) {
	err := NewProcessError("cmd", 1, "\n  error text \n\n", nil)
	if err.Stderr != "error text" {
		t.Errorf("Stderr = %q, want %q", err.Stderr, "error text")
	}
	if !err.HasStderr() {
		t.Error("HasStderr() = false, want true")
	}
}

// TestExtractStderr verifies chain walking through wrapped errors.
func TestExtractStderr(t *testing.T) {
	procErr := NewProcessError("diffkemp build a b", 1, "no such file", nil)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", procErr, "no such file"},
		{"wrapped once", fmt.Errorf("case gsl/sum/Eq: %w", procErr), "no such file"},
		{"wrapped twice", fmt.Errorf("run aborted: %w", fmt.Errorf("case gsl/sum/Eq: %w", procErr)), "no such file"},
		{"no process error", errors.New("plain"), ""},
		{"empty stderr", NewProcessError("cmd", 1, "", nil), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStderr(tt.err); got != tt.want {
				t.Errorf("ExtractStderr() = %q, want %q", got, tt.want)
			}
		})
	}
}
