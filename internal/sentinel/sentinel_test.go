package sentinel

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  Error
		want string
	}{
		"port message":  {err: Error("no free port in range"), want: "no free port in range"},
		"empty message": {err: Error(""), want: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError_ErrorsIs(t *testing.T) {
	t.Parallel()

	const refused = Error("connection refused")

	tests := map[string]struct {
		err    error
		target error
		want   bool
	}{
		"direct":            {err: refused, target: refused, want: true},
		"wrapped once":      {err: fmt.Errorf("dial: %w", refused), target: refused, want: true},
		"wrapped twice":     {err: fmt.Errorf("connect: %w", fmt.Errorf("dial: %w", refused)), target: refused, want: true},
		"other sentinel":    {err: refused, target: Error("other"), want: false},
		"same text, stdlib": {err: refused, target: errors.New("connection refused"), want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := errors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is() = %v, want %v", got, tc.want)
			}
		})
	}
}
