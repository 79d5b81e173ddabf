package serial

import (
	"errors"
	"fmt"
	"testing"
)

func TestPortErrorKinds(t *testing.T) {
	kinds := []struct {
		kind     Kind
		sentinel error
	}{
		{KindOpen, ErrOpen},
		{KindUpdate, ErrUpdate},
		{KindWrite, ErrWrite},
		{KindSet, ErrSet},
		{KindGet, ErrGet},
		{KindFlush, ErrFlush},
		{KindDrain, ErrDrain},
		{KindClose, ErrClose},
		{KindRead, ErrRead},
	}

	cause := errors.New("cause")
	for _, k := range kinds {
		t.Run(k.kind.String(), func(t *testing.T) {
			err := newPortError(k.kind, "op", cause)
			if !errors.Is(err, k.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, k.sentinel)
			}
			if !errors.Is(err, cause) {
				t.Error("cause not reachable through Unwrap")
			}
			for _, other := range kinds {
				if other.kind != k.kind && errors.Is(err, other.sentinel) {
					t.Errorf("%v also matches %v", k.kind, other.sentinel)
				}
			}
		})
	}
}

func TestPortErrorWrapped(t *testing.T) {
	err := fmt.Errorf("listen: %w", newPortError(KindOpen, "Opening COM3", errCancelled))

	var pe *PortError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As failed")
	}
	if pe.Kind != KindOpen {
		t.Errorf("Kind = %v", pe.Kind)
	}
	if !errors.Is(err, ErrOpen) {
		t.Error("wrapped error lost its kind")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "Success"},
		{"cancelled", errCancelled, "operation aborted"},
		{"plain error", errors.New("framing error"), "framing error"},
		{"wrapped cancel", fmt.Errorf("read: %w", errCancelled), "operation aborted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.err); got != tt.want {
				t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestPortErrorMessage(t *testing.T) {
	err := newPortError(KindWrite, "Writing to serial port", errCancelled)
	if got := err.Error(); got != "Writing to serial port: operation aborted" {
		t.Errorf("Error() = %q", got)
	}
}
