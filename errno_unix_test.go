//go:build !windows

package serial

import (
	"fmt"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestDescribeErrno(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{unix.ENOENT, "File not found"},
		{unix.EBADF, "Invalid handle"},
		{unix.EACCES, "Access denied"},
		{unix.EBUSY, "Access denied"},
		{unix.ECANCELED, "operation aborted"},
		{&os.PathError{Op: "open", Path: "/dev/ttyUSB9", Err: unix.ENOENT}, "File not found"},
		{unix.EINVAL, fmt.Sprintf("Unknown error code %d", int(unix.EINVAL))},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := describe(tt.err); got != tt.want {
				t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		err     error
		aborted bool
		removed bool
	}{
		{errCancelled, true, false},
		{os.ErrClosed, true, false},
		{errHangup, false, true},
		{unix.EIO, false, true},
		{unix.ENXIO, false, true},
		{unix.ENODEV, false, true},
		{unix.EINVAL, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := isAborted(tt.err); got != tt.aborted {
				t.Errorf("isAborted = %v, want %v", got, tt.aborted)
			}
			if got := isRemoved(tt.err); got != tt.removed {
				t.Errorf("isRemoved = %v, want %v", got, tt.removed)
			}
		})
	}
}
