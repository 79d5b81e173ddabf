//go:build !windows

package serial

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func errnoCode(err error) (int, bool) {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno), true
	}
	return 0, false
}

func isNotFound(err error) bool {
	return errors.Is(err, unix.ENOENT)
}

func isInvalidHandle(err error) bool {
	return errors.Is(err, unix.EBADF)
}

func isAccessDenied(err error) bool {
	return errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EBUSY)
}

func isAborted(err error) bool {
	return errors.Is(err, errCancelled) || errors.Is(err, unix.ECANCELED) || errors.Is(err, os.ErrClosed)
}

// isRemoved reports errors a tty returns once its hardware is unplugged.
func isRemoved(err error) bool {
	return errors.Is(err, errHangup) ||
		errors.Is(err, unix.EIO) ||
		errors.Is(err, unix.ENXIO) ||
		errors.Is(err, unix.ENODEV)
}
