//go:build windows

package serial

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

const errorDeviceRemoved = syscall.Errno(1617)

func errnoCode(err error) (int, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno), true
	}
	return 0, false
}

func isNotFound(err error) bool {
	return errors.Is(err, windows.ERROR_FILE_NOT_FOUND) || errors.Is(err, windows.ERROR_PATH_NOT_FOUND)
}

func isInvalidHandle(err error) bool {
	return errors.Is(err, windows.ERROR_INVALID_HANDLE)
}

func isAccessDenied(err error) bool {
	return errors.Is(err, windows.ERROR_ACCESS_DENIED)
}

func isAborted(err error) bool {
	return errors.Is(err, errCancelled) || errors.Is(err, windows.ERROR_OPERATION_ABORTED)
}

func isRemoved(err error) bool {
	return errors.Is(err, errHangup) ||
		errors.Is(err, errorDeviceRemoved) ||
		errors.Is(err, windows.ERROR_DEV_NOT_EXIST)
}
