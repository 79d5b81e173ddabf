package serial

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrPortClosed      = errors.New("serial port is closed")
	ErrInvalidConfig   = errors.New("invalid serial configuration")
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrUnsupported     = errors.New("serial ports are not supported on this platform")

	// Operation kinds, matched with errors.Is against a *PortError
	ErrOpen   = errors.New("open failed")
	ErrUpdate = errors.New("update failed")
	ErrWrite  = errors.New("write failed")
	ErrSet    = errors.New("set failed")
	ErrGet    = errors.New("get failed")
	ErrFlush  = errors.New("flush failed")
	ErrDrain  = errors.New("drain failed")
	ErrClose  = errors.New("close failed")
	ErrRead   = errors.New("read failed")
)

// Kind identifies which port operation produced a PortError
type Kind int

const (
	KindOpen Kind = iota
	KindUpdate
	KindWrite
	KindSet
	KindGet
	KindFlush
	KindDrain
	KindClose
	KindRead
)

var kindSentinels = [...]error{
	KindOpen:   ErrOpen,
	KindUpdate: ErrUpdate,
	KindWrite:  ErrWrite,
	KindSet:    ErrSet,
	KindGet:    ErrGet,
	KindFlush:  ErrFlush,
	KindDrain:  ErrDrain,
	KindClose:  ErrClose,
	KindRead:   ErrRead,
}

func (k Kind) String() string {
	if int(k) < len(kindSentinels) {
		return kindSentinels[k].Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// PortError reports a failed native operation. Op names the call that failed,
// Err is the underlying OS error.
type PortError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *PortError) Error() string {
	return e.Op + ": " + describe(e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so callers can write
// errors.Is(err, serial.ErrWrite).
func (e *PortError) Is(target error) bool {
	return int(e.Kind) < len(kindSentinels) && kindSentinels[e.Kind] == target
}

func newPortError(kind Kind, op string, err error) *PortError {
	return &PortError{Kind: kind, Op: op, Err: err}
}

// describe turns an OS error into a fixed phrase. Errors that carry no OS code
// keep their own message.
func describe(err error) string {
	switch {
	case err == nil:
		return "Success"
	case isNotFound(err):
		return "File not found"
	case isInvalidHandle(err):
		return "Invalid handle"
	case isAccessDenied(err):
		return "Access denied"
	case isAborted(err):
		return "operation aborted"
	}
	if code, ok := errnoCode(err); ok {
		return fmt.Sprintf("Unknown error code %d", code)
	}
	return err.Error()
}
