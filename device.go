package serial

import "errors"

var (
	// errCancelled is returned by a device whose pending operation was
	// interrupted by its own close.
	errCancelled = errors.New("i/o cancelled")

	// errHangup is returned when the device reports end of stream, which a
	// serial line only does once the hardware is gone.
	errHangup = errors.New("device hung up")
)

// device is the native side of a Port. Implementations perform exactly one
// blocking OS call per method; looping, retrying and event delivery belong to
// the Port.
type device interface {
	// id identifies the native handle for the pending-close set.
	id() uintptr

	// read blocks until at least one byte arrived, the operation completed
	// empty, or it failed. Only one read may be outstanding.
	read(buf []byte) (int, error)

	// write issues one write sub-operation and waits for its completion.
	write(p []byte) (int, error)

	setBaudRate(rate int) error
	config() (Config, error)

	setDTR(state bool) error
	setRTS(state bool) error
	setBreak(state bool) error
	setEventMask(cts, dsr bool) error
	modemStatus() (ModemStatus, error)

	purge() error
	drain() error

	// cancel aborts outstanding I/O without closing the handle. It is best
	// effort and never fails.
	cancel()
	close() error
}

// ModemStatus holds the input modem status lines
type ModemStatus struct {
	CTS bool // Clear To Send
	DSR bool // Data Set Ready
	DCD bool // Data Carrier Detect
}

// Signals describes the output lines and the status changes a port reports
type Signals struct {
	DTR   bool // Data Terminal Ready
	RTS   bool // Request To Send
	Break bool

	// ReportCTS and ReportDSR select which status transitions the device
	// reports to the driver.
	ReportCTS bool
	ReportDSR bool
}

// openDevice is provided per platform.
var openDevice func(name string, cfg Config) (device, error) = openNative
